package google

import (
	"testing"

	"finflow/internal/core"
	"finflow/internal/dashboard"
)

func sampleSummary() dashboard.Summary {
	return dashboard.Summary{
		Year:             2024,
		Month:            3,
		TotalIncome:      core.Cents(500000),
		TotalExpense:     core.Cents(120050),
		CurrentBalance:   core.Cents(1000000),
		ProjectedBalance: core.Cents(1379950),
		CreditCardDebt:   core.Cents(40000),
		CategoryDistribution: []dashboard.CategorySlice{
			{CategoryID: "food", Name: "Food", Value: core.Cents(80050)},
			{CategoryID: "transport", Name: "Transport", Value: core.Cents(40000)},
		},
	}
}

func TestColumnLetter(t *testing.T) {
	tests := map[int]string{1: "B", 3: "D", 12: "M"}
	for month, want := range tests {
		if got := columnLetter(month); got != want {
			t.Errorf("columnLetter(%d) = %q, want %q", month, got, want)
		}
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Dashboard", 2024, "2024 Dashboard"},
		{"  Dashboard  ", 2025, "2025 Dashboard"},
		{"2023 Dashboard", 2024, "2023 Dashboard"},
		{"", 2024, ""},
		{"123 Budget", 2024, "2024 123 Budget"},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestSummaryRows(t *testing.T) {
	rows := summaryRows(sampleSummary())

	if len(rows) != 8 {
		t.Fatalf("summaryRows() len = %d, want 8", len(rows))
	}
	want := map[string]int64{
		"Income":              500000,
		"Expense":             120050,
		"Net":                 379950,
		"Current balance":     1000000,
		"Projected balance":   1379950,
		"Card debt":           40000,
		"Category: Food":      80050,
		"Category: Transport": 40000,
	}
	for _, r := range rows {
		cents, ok := want[r.Label]
		if !ok {
			t.Errorf("unexpected row %q", r.Label)
			continue
		}
		if r.Value.Cents != cents {
			t.Errorf("row %q = %d, want %d", r.Label, r.Value.Cents, cents)
		}
	}
}

func TestBuildLayout_FreshSheet(t *testing.T) {
	labels, column := buildLayout([][]interface{}{headerRow()}, 3, summaryRows(sampleSummary()))

	if len(labels) != 9 || len(column) != 9 {
		t.Fatalf("got %d labels and %d cells, want 9", len(labels), len(column))
	}
	if labels[0] != "Metric" || column[0] != "Mar" {
		t.Errorf("header = %q/%q, want Metric/Mar", labels[0], column[0])
	}
	if labels[1] != "Income" || column[1] != "5000.00" {
		t.Errorf("first row = %q/%q, want Income/5000.00", labels[1], column[1])
	}
	if labels[7] != "Category: Food" || column[7] != "800.50" {
		t.Errorf("category row = %q/%q, want Category: Food/800.50", labels[7], column[7])
	}
}

func TestBuildLayout_KeepsExistingRows(t *testing.T) {
	existing := [][]interface{}{
		{"Metric", "Jan", "Feb"},
		{"Income", 100, 200},
		{"Category: Travel", 50, 0},
		{"", "", ""},
		{"Expense", 30, 40},
		{"Income", 1, 1},
	}
	rows := []metricRow{
		{Label: "Income", Value: core.Cents(30000)},
		{Label: "Expense", Value: core.Cents(5000)},
		{Label: "Category: Food", Value: core.Cents(2500)},
	}

	labels, column := buildLayout(existing, 2, rows)

	wantLabels := []string{"Metric", "Income", "Category: Travel", "", "Expense", "Income", "Category: Food"}
	wantColumn := []string{"Feb", "300.00", "0.00", "", "50.00", "", "25.00"}
	if len(labels) != len(wantLabels) {
		t.Fatalf("labels = %v, want %v", labels, wantLabels)
	}
	for i := range wantLabels {
		if labels[i] != wantLabels[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], wantLabels[i])
		}
		if column[i] != wantColumn[i] {
			t.Errorf("column[%d] = %q, want %q", i, column[i], wantColumn[i])
		}
	}
}

func TestColumnUnchanged(t *testing.T) {
	labels := []string{"Metric", "Income", "Expense"}
	column := []string{"Jan", "1000.50", "20.00"}

	tests := []struct {
		name     string
		existing [][]interface{}
		want     bool
	}{
		{
			name:     "same values as numbers",
			existing: [][]interface{}{{"Metric", "Jan"}, {"Income", 1000.5}, {"Expense", 20}},
			want:     true,
		},
		{
			name:     "different amount",
			existing: [][]interface{}{{"Metric", "Jan"}, {"Income", 1000.49}, {"Expense", 20}},
			want:     false,
		},
		{
			name:     "missing row",
			existing: [][]interface{}{{"Metric", "Jan"}, {"Income", 1000.5}},
			want:     false,
		},
		{
			name:     "empty cell",
			existing: [][]interface{}{{"Metric", "Jan"}, {"Income"}, {"Expense", 20}},
			want:     false,
		},
		{
			name:     "empty sheet",
			existing: nil,
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := columnUnchanged(tt.existing, 1, labels, column); got != tt.want {
				t.Errorf("columnUnchanged() = %v, want %v", got, tt.want)
			}
		})
	}
}
