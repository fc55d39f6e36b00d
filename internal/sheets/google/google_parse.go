package google

import (
	"fmt"
	"strconv"
	"strings"

	"finflow/internal/core"
	"finflow/internal/dashboard"
)

const (
	metricHeader   = "Metric"
	categoryPrefix = "Category: "
)

var monthHeaders = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// metricRow is one labelled amount of a monthly column.
type metricRow struct {
	Label string
	Value core.Money
}

// summaryRows flattens a summary into the rows of its month column.
func summaryRows(s dashboard.Summary) []metricRow {
	rows := []metricRow{
		{Label: "Income", Value: s.TotalIncome},
		{Label: "Expense", Value: s.TotalExpense},
		{Label: "Net", Value: s.TotalIncome.Sub(s.TotalExpense)},
		{Label: "Current balance", Value: s.CurrentBalance},
		{Label: "Projected balance", Value: s.ProjectedBalance},
		{Label: "Card debt", Value: s.CreditCardDebt},
	}
	for _, c := range s.CategoryDistribution {
		rows = append(rows, metricRow{Label: categoryPrefix + c.Name, Value: c.Value})
	}
	return rows
}

// columnLetter maps month 1..12 to sheet columns B..M; column A holds labels.
func columnLetter(month int) string {
	return string(rune('A' + month))
}

// buildLayout merges the summary rows into the labels already on the sheet.
// Existing rows keep their position so the other months stay aligned; labels
// missing from the summary get zero and new labels are appended.
func buildLayout(existing [][]interface{}, month int, rows []metricRow) (labels []string, column []string) {
	values := make(map[string]core.Money, len(rows))
	for _, r := range rows {
		values[r.Label] = r.Value
	}

	labels = []string{metricHeader}
	seen := map[string]bool{metricHeader: true}
	dup := map[int]bool{}
	for i := 1; i < len(existing); i++ {
		l := safeGet(toStrings(existing[i]), 0)
		if l != "" && seen[l] {
			dup[i] = true
		}
		seen[l] = true
		labels = append(labels, l)
	}
	for _, r := range rows {
		if !seen[r.Label] {
			seen[r.Label] = true
			labels = append(labels, r.Label)
		}
	}

	column = make([]string, len(labels))
	column[0] = monthHeaders[month-1]
	for i := 1; i < len(labels); i++ {
		if labels[i] == "" || dup[i] {
			continue
		}
		column[i] = values[labels[i]].String()
	}
	return labels, column
}

// headerRow is the first row of a fresh yearly sheet.
func headerRow() []interface{} {
	row := make([]interface{}, 0, 13)
	row = append(row, metricHeader)
	for _, m := range monthHeaders {
		row = append(row, m)
	}
	return row
}

// columnUnchanged reports whether the sheet already shows column for month.
func columnUnchanged(existing [][]interface{}, month int, labels, column []string) bool {
	if len(existing) != len(labels) {
		return false
	}
	for i := range labels {
		cells := toStrings(existing[i])
		if safeGet(cells, 0) != labels[i] {
			return false
		}
		cell := safeGet(cells, month)
		if i == 0 || column[i] == "" {
			if !strings.EqualFold(cell, column[i]) {
				return false
			}
			continue
		}
		have, err := core.ParseMoney(cell)
		if err != nil || have != core.MoneyOrZero(column[i]) {
			return false
		}
	}
	return true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
