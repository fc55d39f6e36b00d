// Package google exports monthly dashboard summaries to a Google Sheets
// spreadsheet. Each year gets its own "<year> <base>" sheet with one row per
// metric and one column per month.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"finflow/internal/dashboard"
	"finflow/internal/ports"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config selects the spreadsheet and the credentials used to reach it.
type Config struct {
	SpreadsheetID      string
	DashboardSheetName string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base name without year (e.g. "Dashboard"); the year is prefixed per export.
	dashboardBase string
}

var _ ports.SummaryExporter = (*Client)(nil)

// New creates a Sheets exporter authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	svc, err := newSheetsService(ctx, cfg.ServiceAccountJSON, cfg.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(svc, cfg)
}

func newClient(svc *gsheet.Service, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	base := strings.TrimSpace(cfg.DashboardSheetName)
	if base == "" {
		base = "Dashboard"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		dashboardBase: base,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials, inline JSON taking precedence over the file.
func newSheetsService(ctx context.Context, serviceAccountJSON, serviceAccountFile string) (*gsheet.Service, error) {
	serviceAccountJSON = strings.TrimSpace(serviceAccountJSON)
	serviceAccountFile = strings.TrimSpace(serviceAccountFile)

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

// ExportSummary writes the summary into the month column of the yearly sheet.
// The sheet is created on first use; a column that already shows the same
// values is not rewritten.
func (c *Client) ExportSummary(ctx context.Context, s dashboard.Summary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if s.Month < 1 || s.Month > 12 {
		return fmt.Errorf("invalid month: %d", s.Month)
	}

	sheetName := yearPrefixedName(c.dashboardBase, s.Year)
	if err := c.ensureSheet(ctx, sheetName); err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!A1:M", sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}

	existing := resp.Values
	if len(existing) == 0 {
		existing = [][]interface{}{headerRow()}
	}

	labels, column := buildLayout(existing, s.Month, summaryRows(s))
	if columnUnchanged(resp.Values, s.Month, labels, column) {
		slog.DebugContext(ctx, "Dashboard column unchanged, skipping export",
			"sheet", sheetName, "year", s.Year, "month", s.Month)
		return nil
	}

	col := columnLetter(s.Month)
	data := []*gsheet.ValueRange{
		{
			Range:  fmt.Sprintf("%s!A1:A%d", sheetName, len(labels)),
			Values: singleColumn(labels),
		},
		{
			Range:  fmt.Sprintf("%s!%s1:%s%d", sheetName, col, col, len(column)),
			Values: singleColumn(column),
		},
	}
	if len(resp.Values) == 0 {
		data = append(data, &gsheet.ValueRange{
			Range:  fmt.Sprintf("%s!A1:M1", sheetName),
			Values: [][]interface{}{headerRow()},
		})
	}

	req := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("write dashboard %s: %w", sheetName, err)
	}

	slog.InfoContext(ctx, "Exported dashboard summary",
		"sheet", sheetName,
		"year", s.Year,
		"month", s.Month,
		"rows", len(labels))
	return nil
}

// ensureSheet adds the named sheet when the spreadsheet does not have it.
func (c *Client) ensureSheet(ctx context.Context, name string) error {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == name {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}
	slog.InfoContext(ctx, "Created dashboard sheet", "sheet", name)
	return nil
}

func singleColumn(cells []string) [][]interface{} {
	out := make([][]interface{}, len(cells))
	for i, v := range cells {
		out[i] = []interface{}{v}
	}
	return out
}
