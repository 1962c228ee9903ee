// Package sheetsync keeps configured Google Sheets and the document store
// mirrored in both directions: sheet edits flow into the store, store writes
// flow back onto the sheet.
package sheetsync

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var spreadsheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// ExtractSpreadsheetID pulls the spreadsheet id out of a full sheet URL.
// A bare id passes through unchanged.
func ExtractSpreadsheetID(url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("empty spreadsheet url")
	}
	if m := spreadsheetIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if strings.Contains(url, "/") {
		return "", fmt.Errorf("cannot extract spreadsheet id from %q", url)
	}
	return url, nil
}

// SheetAPI is the slice of the Sheets service the worker consumes. The
// concrete client talks to Google; tests plug in an in-memory fake.
type SheetAPI interface {
	FirstSheetName(ctx context.Context, spreadsheetID string) (string, error)
	ReadAll(ctx context.Context, spreadsheetID string, sheetName string) ([][]string, error)
	AppendRow(ctx context.Context, spreadsheetID string, sheetName string, row []string) error
	UpdateRowByIndex(ctx context.Context, spreadsheetID string, sheetName string, rowIndex int, row []string) error
	EnsureHeader(ctx context.Context, spreadsheetID string, sheetName string, header []string) error
	ClearRowByID(ctx context.Context, spreadsheetID string, sheetName string, id string) error
	UpdateRowByID(ctx context.Context, spreadsheetID string, sheetName string, id string, row []string) error
}

// SheetsClient is the production SheetAPI over the Sheets v4 service.
type SheetsClient struct {
	service *sheets.Service
}

// NewSheetsClient authenticates from SHEETS_CREDENTIALS_JSON when set,
// otherwise falls back to application default credentials.
func NewSheetsClient(ctx context.Context) (*SheetsClient, error) {
	var opts []option.ClientOption
	if creds := os.Getenv("SHEETS_CREDENTIALS_JSON"); creds != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	}
	opts = append(opts, option.WithScopes(sheets.SpreadsheetsScope))

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &SheetsClient{service: service}, nil
}

func (c *SheetsClient) FirstSheetName(ctx context.Context, spreadsheetID string) (string, error) {
	meta, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get spreadsheet %s: %w", spreadsheetID, err)
	}
	if len(meta.Sheets) == 0 || meta.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}
	return meta.Sheets[0].Properties.Title, nil
}

// ReadAll returns every populated row as strings. Row 0 is the header.
func (c *SheetsClient) ReadAll(ctx context.Context, spreadsheetID string, sheetName string) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetName).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s!%s: %w", spreadsheetID, sheetName, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprintf("%v", cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *SheetsClient) AppendRow(ctx context.Context, spreadsheetID string, sheetName string, row []string) error {
	_, err := c.service.Spreadsheets.Values.Append(spreadsheetID, sheetName+"!A1", &sheets.ValueRange{
		Values: [][]interface{}{toCells(row)},
	}).ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s!%s: %w", spreadsheetID, sheetName, err)
	}
	return nil
}

// UpdateRowByIndex rewrites the row at the given zero-based data index.
// Data rows start below the header, so sheet row = index + 2.
func (c *SheetsClient) UpdateRowByIndex(ctx context.Context, spreadsheetID string, sheetName string, rowIndex int, row []string) error {
	rng := fmt.Sprintf("%s!A%d", sheetName, rowIndex+2)
	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{
		Values: [][]interface{}{toCells(row)},
	}).ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// EnsureHeader writes the header row only when row 1 is empty. An existing
// header is never rewritten, even when the columns differ.
func (c *SheetsClient) EnsureHeader(ctx context.Context, spreadsheetID string, sheetName string, header []string) error {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetName+"!1:1").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header %s!%s: %w", spreadsheetID, sheetName, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}
	_, err = c.service.Spreadsheets.Values.Update(spreadsheetID, sheetName+"!A1", &sheets.ValueRange{
		Values: [][]interface{}{toCells(header)},
	}).ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header %s!%s: %w", spreadsheetID, sheetName, err)
	}
	return nil
}

// ClearRowByID blanks the row whose first column matches the id, leaving
// row positions of everything else stable. Unknown ids are a no-op.
func (c *SheetsClient) ClearRowByID(ctx context.Context, spreadsheetID string, sheetName string, id string) error {
	rows, err := c.ReadAll(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) > 0 && rows[i][0] == id {
			rng := fmt.Sprintf("%s!A%d:Z%d", sheetName, i+1, i+1)
			_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).
				Context(ctx).Do()
			if err != nil {
				return fmt.Errorf("clear %s: %w", rng, err)
			}
			return nil
		}
	}
	return nil
}

// UpdateRowByID rewrites the row whose first column matches the id, or
// appends the row when the id is not on the sheet yet.
func (c *SheetsClient) UpdateRowByID(ctx context.Context, spreadsheetID string, sheetName string, id string, row []string) error {
	rows, err := c.ReadAll(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) > 0 && rows[i][0] == id {
			return c.UpdateRowByIndex(ctx, spreadsheetID, sheetName, i-1, row)
		}
	}
	return c.AppendRow(ctx, spreadsheetID, sheetName, row)
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
