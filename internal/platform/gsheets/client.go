// Package gsheets implements tabular.Backend against the Google Sheets
// API. One spreadsheet holds all logical tables, one worksheet each.
package gsheets

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"ai-care-backend/internal/tabular"
)

type Client struct {
	svc           *sheets.Service
	spreadsheetID string

	// The Sheets API enforces a per-minute read/write quota; pacing
	// requests client-side keeps bursts from tripping it.
	limiter *rate.Limiter
}

func NewClient(ctx context.Context, spreadsheetID, credentialsFile string) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		limiter:       rate.NewLimiter(rate.Limit(1), 4),
	}, nil
}

func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, wrap(err)
	}
	tables := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		tables = append(tables, s.Properties.Title)
	}
	return tables, nil
}

func (c *Client) CreateTable(ctx context.Context, table string, columns []string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: table},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return wrap(err)
	}
	return c.writeHeaderCells(ctx, table, 1, columns)
}

func (c *Client) ListColumns(ctx context.Context, table string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, table+"!1:1").Context(ctx).Do()
	if err != nil {
		return nil, wrap(err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	columns := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		columns = append(columns, fmt.Sprint(cell))
	}
	return columns, nil
}

func (c *Client) AppendColumns(ctx context.Context, table string, columns []string) error {
	live, err := c.ListColumns(ctx, table)
	if err != nil {
		return err
	}
	return c.writeHeaderCells(ctx, table, len(live)+1, columns)
}

func (c *Client) AppendRow(ctx context.Context, table string, row tabular.Row) error {
	live, err := c.ListColumns(ctx, table)
	if err != nil {
		return err
	}
	values, err := tabular.AlignRow(live, row)
	if err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(values)}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, table+"!A1", vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return wrap(err)
}

func (c *Client) ReadRows(ctx context.Context, table string) ([]tabular.Row, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, table+"!A1:ZZ").Context(ctx).Do()
	if err != nil {
		return nil, wrap(err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	header := resp.Values[0]
	rows := make([]tabular.Row, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make(tabular.Row, len(header))
		for i, col := range header {
			if i < len(raw) {
				row[fmt.Sprint(col)] = fmt.Sprint(raw[i])
			} else {
				row[fmt.Sprint(col)] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// writeHeaderCells writes column names into row 1 starting at the given
// 1-based column index.
func (c *Client) writeHeaderCells(ctx context.Context, table string, start int, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	rangeRef := fmt.Sprintf("%s!%s1", table, columnLetter(start))
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(columns)}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rangeRef, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	return wrap(err)
}

// columnLetter converts a 1-based column index to A1 notation (1 -> A,
// 27 -> AA).
func columnLetter(n int) string {
	letters := ""
	for n > 0 {
		n--
		letters = string(rune('A'+n%26)) + letters
		n /= 26
	}
	return letters
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// wrap maps Sheets API failures onto the error taxonomy: 429 is the
// quota ceiling (retryable with backoff), 5xx is a transient outage.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 429:
			return &tabular.QuotaError{Err: err}
		case gerr.Code >= 500:
			return &tabular.UnavailableError{Err: err}
		}
	}
	return err
}
