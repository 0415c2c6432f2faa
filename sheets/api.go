package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// API is the slice of the spreadsheet service the synchronizer consumes.
type API interface {
	Create(ctx context.Context, title string) (string, error)
	ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
	Clear(ctx context.Context, spreadsheetID, clearRange string) error
	Update(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error
	Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error
	BatchFormat(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error
}

type googleAPI struct {
	svc *sheets.Service
}

// NewGoogleAPI builds the real Sheets-backed API from a service account
// credentials file.
func NewGoogleAPI(ctx context.Context, credentialsFile string) (API, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &googleAPI{svc: svc}, nil
}

func (g *googleAPI) Create(ctx context.Context, title string) (string, error) {
	ss, err := g.svc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create spreadsheet: %w", err)
	}
	return ss.SpreadsheetId, nil
}

func (g *googleAPI) ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", readRange, err)
	}
	return resp.Values, nil
}

func (g *googleAPI) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	_, err := g.svc.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}
	return nil
}

func (g *googleAPI) Update(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", writeRange, err)
	}
	return nil
}

func (g *googleAPI) Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.Append(spreadsheetID, appendRange, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", appendRange, err)
	}
	return nil
}

func (g *googleAPI) BatchFormat(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	_, err := g.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batch format: %w", err)
	}
	return nil
}
