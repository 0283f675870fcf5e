package sheets

import (
	"context"
	"fmt"

	"simplesurvey/clients"
)

// OptionalSheetsClient returns errors for all operations when Google Sheets is not configured
type OptionalSheetsClient struct{}

func NewOptionalSheetsClient() *OptionalSheetsClient {
	return &OptionalSheetsClient{}
}

func (c *OptionalSheetsClient) CreateSpreadsheet(ctx context.Context, title string, header []string) (*clients.Spreadsheet, error) {
	return nil, fmt.Errorf("Service Google Sheets is not configured")
}

func (c *OptionalSheetsClient) AppendRow(ctx context.Context, spreadsheetID, rangeA1 string, row []any) error {
	return fmt.Errorf("Service Google Sheets is not configured")
}
