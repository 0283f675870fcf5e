package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"simplesurvey/clients"
)

// SheetsClient implements clients.SheetsClient on the Google Sheets v4 API
type SheetsClient struct {
	service *sheetsapi.Service
}

// NewSheetsClient authenticates with a service account credentials file
func NewSheetsClient(ctx context.Context, credentialsFile string) (clients.SheetsClient, error) {
	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsClient{service: service}, nil
}

// CreateSpreadsheet creates a spreadsheet whose first sheet is named after the range
// responses are appended to and starts with the header row
func (c *SheetsClient) CreateSpreadsheet(ctx context.Context, title string, header []string) (*clients.Spreadsheet, error) {
	cells := make([]*sheetsapi.CellData, 0, len(header))
	for _, column := range header {
		value := column
		cells = append(cells, &sheetsapi.CellData{
			UserEnteredValue: &sheetsapi.ExtendedValue{StringValue: &value},
		})
	}

	request := &sheetsapi.Spreadsheet{
		Properties: &sheetsapi.SpreadsheetProperties{Title: title},
		Sheets: []*sheetsapi.Sheet{{
			Properties: &sheetsapi.SheetProperties{Title: ResponsesSheet},
			Data: []*sheetsapi.GridData{{
				RowData: []*sheetsapi.RowData{{Values: cells}},
			}},
		}},
	}

	created, err := c.service.Spreadsheets.Create(request).Context(ctx).Do()
	if err != nil {
		return nil, newSheetsAPIError(err)
	}

	return &clients.Spreadsheet{
		ID:  created.SpreadsheetId,
		URL: created.SpreadsheetUrl,
	}, nil
}

// AppendRow appends one row after the last row of the table found in rangeA1
func (c *SheetsClient) AppendRow(ctx context.Context, spreadsheetID, rangeA1 string, row []any) error {
	values := &sheetsapi.ValueRange{
		Range:          rangeA1,
		MajorDimension: "ROWS",
		Values:         [][]any{row},
	}

	_, err := c.service.Spreadsheets.Values.
		Append(spreadsheetID, rangeA1, values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return newSheetsAPIError(err)
	}

	return nil
}

func newSheetsAPIError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		kind := fmt.Sprintf("http_%d", apiErr.Code)
		if apiErr.Code == 404 {
			kind = "spreadsheet_not_found"
		}
		return &clients.APIError{Kind: kind, Message: apiErr.Message}
	}
	return &clients.APIError{Kind: clients.APIErrorKindUnknown, Message: err.Error()}
}
