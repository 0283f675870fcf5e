package sheets

import (
	"context"

	"github.com/stretchr/testify/mock"

	"simplesurvey/clients"
)

// MockSheetsClient is a mock implementation of clients.SheetsClient
type MockSheetsClient struct {
	mock.Mock
}

func (m *MockSheetsClient) CreateSpreadsheet(ctx context.Context, title string, header []string) (*clients.Spreadsheet, error) {
	args := m.Called(ctx, title, header)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.Spreadsheet), args.Error(1)
}

func (m *MockSheetsClient) AppendRow(ctx context.Context, spreadsheetID, rangeA1 string, row []any) error {
	args := m.Called(ctx, spreadsheetID, rangeA1, row)
	return args.Error(0)
}
