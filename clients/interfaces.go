package clients

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackClient is the subset of the Slack Web API the survey workflows use
type SlackClient interface {
	GetPermalink(ctx context.Context, channelID, messageTS string) (string, error)
	PostMessage(ctx context.Context, channelID string, params SlackMessageParams) (*SlackPostMessageResponse, error)
	DeleteMessage(ctx context.Context, channelID, messageTS string) error
	// OpenConversation returns the direct message channel with the user
	OpenConversation(ctx context.Context, userID string) (string, error)
	JoinConversation(ctx context.Context, channelID string) error
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
}

// SheetsClient stores survey responses in spreadsheets
type SheetsClient interface {
	CreateSpreadsheet(ctx context.Context, title string, header []string) (*Spreadsheet, error)
	AppendRow(ctx context.Context, spreadsheetID, rangeA1 string, row []any) error
}
