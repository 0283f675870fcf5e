package clients

import (
	"github.com/samber/mo"
	"github.com/slack-go/slack"
)

// SlackMessageParams holds parameters for sending Slack messages
type SlackMessageParams struct {
	Text     string
	ThreadTS mo.Option[string]
	Blocks   []slack.Block
}

// SlackPostMessageResponse represents the response from posting a message to Slack
type SlackPostMessageResponse struct {
	Channel   string
	Timestamp string
}

// Spreadsheet is a created spreadsheet
type Spreadsheet struct {
	ID  string
	URL string
}
