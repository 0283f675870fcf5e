package slack

import (
	"context"

	"github.com/slack-go/slack"

	"simplesurvey/clients"
)

// SlackClient implements the clients.SlackClient interface using the slack-go/slack SDK
type SlackClient struct {
	*slack.Client
}

// NewSlackClient creates a new Slack client with the provided bot token
func NewSlackClient(botToken string) clients.SlackClient {
	return &SlackClient{
		Client: slack.New(botToken),
	}
}

// GetPermalink gets a permalink URL for a message
func (c *SlackClient) GetPermalink(ctx context.Context, channelID, messageTS string) (string, error) {
	permalink, err := c.Client.GetPermalinkContext(ctx, &slack.PermalinkParameters{
		Channel: channelID,
		Ts:      messageTS,
	})
	if err != nil {
		return "", clients.NewSlackAPIError(err)
	}
	return permalink, nil
}

// PostMessage sends a message to a Slack channel, a DM channel or a thread
func (c *SlackClient) PostMessage(
	ctx context.Context,
	channelID string,
	params clients.SlackMessageParams,
) (*clients.SlackPostMessageResponse, error) {
	var sdkOptions []slack.MsgOption
	if params.Text != "" {
		sdkOptions = append(sdkOptions, slack.MsgOptionText(params.Text, false))
	}
	if len(params.Blocks) > 0 {
		sdkOptions = append(sdkOptions, slack.MsgOptionBlocks(params.Blocks...))
	}
	if threadTS, ok := params.ThreadTS.Get(); ok {
		sdkOptions = append(sdkOptions, slack.MsgOptionTS(threadTS))
	}

	channel, timestamp, err := c.Client.PostMessageContext(ctx, channelID, sdkOptions...)
	if err != nil {
		return nil, clients.NewSlackAPIError(err)
	}

	return &clients.SlackPostMessageResponse{
		Channel:   channel,
		Timestamp: timestamp,
	}, nil
}

// DeleteMessage deletes a message posted by the bot
func (c *SlackClient) DeleteMessage(ctx context.Context, channelID, messageTS string) error {
	if _, _, err := c.Client.DeleteMessageContext(ctx, channelID, messageTS); err != nil {
		return clients.NewSlackAPIError(err)
	}
	return nil
}

// OpenConversation opens (or reuses) the direct message channel with a user
func (c *SlackClient) OpenConversation(ctx context.Context, userID string) (string, error) {
	channel, _, _, err := c.Client.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users:    []string{userID},
		ReturnIM: true,
	})
	if err != nil {
		return "", clients.NewSlackAPIError(err)
	}
	return channel.ID, nil
}

// JoinConversation joins a public channel as the bot user
func (c *SlackClient) JoinConversation(ctx context.Context, channelID string) error {
	if _, _, _, err := c.Client.JoinConversationContext(ctx, channelID); err != nil {
		return clients.NewSlackAPIError(err)
	}
	return nil
}

// OpenView opens a modal for the interaction identified by triggerID
func (c *SlackClient) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	if _, err := c.Client.OpenViewContext(ctx, triggerID, view); err != nil {
		return clients.NewSlackAPIError(err)
	}
	return nil
}
