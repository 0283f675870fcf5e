package slack

import (
	"context"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/mock"

	"simplesurvey/clients"
)

// MockSlackClient is a mock implementation of clients.SlackClient
type MockSlackClient struct {
	mock.Mock
}

func (m *MockSlackClient) GetPermalink(ctx context.Context, channelID, messageTS string) (string, error) {
	args := m.Called(ctx, channelID, messageTS)
	return args.String(0), args.Error(1)
}

func (m *MockSlackClient) PostMessage(
	ctx context.Context,
	channelID string,
	params clients.SlackMessageParams,
) (*clients.SlackPostMessageResponse, error) {
	args := m.Called(ctx, channelID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.SlackPostMessageResponse), args.Error(1)
}

func (m *MockSlackClient) DeleteMessage(ctx context.Context, channelID, messageTS string) error {
	args := m.Called(ctx, channelID, messageTS)
	return args.Error(0)
}

func (m *MockSlackClient) OpenConversation(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSlackClient) JoinConversation(ctx context.Context, channelID string) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockSlackClient) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	args := m.Called(ctx, triggerID, view)
	return args.Error(0)
}
