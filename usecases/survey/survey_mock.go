package survey

import (
	"context"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/mock"

	"simplesurvey/models"
)

// MockSurveyUseCase is a mock implementation of the survey workflows
type MockSurveyUseCase struct {
	mock.Mock
}

func (m *MockSurveyUseCase) RunWorkflow(
	ctx context.Context,
	workflow string,
	inputs map[string]string,
	interactivity *models.Interactivity,
) error {
	args := m.Called(ctx, workflow, inputs, interactivity)
	return args.Error(0)
}

func (m *MockSurveyUseCase) SaveResponse(ctx context.Context, spreadsheetID, impression, comments string) error {
	args := m.Called(ctx, spreadsheetID, impression, comments)
	return args.Error(0)
}

func (m *MockSurveyUseCase) SubmitConfiguration(
	ctx context.Context,
	channelIDs, userIDs []string,
) (*slack.ModalViewRequest, error) {
	args := m.Called(ctx, channelIDs, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*slack.ModalViewRequest), args.Error(1)
}

func (m *MockSurveyUseCase) RunMaintenance(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
