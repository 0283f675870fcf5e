package lifecycle

import (
	"context"

	"github.com/stretchr/testify/mock"

	"simplesurvey/models"
)

// MockLifecycleUseCase is a mock implementation of usecases.ThreadRetractor
type MockLifecycleUseCase struct {
	mock.Mock
}

func (m *MockLifecycleUseCase) RetractThread(ctx context.Context, channelID, parentTS, reactorID string) error {
	args := m.Called(ctx, channelID, parentTS, reactorID)
	return args.Error(0)
}

func (m *MockLifecycleUseCase) RetractStage(
	ctx context.Context,
	channelID, parentTS, reactorID string,
	stage models.SurveyStage,
) error {
	args := m.Called(ctx, channelID, parentTS, reactorID, stage)
	return args.Error(0)
}
