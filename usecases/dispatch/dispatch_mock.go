package dispatch

import (
	"context"

	"github.com/stretchr/testify/mock"

	"simplesurvey/models"
)

// MockDispatchUseCase is a mock implementation of the dispatcher used by handlers
type MockDispatchUseCase struct {
	mock.Mock
}

func (m *MockDispatchUseCase) DispatchEvent(ctx context.Context, event models.SlackEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDispatchUseCase) RunShortcut(ctx context.Context, triggerID string, interactivity *models.Interactivity) error {
	args := m.Called(ctx, triggerID, interactivity)
	return args.Error(0)
}
