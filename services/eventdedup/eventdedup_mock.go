package eventdedup

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEventDedupService is a mock implementation of services.EventDedupService
type MockEventDedupService struct {
	mock.Mock
}

func (m *MockEventDedupService) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}
