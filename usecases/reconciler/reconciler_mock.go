package reconciler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"simplesurvey/models"
)

// MockReconcilerUseCase is a mock implementation of usecases.TriggerReconciler
type MockReconcilerUseCase struct {
	mock.Mock
}

func (m *MockReconcilerUseCase) ListOwned(ctx context.Context) ([]models.EventSubscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EventSubscription), args.Error(1)
}

func (m *MockReconcilerUseCase) Reconcile(ctx context.Context, channelScope, actorFilter []string) error {
	args := m.Called(ctx, channelScope, actorFilter)
	return args.Error(0)
}
