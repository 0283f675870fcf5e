package triggers

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"simplesurvey/models"
)

// MockTriggersService is a mock implementation of services.TriggersService
type MockTriggersService struct {
	mock.Mock
}

func (m *MockTriggersService) ListTriggers(ctx context.Context) ([]*models.Trigger, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trigger), args.Error(1)
}

func (m *MockTriggersService) GetTrigger(ctx context.Context, id string) (mo.Option[*models.Trigger], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Trigger]), args.Error(1)
}

func (m *MockTriggersService) CreateTrigger(
	ctx context.Context,
	definition models.TriggerDefinition,
) (*models.Trigger, error) {
	args := m.Called(ctx, definition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trigger), args.Error(1)
}

func (m *MockTriggersService) UpdateTrigger(
	ctx context.Context,
	id string,
	definition models.TriggerDefinition,
) (*models.Trigger, error) {
	args := m.Called(ctx, id, definition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trigger), args.Error(1)
}

func (m *MockTriggersService) DeleteTrigger(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
