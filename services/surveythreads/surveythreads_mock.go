package surveythreads

import (
	"context"

	"github.com/stretchr/testify/mock"

	"simplesurvey/models"
)

// MockSurveyThreadsService is a mock implementation of services.SurveyThreadsService
type MockSurveyThreadsService struct {
	mock.Mock
}

func (m *MockSurveyThreadsService) FindSurveyThreads(
	ctx context.Context,
	key models.ThreadKey,
) ([]*models.SurveyThread, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SurveyThread), args.Error(1)
}

func (m *MockSurveyThreadsService) UpsertSurveyThread(
	ctx context.Context,
	thread *models.SurveyThread,
) (*models.SurveyThread, error) {
	args := m.Called(ctx, thread)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SurveyThread), args.Error(1)
}

func (m *MockSurveyThreadsService) RemoveSurveyThread(ctx context.Context, thread *models.SurveyThread) error {
	args := m.Called(ctx, thread)
	return args.Error(0)
}
