package services

import (
	"context"

	"github.com/samber/mo"

	"simplesurvey/models"
)

// TriggersService defines the interface for the app-owned trigger registry
type TriggersService interface {
	ListTriggers(ctx context.Context) ([]*models.Trigger, error)
	GetTrigger(ctx context.Context, id string) (mo.Option[*models.Trigger], error)
	CreateTrigger(ctx context.Context, definition models.TriggerDefinition) (*models.Trigger, error)
	UpdateTrigger(ctx context.Context, id string, definition models.TriggerDefinition) (*models.Trigger, error)
	DeleteTrigger(ctx context.Context, id string) error
}

// SurveyThreadsService defines the interface for survey thread lifecycle records
type SurveyThreadsService interface {
	FindSurveyThreads(ctx context.Context, key models.ThreadKey) ([]*models.SurveyThread, error)
	UpsertSurveyThread(ctx context.Context, thread *models.SurveyThread) (*models.SurveyThread, error)
	RemoveSurveyThread(ctx context.Context, thread *models.SurveyThread) error
}

// EventDedupService defines the interface for dropping redelivered Slack events
type EventDedupService interface {
	// MarkProcessed returns true the first time an event id is seen
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
}
