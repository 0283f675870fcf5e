package usecases

import (
	"context"

	"simplesurvey/models"
)

// TriggerReconciler keeps the two reaction triggers in sync with the configured filters
type TriggerReconciler interface {
	ListOwned(ctx context.Context) ([]models.EventSubscription, error)
	Reconcile(ctx context.Context, channelScope, actorFilter []string) error
}

// ThreadRetractor tears down every survey artifact of a reacted thread
type ThreadRetractor interface {
	RetractThread(ctx context.Context, channelID, parentTS, reactorID string) error
	// RetractStage tears down only the records of one stage
	RetractStage(ctx context.Context, channelID, parentTS, reactorID string, stage models.SurveyStage) error
}

// WorkflowRunner runs a workflow by callback id with rendered inputs
type WorkflowRunner interface {
	RunWorkflow(ctx context.Context, workflow string, inputs map[string]string, interactivity *models.Interactivity) error
}
