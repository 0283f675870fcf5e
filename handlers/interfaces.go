package handlers

import (
	"context"

	"github.com/slack-go/slack"

	"simplesurvey/models"
)

// TriggerDispatcher routes Slack events and button clicks to trigger workflows
type TriggerDispatcher interface {
	DispatchEvent(ctx context.Context, event models.SlackEvent) error
	RunShortcut(ctx context.Context, triggerID string, interactivity *models.Interactivity) error
}

// SurveyInteractions handles the interactions that do not go through a trigger
type SurveyInteractions interface {
	RunWorkflow(ctx context.Context, workflow string, inputs map[string]string, interactivity *models.Interactivity) error
	SaveResponse(ctx context.Context, spreadsheetID, impression, comments string) error
	SubmitConfiguration(ctx context.Context, channelIDs, userIDs []string) (*slack.ModalViewRequest, error)
}
