package survey

import (
	"context"
	"fmt"
	"log"

	"simplesurvey/clients"
	"simplesurvey/config"
	"simplesurvey/models"
	"simplesurvey/services"
	"simplesurvey/usecases"
)

// SurveyUseCase runs the survey workflows started by triggers and interactions
type SurveyUseCase struct {
	slackClient          clients.SlackClient
	sheetsClient         clients.SheetsClient
	triggersService      services.TriggersService
	surveyThreadsService services.SurveyThreadsService
	reconciler           usecases.TriggerReconciler
	retractor            usecases.ThreadRetractor
	stagePolicy          config.SurveyStagePolicy
}

func NewSurveyUseCase(
	slackClient clients.SlackClient,
	sheetsClient clients.SheetsClient,
	triggersService services.TriggersService,
	surveyThreadsService services.SurveyThreadsService,
	reconciler usecases.TriggerReconciler,
	retractor usecases.ThreadRetractor,
	stagePolicy config.SurveyStagePolicy,
) *SurveyUseCase {
	return &SurveyUseCase{
		slackClient:          slackClient,
		sheetsClient:         sheetsClient,
		triggersService:      triggersService,
		surveyThreadsService: surveyThreadsService,
		reconciler:           reconciler,
		retractor:            retractor,
		stagePolicy:          stagePolicy,
	}
}

// RunWorkflow runs the workflow a trigger points at
func (u *SurveyUseCase) RunWorkflow(
	ctx context.Context,
	workflow string,
	inputs map[string]string,
	interactivity *models.Interactivity,
) error {
	switch workflow {
	case models.WorkflowPromptSurvey:
		return u.PromptSurvey(ctx, inputs["channel_id"], inputs["parent_ts"], inputs["reactor_id"])
	case models.WorkflowCreateSurvey:
		return u.CreateSurvey(ctx, inputs["channel_id"], inputs["parent_ts"], inputs["parent_url"], inputs["reactor_id"])
	case models.WorkflowAnswerSurvey:
		if interactivity == nil {
			return fmt.Errorf("workflow %s requires interactivity", workflow)
		}
		return u.AnswerSurvey(ctx, interactivity, inputs["google_spreadsheet_id"])
	case models.WorkflowRemoveSurvey:
		return u.retractor.RetractThread(ctx, inputs["channel_id"], inputs["parent_ts"], inputs["reactor_id"])
	case models.WorkflowConfigurator:
		if interactivity == nil {
			return fmt.Errorf("workflow %s requires interactivity", workflow)
		}
		return u.OpenConfigurator(ctx, interactivity)
	case models.WorkflowMaintenanceJob:
		return u.RunMaintenance(ctx)
	default:
		return fmt.Errorf("unknown workflow: %s", workflow)
	}
}

// reportError sends a failed step to the user as a DM and returns the wrapped error
func (u *SurveyUseCase) reportError(ctx context.Context, userID, step string, err error) error {
	message := fmt.Sprintf("%s: %v", step, err)
	log.Printf("❌ %s", message)

	if userID == "" {
		return fmt.Errorf("%s: %w", step, err)
	}

	if _, notifyErr := u.sendDM(ctx, userID, clients.SlackMessageParams{Text: message}); notifyErr != nil {
		log.Printf("⚠️ Failed to report error to user %s: %v", userID, notifyErr)
	}
	return fmt.Errorf("%s: %w", step, err)
}

func (u *SurveyUseCase) sendDM(
	ctx context.Context,
	userID string,
	params clients.SlackMessageParams,
) (*clients.SlackPostMessageResponse, error) {
	channelID, err := u.slackClient.OpenConversation(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to open DM with %s: %w", userID, err)
	}

	response, err := u.slackClient.PostMessage(ctx, channelID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to post DM to %s: %w", userID, err)
	}
	return response, nil
}
