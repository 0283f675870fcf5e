package survey

import (
	"context"
	"log"

	"simplesurvey/clients"
	"simplesurvey/models"
)

const (
	promptTriggerName        = "Create a survey"
	promptTriggerDescription = "Collect feedback within a thread"
	promptTriggerButtonText  = "Create"
)

// PromptSurvey asks the reacting user whether a survey should be created for the message
func (u *SurveyUseCase) PromptSurvey(ctx context.Context, channelID, parentTS, reactorID string) error {
	key := models.ThreadKey{ChannelID: channelID, ParentTS: parentTS, ReactorID: reactorID}
	if err := key.Validate(); err != nil {
		return u.reportError(ctx, reactorID, "Invalid survey prompt", err)
	}
	log.Printf("📋 Starting to prompt survey creation for %s", key)

	parentURL, err := u.slackClient.GetPermalink(ctx, channelID, parentTS)
	if err != nil {
		return u.reportError(ctx, reactorID, "Failed to collect the message permalink", err)
	}

	trigger, err := u.triggersService.CreateTrigger(ctx, models.TriggerDefinition{
		Type:        models.TriggerTypeShortcut,
		Name:        promptTriggerName,
		Description: promptTriggerDescription,
		Workflow:    models.WorkflowCreateSurvey,
		Inputs: map[string]string{
			"channel_id": channelID,
			"parent_ts":  parentTS,
			"parent_url": parentURL,
			"reactor_id": "{{data.user_id}}",
		},
		ButtonText: promptTriggerButtonText,
	})
	if err != nil {
		return u.reportError(ctx, reactorID, "Failed to create link trigger for the survey", err)
	}

	text := promptText(parentURL)
	message, err := u.sendDM(ctx, reactorID, clients.SlackMessageParams{
		Text:   text,
		Blocks: linkMessageBlocks(text, trigger.ButtonText, trigger.ID),
	})
	if err != nil {
		return u.reportError(ctx, reactorID, "Failed to send the survey prompt", err)
	}

	// A redelivered reaction replaces the earlier prompt
	if err := u.retractor.RetractStage(ctx, channelID, parentTS, reactorID, models.SurveyStagePrompt); err != nil {
		log.Printf("⚠️ Failed to retract the earlier prompt for %s: %v", key, err)
	}

	if _, err := u.surveyThreadsService.UpsertSurveyThread(ctx, &models.SurveyThread{
		ChannelID: channelID,
		ParentTS:  parentTS,
		ReactorID: reactorID,
		TriggerID: trigger.ID,
		TriggerTS: message.Timestamp,
		Stage:     models.SurveyStagePrompt,
	}); err != nil {
		return u.reportError(ctx, reactorID, "Failed to save survey info", err)
	}

	log.Printf("📋 Completed successfully - prompted %s with trigger %s", reactorID, trigger.ID)
	return nil
}
