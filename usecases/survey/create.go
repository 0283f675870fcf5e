package survey

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"simplesurvey/clients"
	"simplesurvey/clients/sheets"
	"simplesurvey/config"
	"simplesurvey/models"
)

const (
	answerTriggerName        = "Survey your thoughts"
	answerTriggerDescription = "Share your thoughts about this post"
	answerTriggerButtonText  = "Survey your thoughts"
)

func spreadsheetTitle(parentTS string) string {
	return fmt.Sprintf("Slack Survey - %s", parentTS)
}

// CreateSurvey creates the response spreadsheet and posts the survey into the reacted thread
func (u *SurveyUseCase) CreateSurvey(ctx context.Context, channelID, parentTS, parentURL, reactorID string) error {
	key := models.ThreadKey{ChannelID: channelID, ParentTS: parentTS, ReactorID: reactorID}
	if err := key.Validate(); err != nil {
		return u.reportError(ctx, reactorID, "Invalid survey", err)
	}
	log.Printf("📋 Starting to create survey for %s", key)

	spreadsheet, err := u.sheetsClient.CreateSpreadsheet(ctx, spreadsheetTitle(parentTS), sheets.ResponsesHeader)
	if err != nil {
		return u.reportError(ctx, reactorID, "Failed to create the survey spreadsheet", err)
	}

	trigger, err := u.triggersService.CreateTrigger(ctx, models.TriggerDefinition{
		Type:        models.TriggerTypeShortcut,
		Name:        answerTriggerName,
		Description: answerTriggerDescription,
		Workflow:    models.WorkflowAnswerSurvey,
		Inputs: map[string]string{
			"interactivity":         "{{data.interactivity}}",
			"google_spreadsheet_id": spreadsheet.ID,
		},
		ButtonText: answerTriggerButtonText,
	})
	if err != nil {
		return u.reportError(ctx, reactorID, "Failed to create link trigger for the survey", err)
	}

	if u.stagePolicy == config.SurveyStagePolicyCoexist {
		// The prompt stays; only an earlier survey of the thread is replaced
		if err := u.retractor.RetractStage(ctx, channelID, parentTS, reactorID, models.SurveyStageSurvey); err != nil {
			log.Printf("⚠️ Failed to retract the earlier survey for %s: %v", key, err)
		}
	} else {
		// The prompt is gone once the survey exists; a stale prompt only logs
		if err := u.retractor.RetractThread(ctx, channelID, parentTS, reactorID); err != nil {
			log.Printf("⚠️ Failed to fully retract the prompt for %s: %v", key, err)
		}
	}

	if _, err := u.sendDM(ctx, reactorID, clients.SlackMessageParams{
		Text: collectingText(parentURL, spreadsheet.URL),
	}); err != nil {
		log.Printf("⚠️ Failed to send the spreadsheet link to %s: %v", reactorID, err)
	}

	text := surveyText()
	message, err := u.slackClient.PostMessage(ctx, channelID, clients.SlackMessageParams{
		Text:     text,
		ThreadTS: mo.Some(parentTS),
		Blocks:   linkMessageBlocks(text, trigger.ButtonText, trigger.ID),
	})
	if err != nil {
		return u.reportError(ctx, reactorID, "Failed to send the survey into the thread", err)
	}

	if _, err := u.surveyThreadsService.UpsertSurveyThread(ctx, &models.SurveyThread{
		ChannelID: channelID,
		ParentTS:  parentTS,
		ReactorID: reactorID,
		TriggerID: trigger.ID,
		TriggerTS: message.Timestamp,
		Stage:     models.SurveyStageSurvey,
	}); err != nil {
		return u.reportError(ctx, reactorID, "Failed to save survey info", err)
	}

	log.Printf("📋 Completed successfully - created survey %s with spreadsheet %s", trigger.ID, spreadsheet.ID)
	return nil
}
