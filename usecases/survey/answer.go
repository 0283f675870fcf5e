package survey

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"simplesurvey/clients/sheets"
	"simplesurvey/models"
)

// AnswerSurvey opens the survey form for the interacting user
func (u *SurveyUseCase) AnswerSurvey(ctx context.Context, interactivity *models.Interactivity, spreadsheetID string) error {
	log.Printf("📋 Starting to open survey form for user %s", interactivity.UserID)

	if spreadsheetID == "" {
		return u.reportError(ctx, interactivity.UserID, "Failed to open the survey", fmt.Errorf("spreadsheet id is missing"))
	}

	if err := u.slackClient.OpenView(ctx, interactivity.Pointer, answerView(spreadsheetID)); err != nil {
		return u.reportError(ctx, interactivity.UserID, "Failed to open the survey", err)
	}

	log.Printf("📋 Completed successfully - opened survey form for user %s", interactivity.UserID)
	return nil
}

// SaveResponse appends one response row to the survey spreadsheet
func (u *SurveyUseCase) SaveResponse(ctx context.Context, spreadsheetID, impression, comments string) error {
	log.Printf("📋 Starting to save survey response to spreadsheet %s", spreadsheetID)

	if spreadsheetID == "" {
		return fmt.Errorf("spreadsheet id cannot be empty")
	}
	if !slices.Contains(Impressions, impression) {
		return fmt.Errorf("unknown impression: %q", impression)
	}

	row := []any{time.Now().UTC().Format(time.RFC3339), impression, comments}
	if err := u.sheetsClient.AppendRow(ctx, spreadsheetID, sheets.ResponsesRange, row); err != nil {
		return fmt.Errorf("failed to save survey response: %w", err)
	}

	log.Printf("📋 Completed successfully - saved survey response to spreadsheet %s", spreadsheetID)
	return nil
}
