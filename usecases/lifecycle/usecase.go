package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"

	"simplesurvey/clients"
	"simplesurvey/core"
	"simplesurvey/models"
	"simplesurvey/services"
	"simplesurvey/usecases"
)

// Operation names reported in core.ExternalCallFailed
const (
	OperationOpenConversation = "conversations.open"
	OperationDeleteMessage    = "chat.delete"
	OperationDeleteTrigger    = "triggers.delete"
	OperationRemoveRecord     = "survey_threads.remove"
)

type LifecycleUseCase struct {
	slackClient          clients.SlackClient
	triggersService      services.TriggersService
	surveyThreadsService services.SurveyThreadsService
}

func NewLifecycleUseCase(
	slackClient clients.SlackClient,
	triggersService services.TriggersService,
	surveyThreadsService services.SurveyThreadsService,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		slackClient:          slackClient,
		triggersService:      triggersService,
		surveyThreadsService: surveyThreadsService,
	}
}

// RetractThread deletes the link message, the link trigger and the record of every stage
// stored for the thread. Every deletion is attempted; not found outcomes are ignored and
// all other failures are returned joined.
func (u *LifecycleUseCase) RetractThread(ctx context.Context, channelID, parentTS, reactorID string) error {
	key := models.ThreadKey{ChannelID: channelID, ParentTS: parentTS, ReactorID: reactorID}
	log.Printf("📋 Starting to retract survey thread %s", key)

	return u.retract(ctx, key, func(*models.SurveyThread) bool { return true })
}

// RetractStage is RetractThread limited to the records of one stage. It runs before a new
// record of that stage is saved so the link it replaces does not stay live.
func (u *LifecycleUseCase) RetractStage(
	ctx context.Context,
	channelID, parentTS, reactorID string,
	stage models.SurveyStage,
) error {
	key := models.ThreadKey{ChannelID: channelID, ParentTS: parentTS, ReactorID: reactorID}
	log.Printf("📋 Starting to retract %s stage of survey thread %s", stage, key)

	return u.retract(ctx, key, func(thread *models.SurveyThread) bool { return thread.Stage == stage })
}

func (u *LifecycleUseCase) retract(
	ctx context.Context,
	key models.ThreadKey,
	include func(*models.SurveyThread) bool,
) error {
	found, err := u.surveyThreadsService.FindSurveyThreads(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to find survey threads: %w", err)
	}

	var threads []*models.SurveyThread
	for _, thread := range found {
		if include(thread) {
			threads = append(threads, thread)
		}
	}

	if len(threads) == 0 {
		log.Printf("📋 Completed successfully - no survey threads to retract for %s", key)
		return nil
	}

	tasks := make([]func() (string, error), 0, len(threads))
	for _, thread := range threads {
		tasks = append(tasks, func() (string, error) {
			return thread.ID, u.retractRecord(ctx, thread)
		})
	}

	if err := usecases.JoinFailures(usecases.FanOut(tasks)); err != nil {
		log.Printf("❌ Failed to fully retract survey thread %s: %v", key, err)
		return err
	}

	log.Printf("📋 Completed successfully - retracted %d survey threads for %s", len(threads), key)
	return nil
}

func (u *LifecycleUseCase) retractRecord(ctx context.Context, thread *models.SurveyThread) error {
	var errs []error

	if err := u.deleteLinkMessage(ctx, thread); err != nil {
		errs = append(errs, err)
	}

	if err := u.triggersService.DeleteTrigger(ctx, thread.TriggerID); err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("⚠️ Link trigger %s was already deleted", thread.TriggerID)
		} else {
			errs = append(errs, core.NewExternalCallFailed(OperationDeleteTrigger, err))
		}
	}

	if err := u.surveyThreadsService.RemoveSurveyThread(ctx, thread); err != nil {
		errs = append(errs, core.NewExternalCallFailed(OperationRemoveRecord, err))
	}

	return errors.Join(errs...)
}

// deleteLinkMessage removes the prompt DM or the threaded survey message, depending on the stage
func (u *LifecycleUseCase) deleteLinkMessage(ctx context.Context, thread *models.SurveyThread) error {
	channelID := thread.ChannelID
	if thread.Stage == models.SurveyStagePrompt {
		dmChannelID, err := u.slackClient.OpenConversation(ctx, thread.ReactorID)
		if err != nil {
			return core.NewExternalCallFailed(OperationOpenConversation, err)
		}
		channelID = dmChannelID
	}

	if err := u.slackClient.DeleteMessage(ctx, channelID, thread.TriggerTS); err != nil {
		if core.IsNotFoundError(err) {
			log.Printf("⚠️ Link message %s in %s was already deleted", thread.TriggerTS, channelID)
			return nil
		}
		return core.NewExternalCallFailed(OperationDeleteMessage, err)
	}

	return nil
}
