package dispatch

import (
	"context"
	"fmt"
	"log"

	"simplesurvey/clients"
	"simplesurvey/models"
	"simplesurvey/services"
	"simplesurvey/usecases"
)

// InactiveLinkMessage is sent to users that click a button whose trigger is gone
const InactiveLinkMessage = "This link is no longer active"

type DispatchUseCase struct {
	triggersService services.TriggersService
	workflowRunner  usecases.WorkflowRunner
	slackClient     clients.SlackClient
}

func NewDispatchUseCase(
	triggersService services.TriggersService,
	workflowRunner usecases.WorkflowRunner,
	slackClient clients.SlackClient,
) *DispatchUseCase {
	return &DispatchUseCase{
		triggersService: triggersService,
		workflowRunner:  workflowRunner,
		slackClient:     slackClient,
	}
}

// DispatchEvent runs the workflow of every owned event trigger matching the event.
// All matches are attempted and their failures are returned joined.
func (u *DispatchUseCase) DispatchEvent(ctx context.Context, event models.SlackEvent) error {
	log.Printf("📋 Starting to dispatch %s event in channel %s", event.Type, event.ChannelID)

	triggers, err := u.triggersService.ListTriggers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list triggers: %w", err)
	}

	data := event.Data()
	var matched []*models.Trigger
	for _, trigger := range triggers {
		ok, err := matchesEvent(trigger, event, data)
		if err != nil {
			log.Printf("⚠️ Skipping trigger %s with an unreadable filter: %v", trigger.ID, err)
			continue
		}
		if ok {
			matched = append(matched, trigger)
		}
	}

	if len(matched) == 0 {
		log.Printf("📋 Completed successfully - no trigger matched %s event", event.Type)
		return nil
	}

	tasks := make([]func() (string, error), 0, len(matched))
	for _, trigger := range matched {
		tasks = append(tasks, func() (string, error) {
			inputs := renderInputs(trigger.Inputs, data)
			if err := u.workflowRunner.RunWorkflow(ctx, trigger.Workflow, inputs, nil); err != nil {
				return trigger.ID, fmt.Errorf("failed to run workflow %s for trigger %s: %w", trigger.Workflow, trigger.ID, err)
			}
			return trigger.ID, nil
		})
	}

	if err := usecases.JoinFailures(usecases.FanOut(tasks)); err != nil {
		log.Printf("❌ Failed to dispatch %s event: %v", event.Type, err)
		return err
	}

	log.Printf("📋 Completed successfully - dispatched %s event to %d triggers", event.Type, len(matched))
	return nil
}

// RunShortcut runs the workflow of a shortcut trigger on behalf of the interacting user.
// An unknown trigger is reported to the user as an inactive link.
func (u *DispatchUseCase) RunShortcut(ctx context.Context, triggerID string, interactivity *models.Interactivity) error {
	log.Printf("📋 Starting to run shortcut trigger %s for user %s", triggerID, interactivity.UserID)

	maybeTrigger, err := u.triggersService.GetTrigger(ctx, triggerID)
	if err != nil {
		return fmt.Errorf("failed to get trigger: %w", err)
	}

	trigger, ok := maybeTrigger.Get()
	if !ok || trigger.Type != models.TriggerTypeShortcut {
		log.Printf("⚠️ Shortcut trigger %s no longer exists", triggerID)
		if err := u.notifyUser(ctx, interactivity.UserID, InactiveLinkMessage); err != nil {
			return fmt.Errorf("failed to notify user about inactive link: %w", err)
		}
		return nil
	}

	data := map[string]string{
		"user_id":       interactivity.UserID,
		"interactivity": interactivity.Pointer,
	}
	inputs := renderInputs(trigger.Inputs, data)
	if err := u.workflowRunner.RunWorkflow(ctx, trigger.Workflow, inputs, interactivity); err != nil {
		return fmt.Errorf("failed to run workflow %s for trigger %s: %w", trigger.Workflow, trigger.ID, err)
	}

	log.Printf("📋 Completed successfully - ran shortcut trigger %s", triggerID)
	return nil
}

func (u *DispatchUseCase) notifyUser(ctx context.Context, userID, text string) error {
	channelID, err := u.slackClient.OpenConversation(ctx, userID)
	if err != nil {
		return err
	}
	_, err = u.slackClient.PostMessage(ctx, channelID, clients.SlackMessageParams{Text: text})
	return err
}

func matchesEvent(trigger *models.Trigger, event models.SlackEvent, data map[string]string) (bool, error) {
	if trigger.Type != models.TriggerTypeEvent || trigger.Event == nil {
		return false, nil
	}
	if trigger.Event.EventType != event.Type || !trigger.InScope(event.ChannelID) {
		return false, nil
	}
	return trigger.Event.Filter.Evaluate(data)
}
