package reconciler

import (
	"slices"

	"simplesurvey/models"
)

// reactionTriggerInputs maps the reaction event onto the workflow inputs of both reaction triggers
func reactionTriggerInputs() map[string]string {
	return map[string]string{
		"channel_id": "{{data.channel_id}}",
		"parent_ts":  "{{data.message_ts}}",
		"reactor_id": "{{data.user_id}}",
	}
}

// newReactionTrigger builds a fresh definition for the given kind on every call
func newReactionTrigger(kind models.EventKind, channelScope, actorFilter []string) models.TriggerDefinition {
	definition := models.TriggerDefinition{
		Type: models.TriggerTypeEvent,
		Event: &models.TriggerEvent{
			EventType:  kind.EventType(),
			ChannelIDs: slices.Clone(channelScope),
			Filter:     models.NewReactionFilter(slices.Clone(actorFilter)),
		},
		Inputs: reactionTriggerInputs(),
	}

	switch kind {
	case models.EventKindReactionRemoved:
		definition.Name = "Survey reacji removed"
		definition.Description = "Remove a survey from thread by removing the reacji"
		definition.Workflow = models.WorkflowRemoveSurvey
	default:
		definition.Name = "Survey reacji added"
		definition.Description = "Initiate survey creation by adding a clipboard reacji"
		definition.Workflow = models.WorkflowPromptSurvey
	}

	if definition.Event.ChannelIDs == nil {
		definition.Event.ChannelIDs = []string{}
	}

	return definition
}
