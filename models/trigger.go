package models

import (
	"slices"
	"time"
)

// TriggerType is the kind of registered trigger
type TriggerType string

const (
	TriggerTypeEvent    TriggerType = "event"
	TriggerTypeShortcut TriggerType = "shortcut"
)

// EventType identifies the Slack event an event trigger listens to
type EventType string

const (
	EventTypeReactionAdded   EventType = "slack#/events/reaction_added"
	EventTypeReactionRemoved EventType = "slack#/events/reaction_removed"
)

// EventKind is the subscription kind the reconciler keeps in sync
type EventKind string

const (
	EventKindReactionAdded   EventKind = "REACTION_ADDED"
	EventKindReactionRemoved EventKind = "REACTION_REMOVED"
)

// EventType maps a subscription kind to the Slack event type it listens to
func (k EventKind) EventType() EventType {
	if k == EventKindReactionRemoved {
		return EventTypeReactionRemoved
	}
	return EventTypeReactionAdded
}

// Workflow callback ids triggers can point at
const (
	WorkflowPromptSurvey   = "prompt_survey"
	WorkflowCreateSurvey   = "create_survey"
	WorkflowAnswerSurvey   = "answer_survey"
	WorkflowRemoveSurvey   = "remove_survey"
	WorkflowConfigurator   = "configurator"
	WorkflowMaintenanceJob = "maintenance_job"
)

// TriggerEvent is the event section of an event trigger
type TriggerEvent struct {
	EventType  EventType      `json:"event_type"`
	ChannelIDs []string       `json:"channel_ids"`
	Filter     *TriggerFilter `json:"filter,omitempty"`
}

// TriggerDefinition is the body submitted to the registry on create and update
type TriggerDefinition struct {
	Type        TriggerType       `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Workflow    string            `json:"workflow"`
	Event       *TriggerEvent     `json:"event,omitempty"`
	Inputs      map[string]string `json:"inputs"`
	ButtonText  string            `json:"button_text,omitempty"`
}

// Trigger is a registered trigger owned by an app
type Trigger struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	TriggerDefinition
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChannelIDs returns the channel scope of an event trigger
func (t *Trigger) ChannelIDs() []string {
	if t.Event == nil {
		return nil
	}
	return t.Event.ChannelIDs
}

// InScope reports whether an event trigger listens in the given channel
func (t *Trigger) InScope(channelID string) bool {
	return slices.Contains(t.ChannelIDs(), channelID)
}

// EventSubscription is the reaction trigger projection the reconciler works with
type EventSubscription struct {
	ID           string    `json:"id"`
	EventKind    EventKind `json:"event_kind"`
	ChannelScope []string  `json:"channel_scope"`
	ActorFilter  []string  `json:"actor_filter"`
}

// ReactionSubscription returns the subscription view of a reaction trigger.
// Only prompt_survey on reaction_added and remove_survey on reaction_removed qualify.
func (t *Trigger) ReactionSubscription() (EventSubscription, bool) {
	if t.Type != TriggerTypeEvent || t.Event == nil {
		return EventSubscription{}, false
	}

	var kind EventKind
	switch {
	case t.Workflow == WorkflowPromptSurvey && t.Event.EventType == EventTypeReactionAdded:
		kind = EventKindReactionAdded
	case t.Workflow == WorkflowRemoveSurvey && t.Event.EventType == EventTypeReactionRemoved:
		kind = EventKindReactionRemoved
	default:
		return EventSubscription{}, false
	}

	return EventSubscription{
		ID:           t.ID,
		EventKind:    kind,
		ChannelScope: slices.Clone(t.Event.ChannelIDs),
		ActorFilter:  t.Event.Filter.ActorIDs(),
	}, true
}
