package models

// SlackEvent is an inbound Slack event reduced to the fields triggers can filter and render on
type SlackEvent struct {
	ID        string
	Type      EventType
	ChannelID string
	MessageTS string
	UserID    string
	Reaction  string
}

// Data exposes the event the way trigger filters and input templates address it ({{data.x}})
func (e SlackEvent) Data() map[string]string {
	return map[string]string{
		"channel_id": e.ChannelID,
		"message_ts": e.MessageTS,
		"user_id":    e.UserID,
		"reaction":   e.Reaction,
	}
}

// Interactivity carries the context of a user interaction that started a workflow
type Interactivity struct {
	// Pointer is the Slack trigger_id used to open modals
	Pointer string
	UserID  string
}
