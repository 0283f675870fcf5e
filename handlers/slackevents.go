package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/slack-go/slack/slackevents"

	"simplesurvey/models"
	"simplesurvey/services"
)

type SlackEventsHandler struct {
	signingSecret     string
	dispatcher        TriggerDispatcher
	eventDedupService services.EventDedupService
}

func NewSlackEventsHandler(
	signingSecret string,
	dispatcher TriggerDispatcher,
	eventDedupService services.EventDedupService,
) *SlackEventsHandler {
	return &SlackEventsHandler{
		signingSecret:     signingSecret,
		dispatcher:        dispatcher,
		eventDedupService: eventDedupService,
	}
}

func (h *SlackEventsHandler) HandleSlackEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Slack event received from %s", r.RemoteAddr)

	body, err := readVerifiedBody(r, h.signingSecret)
	if err != nil {
		log.Printf("❌ Slack request rejected: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	envelope, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		log.Printf("❌ Failed to parse Slack event: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	switch envelope.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			log.Printf("❌ Challenge not found in verification request: %v", err)
			http.Error(w, "challenge not found", http.StatusBadRequest)
			return
		}
		log.Printf("✅ Responding to Slack URL verification challenge")
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(challenge.Challenge)); err != nil {
			log.Printf("❌ Failed to write challenge response: %v", err)
		}
		return
	case slackevents.CallbackEvent:
	default:
		log.Printf("📋 Non-event callback received: %s", envelope.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	event, ok := toSlackEvent(envelope)
	if !ok {
		log.Printf("⏭️ Ignoring %s event", envelope.InnerEvent.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	isNew, err := h.eventDedupService.MarkProcessed(r.Context(), event.ID)
	if err != nil {
		log.Printf("⚠️ Failed to check event %s for redelivery, processing anyway: %v", event.ID, err)
		isNew = true
	}
	if !isNew {
		log.Printf("⏭️ Event %s was already processed", event.ID)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.dispatcher.DispatchEvent(r.Context(), event); err != nil {
		log.Printf("❌ Failed to dispatch %s event: %v", event.Type, err)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *SlackEventsHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack event endpoints")

	router.HandleFunc("/slack/events", h.HandleSlackEvent).Methods("POST")
	log.Printf("✅ POST /slack/events endpoint registered")

	log.Printf("✅ All Slack event endpoints registered successfully")
}

// toSlackEvent reduces reactions on messages to the event shape triggers are matched against
func toSlackEvent(envelope slackevents.EventsAPIEvent) (models.SlackEvent, bool) {
	var eventID string
	if callback, ok := envelope.Data.(*slackevents.EventsAPICallbackEvent); ok {
		eventID = callback.EventID
	}

	switch inner := envelope.InnerEvent.Data.(type) {
	case *slackevents.ReactionAddedEvent:
		if inner.Item.Type != "message" {
			return models.SlackEvent{}, false
		}
		return models.SlackEvent{
			ID:        eventID,
			Type:      models.EventTypeReactionAdded,
			ChannelID: inner.Item.Channel,
			MessageTS: inner.Item.Timestamp,
			UserID:    inner.User,
			Reaction:  inner.Reaction,
		}, true
	case *slackevents.ReactionRemovedEvent:
		if inner.Item.Type != "message" {
			return models.SlackEvent{}, false
		}
		return models.SlackEvent{
			ID:        eventID,
			Type:      models.EventTypeReactionRemoved,
			ChannelID: inner.Item.Channel,
			MessageTS: inner.Item.Timestamp,
			UserID:    inner.User,
			Reaction:  inner.Reaction,
		}, true
	default:
		return models.SlackEvent{}, false
	}
}
