package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/slack-go/slack"

	"simplesurvey/models"
	"simplesurvey/usecases/survey"
)

type SlackInteractionsHandler struct {
	signingSecret string
	dispatcher    TriggerDispatcher
	surveys       SurveyInteractions
}

func NewSlackInteractionsHandler(
	signingSecret string,
	dispatcher TriggerDispatcher,
	surveys SurveyInteractions,
) *SlackInteractionsHandler {
	return &SlackInteractionsHandler{
		signingSecret: signingSecret,
		dispatcher:    dispatcher,
		surveys:       surveys,
	}
}

func (h *SlackInteractionsHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	log.Printf("⚡ Slack interaction received from %s", r.RemoteAddr)

	body, err := readVerifiedBody(r, h.signingSecret)
	if err != nil {
		log.Printf("❌ Slack request rejected: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		log.Printf("❌ Failed to parse interaction form: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(form.Get("payload")), &callback); err != nil {
		log.Printf("❌ Failed to parse interaction payload: %v", err)
		http.Error(w, "failed to parse payload", http.StatusBadRequest)
		return
	}

	interactivity := &models.Interactivity{Pointer: callback.TriggerID, UserID: callback.User.ID}
	log.Printf("⚡ Parsed %s interaction from user %s", callback.Type, interactivity.UserID)

	switch callback.Type {
	case slack.InteractionTypeShortcut:
		h.handleShortcut(w, r, callback, interactivity)
	case slack.InteractionTypeBlockActions:
		h.handleBlockActions(w, r, callback, interactivity)
	case slack.InteractionTypeViewSubmission:
		h.handleViewSubmission(w, r, callback)
	default:
		log.Printf("⏭️ Ignoring %s interaction", callback.Type)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *SlackInteractionsHandler) handleShortcut(
	w http.ResponseWriter,
	r *http.Request,
	callback slack.InteractionCallback,
	interactivity *models.Interactivity,
) {
	if callback.CallbackID != models.WorkflowConfigurator {
		log.Printf("⏭️ Ignoring unknown shortcut %s", callback.CallbackID)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.surveys.RunWorkflow(r.Context(), models.WorkflowConfigurator, nil, interactivity); err != nil {
		log.Printf("❌ Failed to open configurator: %v", err)
	}
	w.WriteHeader(http.StatusOK)
}

func (h *SlackInteractionsHandler) handleBlockActions(
	w http.ResponseWriter,
	r *http.Request,
	callback slack.InteractionCallback,
	interactivity *models.Interactivity,
) {
	for _, action := range callback.ActionCallback.BlockActions {
		if action.ActionID != survey.RunTriggerActionID {
			continue
		}
		if err := h.dispatcher.RunShortcut(r.Context(), action.Value, interactivity); err != nil {
			log.Printf("❌ Failed to run shortcut trigger %s: %v", action.Value, err)
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (h *SlackInteractionsHandler) handleViewSubmission(
	w http.ResponseWriter,
	r *http.Request,
	callback slack.InteractionCallback,
) {
	switch callback.View.CallbackID {
	case survey.ConfigureCallbackID:
		channelIDs := stateValue(callback.View, survey.ChannelBlockID, survey.ChannelActionID).SelectedChannels
		userIDs := stateValue(callback.View, survey.UserBlockID, survey.UserActionID).SelectedUsers

		view, err := h.surveys.SubmitConfiguration(r.Context(), channelIDs, userIDs)
		if err != nil {
			log.Printf("❌ Failed to apply configuration: %v", err)
			h.writeJSONResponse(w, slack.NewErrorsViewSubmissionResponse(map[string]string{
				survey.ChannelBlockID: err.Error(),
			}))
			return
		}
		h.writeJSONResponse(w, slack.NewUpdateViewSubmissionResponse(view))
	case survey.AnswerCallbackID:
		impression := stateValue(callback.View, survey.ImpressionBlockID, survey.ImpressionActionID).SelectedOption.Value
		comments := stateValue(callback.View, survey.CommentsBlockID, survey.CommentsActionID).Value

		if err := h.surveys.SaveResponse(r.Context(), callback.View.PrivateMetadata, impression, comments); err != nil {
			log.Printf("❌ Failed to save survey response: %v", err)
			h.writeJSONResponse(w, slack.NewErrorsViewSubmissionResponse(map[string]string{
				survey.ImpressionBlockID: "Failed to save survey response",
			}))
			return
		}
		w.WriteHeader(http.StatusOK)
	default:
		log.Printf("⏭️ Ignoring submission of unknown view %s", callback.View.CallbackID)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *SlackInteractionsHandler) writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}

func (h *SlackInteractionsHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack interaction endpoints")

	router.HandleFunc("/slack/interactions", h.HandleInteraction).Methods("POST")
	log.Printf("✅ POST /slack/interactions endpoint registered")

	log.Printf("✅ All Slack interaction endpoints registered successfully")
}

func stateValue(view slack.View, blockID, actionID string) slack.BlockAction {
	if view.State == nil {
		return slack.BlockAction{}
	}
	return view.State.Values[blockID][actionID]
}
