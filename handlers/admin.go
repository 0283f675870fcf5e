package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"simplesurvey/middleware"
	"simplesurvey/models"
	"simplesurvey/usecases"
)

type AdminHTTPHandler struct {
	reconciler usecases.TriggerReconciler
}

func NewAdminHTTPHandler(reconciler usecases.TriggerReconciler) *AdminHTTPHandler {
	return &AdminHTTPHandler{reconciler: reconciler}
}

// TriggersResponse lists the reaction subscriptions currently owned by the app
type TriggersResponse struct {
	Subscriptions []models.EventSubscription `json:"subscriptions"`
}

func (h *AdminHTTPHandler) HandleListTriggers(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List triggers request received from %s", r.RemoteAddr)

	subscriptions, err := h.reconciler.ListOwned(r.Context())
	if err != nil {
		log.Printf("❌ Failed to list reaction triggers: %v", err)
		http.Error(w, "failed to list triggers", http.StatusServiceUnavailable)
		return
	}

	if subscriptions == nil {
		subscriptions = []models.EventSubscription{}
	}
	h.writeJSONResponse(w, http.StatusOK, TriggersResponse{Subscriptions: subscriptions})
}

func (h *AdminHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.APIKeyAuthMiddleware) {
	log.Printf("🚀 Registering admin API endpoints")

	router.HandleFunc("/api/triggers", authMiddleware.WithAuth(h.HandleListTriggers)).Methods("GET")
	log.Printf("✅ GET /api/triggers endpoint registered")

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	log.Printf("✅ GET /health endpoint registered")

	log.Printf("✅ All admin API endpoints registered successfully")
}

func (h *AdminHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}
