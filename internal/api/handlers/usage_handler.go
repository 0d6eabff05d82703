package handlers

import (
	"net/http"

	"ai-gateway-api/internal/models"
	"ai-gateway-api/internal/services"
)

type UsageHandler struct {
	usageService services.UsageService
}

func NewUsageHandler(usageService services.UsageService) *UsageHandler {
	return &UsageHandler{
		usageService: usageService,
	}
}

type usageListResponse struct {
	Usage []models.UsageLog `json:"usage"`
}

// List returns the caller's usage records, newest first.
// GET /usage → 200 {usage:[...]}
func (h *UsageHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	entries, err := h.usageService.ListForUser(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load usage")
		return
	}
	if entries == nil {
		entries = []models.UsageLog{}
	}

	respondWithJSON(w, http.StatusOK, usageListResponse{Usage: entries})
}

// Summary returns aggregate usage for the caller.
// GET /usage/summary → 200 UsageSummary
func (h *UsageHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	summary, err := h.usageService.Summarize(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to build usage summary")
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}
