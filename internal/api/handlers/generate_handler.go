package handlers

import (
	"encoding/json"
	goerrors "errors"
	"net/http"

	"ai-gateway-api/internal/logger"
	"ai-gateway-api/internal/pkg/errors"
	"ai-gateway-api/internal/providers"
	"ai-gateway-api/internal/services"

	"github.com/sirupsen/logrus"
)

type GenerateHandler struct {
	gateway services.GatewayService
}

func NewGenerateHandler(gateway services.GatewayService) *GenerateHandler {
	return &GenerateHandler{
		gateway: gateway,
	}
}

type generateRequest struct {
	Prompt    string `json:"prompt"`
	ModelName string `json:"model_name"`
}

type generateResponse struct {
	Response         string  `json:"response"`
	InputTokens      int     `json:"input_tokens"`
	OutputTokens     int     `json:"output_tokens"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
}

// Generate routes a prompt to the requested model.
// POST /generate {prompt,model_name} → 200 | 400 unsupported | 500 provider
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Prompt == "" || req.ModelName == "" {
		respondWithError(w, http.StatusBadRequest, "prompt and model_name are required")
		return
	}

	result, err := h.gateway.Generate(r.Context(), user, req.ModelName, req.Prompt)
	if err != nil {
		if goerrors.Is(err, errors.ErrUnsupportedModel) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		var provErr *providers.Error
		if goerrors.As(err, &provErr) {
			logger.LogEvent(logrus.ErrorLevel, "Provider call failed", logrus.Fields{
				"user_id": user.ID.String(),
				"family":  string(provErr.Family),
				"error":   provErr.Error(),
			})
			respondWithError(w, http.StatusInternalServerError, "Provider error")
			return
		}

		respondWithError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	respondWithJSON(w, http.StatusOK, generateResponse{
		Response:         result.Response,
		InputTokens:      result.InputTokens,
		OutputTokens:     result.OutputTokens,
		EstimatedCostUSD: result.EstimatedCostUSD,
	})
}
