package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/utilities"
)

type Handler struct {
	assistant *Assistant
	logger    *zap.SugaredLogger
}

func NewHandler(a *Assistant, logger *zap.SugaredLogger) *Handler {
	return &Handler{assistant: a, logger: logger}
}

type ChatRequest struct {
	Prompt string `json:"prompt" validate:"required,max=4000"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		utilities.WriteError(w, h.logger, "chat", fmt.Errorf("%w: %v", utilities.ErrInvalidRequest, err))
		return
	}
	if err := utilities.Validator().Struct(req); err != nil {
		utilities.WriteError(w, h.logger, "chat", err)
		return
	}
	reply, err := h.assistant.Reply(r.Context(), req.Prompt)
	switch {
	case err == nil:
		utilities.WriteJSON(w, http.StatusOK, reply)
	case errors.Is(err, ErrDisabled):
		utilities.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case errors.Is(err, utilities.ErrInvalidRequest):
		utilities.WriteError(w, h.logger, "chat", err)
	default:
		h.logger.Errorw("model call failed", "err", err)
		utilities.WriteJSON(w, http.StatusBadGateway, map[string]string{"error": "model unavailable"})
	}
}

// Greeting returns the opening assistant message.
func (h *Handler) Greeting(w http.ResponseWriter, r *http.Request) {
	utilities.WriteJSON(w, http.StatusOK, Reply{ID: utilities.NewKSUID(), Text: Greeting})
}
