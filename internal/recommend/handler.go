package recommend

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/utilities"
)

type Handler struct {
	rec    *Recommender
	logger *zap.SugaredLogger
}

func NewHandler(rec *Recommender, logger *zap.SugaredLogger) *Handler {
	return &Handler{rec: rec, logger: logger}
}

type ProductRequest struct {
	ProductNo string `validate:"required,max=64"`
}

func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	req := ProductRequest{ProductNo: strings.TrimSpace(r.PathValue("productno"))}
	if err := utilities.Validator().Struct(req); err != nil {
		utilities.WriteError(w, h.logger, "recommendations", err)
		return
	}
	out, err := h.rec.Recommend(r.Context(), req.ProductNo)
	if errors.Is(err, ErrUnavailable) {
		utilities.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		utilities.WriteError(w, h.logger, "recommendations", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}
