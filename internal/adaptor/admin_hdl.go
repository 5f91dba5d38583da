package adaptor

import (
	"net/http"

	"ride-hailing/pkg/notify"
	"ride-hailing/pkg/utils"

	"go.uber.org/zap"
)

const maxDeadLetters = 200

type AdminHandler struct {
	deadLetters notify.DeadLetterReader
	log         *zap.Logger
}

func NewAdminHandler(deadLetters notify.DeadLetterReader, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		deadLetters: deadLetters,
		log:         log.With(zap.String("handler", "admin")),
	}
}

// DeadLetters handles GET /api/admin/notifications/dead-letters?limit=50
func (h *AdminHandler) DeadLetters(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 50)
	if limit > maxDeadLetters {
		limit = maxDeadLetters
	}

	letters, err := h.deadLetters.DeadLetters(r.Context(), int64(limit))
	if err != nil {
		h.log.Error("Failed to read dead letters", zap.Error(err))
		utils.ResponseInternalError(w, "Failed to read failed notifications")
		return
	}
	if letters == nil {
		letters = []notify.DeadLetter{}
	}

	utils.ResponseSuccess(w, "Failed notifications retrieved successfully", letters)
}
