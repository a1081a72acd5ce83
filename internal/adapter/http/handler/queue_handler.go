package handler

import (
	"net/http"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/usecase"
)

// QueueHandler triggers queue maintenance over HTTP.
type QueueHandler struct {
	intakeUC *usecase.IntakeUseCase
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(intakeUC *usecase.IntakeUseCase) *QueueHandler {
	return &QueueHandler{intakeUC: intakeUC}
}

// Sweep re-drives pending queue entries on demand.
func (h *QueueHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 100)

	processed, err := h.intakeUC.ProcessPending(r.Context(), limit)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to sweep queue", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SweepResponse{Processed: processed})
}
