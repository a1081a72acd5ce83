package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// AssignmentHandler handles assignment HTTP requests.
type AssignmentHandler struct {
	assignmentUC *usecase.AssignmentUseCase
	searchUC     *usecase.PaymentSearchUseCase
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentUC *usecase.AssignmentUseCase, searchUC *usecase.PaymentSearchUseCase) *AssignmentHandler {
	return &AssignmentHandler{assignmentUC: assignmentUC, searchUC: searchUC}
}

// AssignToBill settles a bill from an amount's unassigned remainder.
func (h *AssignmentHandler) AssignToBill(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignToBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	// The optional settle amount is in the source amount's currency.
	amount, err := h.searchUC.GetAmount(r.Context(), req.AmountID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to assign to bill", err.Error())

		return
	}

	input, err := req.ToUseCaseInput(amount.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid settle amount", err.Error())
		return
	}

	assignment, err := h.assignmentUC.AssignToBill(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to assign to bill", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.AssignmentFromDomain(assignment))
}

// AssignToAmount moves an amount's remainder onto another amount.
func (h *AssignmentHandler) AssignToAmount(w http.ResponseWriter, r *http.Request) {
	var req dto.AssignToAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "invalid conversion", err.Error())

		return
	}

	assignment, err := h.assignmentUC.AssignToAmount(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to assign to amount", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.AssignmentFromDomain(assignment))
}

// Reverse logically deletes an assignment.
func (h *AssignmentHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing assignment ID", "")
		return
	}

	if err := h.assignmentUC.ReverseAssignment(r.Context(), id); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reverse assignment", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reversed"})
}

// ListByAmount lists an amount's active assignments.
func (h *AssignmentHandler) ListByAmount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing amount ID", "")
		return
	}

	assignments, err := h.assignmentUC.ListAssignments(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list assignments", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AssignmentsFromDomain(assignments))
}

// ChangeClient re-links an amount to another client and re-runs matching.
func (h *AssignmentHandler) ChangeClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing amount ID", "")
		return
	}

	var req dto.ChangeClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.assignmentUC.ChangeClient(r.Context(), id, req.ClientID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to change client", err.Error())

		return
	}

	amount, err := h.searchUC.GetAmount(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to change client", err.Error())

		return
	}

	remainder, _ := domain.FromMinorUnits(result.Remainder, amount.Currency)
	writeJSON(w, http.StatusOK, dto.AssignResultResponse{
		Settled:   result.Settled,
		Remainder: remainder,
	})
}
