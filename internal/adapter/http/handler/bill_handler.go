package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/usecase"
)

// BillHandler handles bill HTTP requests.
type BillHandler struct {
	billUC *usecase.BillUseCase
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billUC *usecase.BillUseCase) *BillHandler {
	return &BillHandler{billUC: billUC}
}

// Create creates a new bill in status new.
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bill", err.Error())
		return
	}

	bill, err := h.billUC.CreateBill(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create bill", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.BillFromDomain(bill))
}

// Get retrieves a bill with its lines.
func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bill ID", "")
		return
	}

	bill, err := h.billUC.GetBill(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get bill", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BillFromDomain(bill))
}

// Issue moves a bill from new to issued.
func (h *BillHandler) Issue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing bill ID", "")
		return
	}

	bill, err := h.billUC.IssueBill(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to issue bill", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BillFromDomain(bill))
}
