package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// AmountHandler handles incoming-amount HTTP requests.
type AmountHandler struct {
	intakeUC   *usecase.IntakeUseCase
	matchingUC *usecase.MatchingUseCase
	searchUC   *usecase.PaymentSearchUseCase
	reversalUC *usecase.ReversalUseCase
}

// NewAmountHandler creates a new AmountHandler.
func NewAmountHandler(
	intakeUC *usecase.IntakeUseCase,
	matchingUC *usecase.MatchingUseCase,
	searchUC *usecase.PaymentSearchUseCase,
	reversalUC *usecase.ReversalUseCase,
) *AmountHandler {
	return &AmountHandler{
		intakeUC:   intakeUC,
		matchingUC: matchingUC,
		searchUC:   searchUC,
		reversalUC: reversalUC,
	}
}

// Create books a new incoming amount and triggers its processing step.
func (h *AmountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	amount, err := h.intakeUC.CreateIncomingAmount(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create amount", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.AmountFromDomain(amount))
}

// Get retrieves an incoming amount by ID.
func (h *AmountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing amount ID", "")
		return
	}

	amount, err := h.searchUC.GetAmount(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get amount", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AmountFromDomain(amount))
}

// Search finds incoming amounts by a single criterion.
func (h *AmountHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	found, err := h.searchUC.GetTargetPayments(r.Context(), usecase.GetTargetPaymentsInput{
		Search: domain.PaymentSearch{
			OurRef:   q.Get("our_ref"),
			BankRef:  q.Get("bank_ref"),
			Name:     q.Get("name"),
			ClientID: q.Get("client_id"),
			IBAN:     q.Get("iban"),
		},
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "search failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AmountsFromDomain(found))
}

// Targets lists the bills an amount could settle.
func (h *AmountHandler) Targets(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing amount ID", "")
		return
	}

	targets, err := h.matchingUC.FindAssignmentTargets(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to find targets", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BillsFromDomain(targets))
}

// Assign runs the automatic settlement pass for an amount.
func (h *AmountHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing amount ID", "")
		return
	}

	result, err := h.matchingUC.AssignAmount(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "assignment failed", err.Error())

		return
	}

	amount, err := h.searchUC.GetAmount(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "assignment failed", err.Error())

		return
	}

	remainder, _ := domain.FromMinorUnits(result.Remainder, amount.Currency)
	writeJSON(w, http.StatusOK, dto.AssignResultResponse{
		Settled:   result.Settled,
		Remainder: remainder,
	})
}

// Reversible lists the credit entries a debit entry could cancel.
func (h *AmountHandler) Reversible(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing amount ID", "")
		return
	}

	candidates, err := h.reversalUC.FindReversiblePayments(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to find reversible payments", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AmountsFromDomain(candidates))
}

// LinkReversal pairs a debit reversal with a credit entry.
func (h *AmountHandler) LinkReversal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing amount ID", "")
		return
	}

	var req dto.ReversalLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	assignment, err := h.reversalUC.AssignReversalToPayment(r.Context(), id, req.CreditAmountID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to link reversal", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.AssignmentFromDomain(assignment))
}
