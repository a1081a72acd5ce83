package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/usecase"
)

// ClientHandler handles client and bank-account HTTP requests.
type ClientHandler struct {
	clientUC *usecase.ClientUseCase
	billUC   *usecase.BillUseCase
	searchUC *usecase.PaymentSearchUseCase
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientUC *usecase.ClientUseCase, billUC *usecase.BillUseCase, searchUC *usecase.PaymentSearchUseCase) *ClientHandler {
	return &ClientHandler{clientUC: clientUC, billUC: billUC, searchUC: searchUC}
}

// Create registers a client.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	client, err := h.clientUC.CreateClient(r.Context(), req.Name)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create client", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ClientFromDomain(client))
}

// Get retrieves a client.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	client, err := h.clientUC.GetClient(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get client", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// AddBankAccount registers a counterparty IBAN for a client.
func (h *ClientHandler) AddBankAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	var req dto.AddBankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.clientUC.AddBankAccount(r.Context(), usecase.AddBankAccountInput{
		ClientID:    id,
		IBAN:        req.IBAN,
		BIC:         req.BIC,
		AccountName: req.AccountName,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to add bank account", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.BankAccountFromDomain(account))
}

// ListBankAccounts lists a client's registered accounts.
func (h *ClientHandler) ListBankAccounts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	accounts, err := h.clientUC.ListBankAccounts(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list bank accounts", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BankAccountsFromDomain(accounts))
}

// ListBills lists a client's bills.
func (h *ClientHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	bills, err := h.billUC.ListBillsByClient(r.Context(), id, limit, offset)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list bills", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BillsFromDomain(bills))
}

// ListAmounts lists a client's incoming amounts.
func (h *ClientHandler) ListAmounts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing client ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	amounts, err := h.searchUC.ListAmountsByClient(r.Context(), id, limit, offset)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list amounts", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AmountsFromDomain(amounts))
}
