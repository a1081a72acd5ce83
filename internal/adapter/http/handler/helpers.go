package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAmountNotFound),
		errors.Is(err, domain.ErrBillNotFound),
		errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrAssignmentNotFound),
		errors.Is(err, domain.ErrBankAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyAssigned),
		errors.Is(err, domain.ErrAssignmentReversed),
		errors.Is(err, domain.ErrNotReversible),
		errors.Is(err, domain.ErrRetryableConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidDebCred),
		errors.Is(err, domain.ErrReferenceTooLong),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrMissingSaleDate),
		errors.Is(err, domain.ErrInvalidBillLine),
		errors.Is(err, domain.ErrPreviousBillNotFound),
		errors.Is(err, domain.ErrInvalidTarget),
		errors.Is(err, domain.ErrInvalidClient),
		errors.Is(err, domain.ErrInvalidBankAccount),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInsufficientAmount),
		errors.Is(err, domain.ErrMissingConversion),
		errors.Is(err, domain.ErrZeroAmount),
		errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrWrongDirection),
		errors.Is(err, domain.ErrBillNotPayable),
		errors.Is(err, domain.ErrAmbiguousSearch),
		errors.Is(err, domain.ErrEmptySearch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
