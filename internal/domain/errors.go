package domain

import "errors"

var (
	// Entity validation errors
	ErrInvalidCurrency      = errors.New("invalid currency code")
	ErrInvalidDebCred       = errors.New("invalid debit/credit indicator")
	ErrReferenceTooLong     = errors.New("reference exceeds maximum length")
	ErrNegativeAmount       = errors.New("amount must not be negative")
	ErrMissingSaleDate      = errors.New("bill has no sale date")
	ErrInvalidBillLine      = errors.New("invalid bill line")
	ErrPreviousBillNotFound = errors.New("previous bill does not exist")
	ErrInvalidTarget        = errors.New("assignment must target a bill or an amount, not both")
	ErrInvalidClient        = errors.New("invalid client")
	ErrInvalidBankAccount   = errors.New("invalid bank account")

	// Not found errors
	ErrAmountNotFound      = errors.New("incoming amount not found")
	ErrBillNotFound        = errors.New("bill not found")
	ErrClientNotFound      = errors.New("client not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrBankAccountNotFound = errors.New("bank account not found")

	// Settlement errors
	ErrCurrencyMismatch   = errors.New("currencies do not match")
	ErrInsufficientAmount = errors.New("insufficient unassigned amount")
	ErrAlreadyAssigned    = errors.New("amount already assigned")
	ErrMissingConversion  = errors.New("conversion required for cross-currency assignment")
	ErrZeroAmount         = errors.New("no unassigned amount left")
	ErrAmountMismatch     = errors.New("amounts do not match")
	ErrWrongDirection     = errors.New("wrong debit/credit direction")
	ErrBillNotPayable     = errors.New("bill is not payable")

	// Reversal errors
	ErrAssignmentReversed = errors.New("assignment is already reversed")
	ErrNotReversible      = errors.New("assignment of a reversal entry cannot be reversed")

	// Search errors
	ErrAmbiguousSearch = errors.New("search criterion too short")
	ErrEmptySearch     = errors.New("no search criterion supplied")

	// Concurrency errors
	ErrRetryableConflict = errors.New("concurrent modification detected, retry the operation")

	// Registry errors
	ErrDuplicateProcessor = errors.New("processor already registered for step")
	ErrUnknownProcessor   = errors.New("no processor registered for step")
)
