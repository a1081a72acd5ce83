package usecase

import (
	"context"

	"github.com/iho/debtledger/internal/domain"
)

// PaymentSearchUseCase answers queries over incoming amounts for the web
// layer.
type PaymentSearchUseCase struct {
	amountRepo AmountRepository
}

// NewPaymentSearchUseCase creates a new PaymentSearchUseCase.
func NewPaymentSearchUseCase(amountRepo AmountRepository) *PaymentSearchUseCase {
	return &PaymentSearchUseCase{amountRepo: amountRepo}
}

// GetTargetPaymentsInput wraps the search criteria with pagination.
type GetTargetPaymentsInput struct {
	Search domain.PaymentSearch
	Limit  int
	Offset int
}

// GetTargetPayments finds incoming amounts by one of: internal reference,
// bank reference, client name (minimum length enforced), client id or
// IBAN. Too-short name filters are rejected, not truncated.
func (uc *PaymentSearchUseCase) GetTargetPayments(ctx context.Context, input GetTargetPaymentsInput) ([]*domain.IncomingAmount, error) {
	if err := input.Search.Validate(); err != nil {
		return nil, err
	}

	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.amountRepo.Search(ctx, input.Search, input.Limit, input.Offset)
}

// GetAmount retrieves one incoming amount.
func (uc *PaymentSearchUseCase) GetAmount(ctx context.Context, id string) (*domain.IncomingAmount, error) {
	return uc.amountRepo.GetByID(ctx, id)
}

// ListAmountsByClient lists a client's incoming amounts.
func (uc *PaymentSearchUseCase) ListAmountsByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.IncomingAmount, error) {
	if limit <= 0 {
		limit = 20
	}

	if limit > 100 {
		limit = 100
	}

	return uc.amountRepo.ListByClient(ctx, clientID, limit, offset)
}
