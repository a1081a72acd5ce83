package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/debtledger/internal/domain"
)

// BillUseCase handles the bill write path the matching engine depends on.
// Full bill administration lives in the web application; this service only
// needs validated bills in its own ledger tables.
type BillUseCase struct {
	billRepo   BillRepository
	clientRepo ClientRepository
	txManager  TransactionManager
	idGen      IDGenerator
}

// NewBillUseCase creates a new BillUseCase.
func NewBillUseCase(billRepo BillRepository, clientRepo ClientRepository, txManager TransactionManager, idGen IDGenerator) *BillUseCase {
	return &BillUseCase{
		billRepo:   billRepo,
		clientRepo: clientRepo,
		txManager:  txManager,
		idGen:      idGen,
	}
}

// CreateBillLineInput is one invoiced position.
type CreateBillLineInput struct {
	ShortDesc string
	LongDesc  string
	NumberOf  int32
	UnitPrice int64
}

// CreateBillInput creates a bill in status new.
type CreateBillInput struct {
	ClientID   string
	Currency   string
	DateSale   time.Time
	PrevBillID *string
	Lines      []CreateBillLineInput
}

// CreateBill validates and stores a new bill with its lines.
func (uc *BillUseCase) CreateBill(ctx context.Context, input CreateBillInput) (*domain.Bill, error) {
	if _, err := uc.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	if input.PrevBillID != nil {
		if _, err := uc.billRepo.GetByID(ctx, *input.PrevBillID); err != nil {
			if errors.Is(err, domain.ErrBillNotFound) {
				return nil, fmt.Errorf("%w: %s", domain.ErrPreviousBillNotFound, *input.PrevBillID)
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	billID := uc.idGen.Generate()

	lines := make([]domain.BillLine, len(input.Lines))
	for i, l := range input.Lines {
		lines[i] = domain.BillLine{
			ID:        uc.idGen.Generate(),
			BillID:    billID,
			ShortDesc: l.ShortDesc,
			LongDesc:  l.LongDesc,
			NumberOf:  l.NumberOf,
			UnitPrice: l.UnitPrice,
		}
	}

	bill := &domain.Bill{
		ID:         billID,
		ClientID:   input.ClientID,
		Currency:   input.Currency,
		Status:     domain.BillStatusNew,
		DateSale:   input.DateSale,
		PrevBillID: input.PrevBillID,
		Lines:      lines,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	currency, err := domain.NormalizeCurrency(bill.Currency)
	if err != nil {
		return nil, err
	}
	bill.Currency = currency

	if err := bill.Validate(); err != nil {
		return nil, err
	}

	if err := uc.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}

// IssueBill moves a new bill to issued, making it a matching target.
func (uc *BillUseCase) IssueBill(ctx context.Context, billID string) (*domain.Bill, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bill, err := uc.billRepo.GetByIDForUpdate(ctx, tx, billID)
	if err != nil {
		return nil, err
	}

	if bill.Status != domain.BillStatusNew {
		return nil, fmt.Errorf("%w: bill %s has status %q, only new bills can be issued",
			domain.ErrBillNotPayable, bill.ID, bill.Status)
	}

	now := time.Now().UTC()
	if err := uc.billRepo.UpdateStatus(ctx, tx, bill.ID, domain.BillStatusIssued, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	bill.Status = domain.BillStatusIssued
	bill.UpdatedAt = now

	return bill, nil
}

// GetBill retrieves a bill with its lines.
func (uc *BillUseCase) GetBill(ctx context.Context, id string) (*domain.Bill, error) {
	return uc.billRepo.GetByID(ctx, id)
}

// ListBillsByClient lists a client's bills.
func (uc *BillUseCase) ListBillsByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Bill, error) {
	if limit <= 0 {
		limit = 20
	}

	if limit > 100 {
		limit = 100
	}

	return uc.billRepo.ListByClient(ctx, clientID, limit, offset)
}
