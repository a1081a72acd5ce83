package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/debtledger/internal/domain"
)

// ReversalUseCase links bank-side debit reversals to the credit entries
// they cancel.
type ReversalUseCase struct {
	txManager      TransactionManager
	amountRepo     AmountRepository
	assignmentRepo AssignmentRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
}

// NewReversalUseCase creates a new ReversalUseCase.
func NewReversalUseCase(
	txManager TransactionManager,
	amountRepo AmountRepository,
	assignmentRepo AssignmentRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *ReversalUseCase {
	return &ReversalUseCase{
		txManager:      txManager,
		amountRepo:     amountRepo,
		assignmentRepo: assignmentRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
	}
}

// FindReversiblePayments returns the credit entries a debit entry could be
// the reversal of: same currency, same magnitude, not yet fully assigned
// and not themselves reversal entries.
func (uc *ReversalUseCase) FindReversiblePayments(ctx context.Context, debitID string) ([]*domain.IncomingAmount, error) {
	debit, err := uc.amountRepo.GetByID(ctx, debitID)
	if err != nil {
		return nil, err
	}

	if debit.DebCred != domain.Debit {
		return nil, fmt.Errorf("%w: amount %s is not a debit entry", domain.ErrWrongDirection, debit.ID)
	}

	candidates, err := uc.amountRepo.ListReversalCandidates(ctx, debit.Currency, debit.Amount)
	if err != nil {
		return nil, err
	}

	// The repository query already excludes debits, fully assigned entries
	// and reversal entries; keep the debit itself out.
	filtered := candidates[:0]
	for _, c := range candidates {
		if c.ID != debit.ID {
			filtered = append(filtered, c)
		}
	}

	return filtered, nil
}

// ReverseIfOneTarget links the debit entry to its reversal target when the
// target is unambiguous. With zero or several candidates nothing happens;
// those cases need manual resolution.
func (uc *ReversalUseCase) ReverseIfOneTarget(ctx context.Context, debitID string) (*domain.AssignedAmount, error) {
	candidates, err := uc.FindReversiblePayments(ctx, debitID)
	if err != nil {
		return nil, err
	}

	if len(candidates) != 1 {
		return nil, nil
	}

	return uc.AssignReversalToPayment(ctx, debitID, candidates[0].ID)
}

// AssignReversalToPayment pairs a debit reversal entry with the credit
// entry it cancels. Both entries become fully assigned to each other.
func (uc *ReversalUseCase) AssignReversalToPayment(ctx context.Context, debitID, creditID string) (*domain.AssignedAmount, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock both entries in a fixed order.
	first, second := debitID, creditID
	if second < first {
		first, second = second, first
	}

	locked := make(map[string]*domain.IncomingAmount, 2)
	for _, id := range []string{first, second} {
		amount, err := uc.amountRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = amount
	}

	debit := locked[debitID]
	credit := locked[creditID]

	if debit.DebCred != domain.Debit || credit.DebCred != domain.Credit {
		return nil, fmt.Errorf("%w: %s is %s, %s is %s",
			domain.ErrWrongDirection, debit.ID, debit.DebCred, credit.ID, credit.DebCred)
	}

	if debit.Currency != credit.Currency {
		return nil, fmt.Errorf("%w: %s vs %s", domain.ErrCurrencyMismatch, debit.Currency, credit.Currency)
	}

	if debit.Amount != credit.Amount {
		return nil, fmt.Errorf("%w: %d vs %d", domain.ErrAmountMismatch, debit.Amount, credit.Amount)
	}

	if credit.FullyAssigned {
		return nil, fmt.Errorf("%w: credit entry %s", domain.ErrAlreadyAssigned, credit.ID)
	}

	if debit.FullyAssigned {
		return nil, fmt.Errorf("%w: debit entry %s", domain.ErrAlreadyAssigned, debit.ID)
	}

	now := time.Now().UTC()
	assignment := &domain.AssignedAmount{
		ID:           uc.idGen.Generate(),
		FromAmountID: debit.ID,
		Currency:     debit.Currency,
		Amount:       debit.Amount,
		ToAmountID:   &credit.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := assignment.Validate(); err != nil {
		return nil, err
	}

	if err := uc.assignmentRepo.Create(ctx, tx, assignment); err != nil {
		return nil, err
	}

	for _, id := range []string{debit.ID, credit.ID} {
		if err := uc.amountRepo.SetFullyAssigned(ctx, tx, id, true, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			Action:       string(domain.AuditActionReversalLink),
			ResourceType: "assigned_amount",
			ResourceID:   assignment.ID,
			Detail:       domain.JSON{"debit": debit.ID, "credit": credit.ID, "amount": debit.Amount},
			Status:       string(domain.AuditStatusSuccess),
			CreatedAt:    now,
		})
	}

	return assignment, nil
}
