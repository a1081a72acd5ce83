package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/iho/debtledger/internal/domain"
)

// MatchingUseCase is the automatic settlement driver: it finds eligible
// bills for an unassigned incoming amount and settles them greedily,
// largest first, whole bills only.
type MatchingUseCase struct {
	txManager       TransactionManager
	amountRepo      AmountRepository
	billRepo        BillRepository
	assignmentRepo  AssignmentRepository
	bankAccountRepo BankAccountRepository
	auditRepo       AuditRepository
	idGen           IDGenerator
	retrier         Retrier
}

// NewMatchingUseCase creates a new MatchingUseCase.
func NewMatchingUseCase(
	txManager TransactionManager,
	amountRepo AmountRepository,
	billRepo BillRepository,
	assignmentRepo AssignmentRepository,
	bankAccountRepo BankAccountRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *MatchingUseCase {
	return &MatchingUseCase{
		txManager:       txManager,
		amountRepo:      amountRepo,
		billRepo:        billRepo,
		assignmentRepo:  assignmentRepo,
		bankAccountRepo: bankAccountRepo,
		auditRepo:       auditRepo,
		idGen:           idGen,
	}
}

// WithRetrier re-runs the settlement transaction on retryable conflicts.
func (uc *MatchingUseCase) WithRetrier(retrier Retrier) *MatchingUseCase {
	uc.retrier = retrier
	return uc
}

// FindAssignmentTargets returns the bills an amount could settle, ordered
// by descending total so the biggest obligation is cleared first. Read
// only, no side effects.
func (uc *MatchingUseCase) FindAssignmentTargets(ctx context.Context, amountID string) ([]*domain.Bill, error) {
	amount, err := uc.amountRepo.GetByID(ctx, amountID)
	if err != nil {
		return nil, err
	}

	if amount.FullyAssigned {
		return nil, nil
	}

	assigned, err := uc.assignmentRepo.SumActiveByFromAmount(ctx, nil, amountID)
	if err != nil {
		return nil, err
	}

	clientID := amount.ClientID
	if clientID == nil {
		if account, err := uc.bankAccountRepo.FindByIBAN(ctx, amount.CounterpartyIBAN); err == nil {
			clientID = &account.ClientID
		}
	}

	var candidates []*domain.Bill
	if clientID != nil {
		candidates, err = uc.billRepo.ListIssuedByClient(ctx, *clientID)
		if err != nil {
			return nil, err
		}
	}

	if amount.CounterpartyRef != "" {
		referenced, err := uc.billRepo.FindReferenced(ctx, amount.CounterpartyRef)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, referenced...)
	}

	return eligibleBills(amount, amount.Unassigned(assigned), candidates), nil
}

// AssignAmountResult reports what an automatic settlement pass achieved.
type AssignAmountResult struct {
	Settled   bool
	Remainder int64
}

// AssignAmount performs automatic settlement for one incoming amount. The
// whole pass runs in a single transaction and retries from scratch on a
// concurrent-modification conflict; re-running against an already settled
// amount is a no-op.
func (uc *MatchingUseCase) AssignAmount(ctx context.Context, amountID string) (*AssignAmountResult, error) {
	var result *AssignAmountResult

	run := func() error {
		var err error
		result, err = uc.assignOnce(ctx, amountID)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, run)
	} else {
		err = run()
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *MatchingUseCase) assignOnce(ctx context.Context, amountID string) (*AssignAmountResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	amount, err := uc.amountRepo.GetByIDForUpdate(ctx, tx, amountID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if amount.FullyAssigned {
		return &AssignAmountResult{Settled: true, Remainder: 0}, tx.Commit(ctx)
	}

	// Best-effort client resolution via the counterparty IBAN.
	if amount.ClientID == nil && amount.CounterpartyIBAN != "" {
		if account, err := uc.bankAccountRepo.FindByIBAN(ctx, amount.CounterpartyIBAN); err == nil {
			if err := uc.amountRepo.SetClient(ctx, tx, amount.ID, &account.ClientID, now); err != nil {
				return nil, err
			}
			amount.ClientID = &account.ClientID
		}
	}

	assigned, err := uc.assignmentRepo.SumActiveByFromAmount(ctx, tx, amount.ID)
	if err != nil {
		return nil, err
	}
	available := amount.Unassigned(assigned)

	var candidates []*domain.Bill
	if amount.ClientID != nil {
		candidates, err = uc.billRepo.ListIssuedByClientForUpdate(ctx, tx, *amount.ClientID)
		if err != nil {
			return nil, err
		}
	}

	if amount.CounterpartyRef != "" {
		referenced, err := uc.billRepo.FindReferencedForUpdate(ctx, tx, amount.CounterpartyRef)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, referenced...)
	}

	// Greedy largest-first, exact-fit only: a bill is settled for its full
	// total or not at all. A combination of smaller bills that would use
	// the payment better is not searched for.
	var run int64
	for _, bill := range eligibleBills(amount, available, candidates) {
		total := bill.Total()
		if total > available-run {
			continue
		}

		assignment := &domain.AssignedAmount{
			ID:           uc.idGen.Generate(),
			FromAmountID: amount.ID,
			Currency:     amount.Currency,
			Amount:       total,
			BillID:       &bill.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := assignment.Validate(); err != nil {
			return nil, err
		}

		if err := uc.assignmentRepo.Create(ctx, tx, assignment); err != nil {
			return nil, err
		}

		if err := uc.billRepo.UpdateStatus(ctx, tx, bill.ID, domain.BillStatusPaid, now); err != nil {
			return nil, err
		}

		run += total
	}

	settled := assigned+run == amount.Amount && amount.Amount > 0
	if settled && !amount.FullyAssigned {
		if err := uc.amountRepo.SetFullyAssigned(ctx, tx, amount.ID, true, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if run > 0 {
		uc.writeAudit(ctx, amount.ID, run, settled)
	}

	return &AssignAmountResult{Settled: settled, Remainder: available - run}, nil
}

func (uc *MatchingUseCase) writeAudit(ctx context.Context, amountID string, assigned int64, settled bool) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		Action:       string(domain.AuditActionAmountAssign),
		ResourceType: "incoming_amount",
		ResourceID:   amountID,
		Detail:       domain.JSON{"assigned": assigned, "fully_assigned": settled},
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}

// eligibleBills filters candidates down to payable bills in the amount's
// currency whose total fits the available remainder, deduplicates them and
// orders them by descending total. Ties keep discovery order.
func eligibleBills(amount *domain.IncomingAmount, available int64, candidates []*domain.Bill) []*domain.Bill {
	seen := make(map[string]bool, len(candidates))

	var eligible []*domain.Bill
	for _, bill := range candidates {
		if seen[bill.ID] {
			continue
		}
		seen[bill.ID] = true

		if !bill.Payable() {
			continue
		}

		if bill.Currency != amount.Currency {
			continue
		}

		if bill.Total() > available {
			continue
		}

		eligible = append(eligible, bill)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Total() > eligible[j].Total()
	})

	return eligible
}
