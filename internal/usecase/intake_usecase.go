package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
)

// IntakeUseCase is the gate for newly arrived amounts: it persists the
// amount and a queue marker atomically, then dispatches the matching step.
// A marker that stays pending, because the process died or matching hit an
// exhausted conflict, is re-driven by the sweep.
type IntakeUseCase struct {
	txManager  TransactionManager
	amountRepo AmountRepository
	queueRepo  QueueRepository
	idGen      IDGenerator
	registry   *domain.ProcessorRegistry
	logger     zerolog.Logger
}

// NewIntakeUseCase creates a new IntakeUseCase.
func NewIntakeUseCase(
	txManager TransactionManager,
	amountRepo AmountRepository,
	queueRepo QueueRepository,
	idGen IDGenerator,
	registry *domain.ProcessorRegistry,
	logger zerolog.Logger,
) *IntakeUseCase {
	return &IntakeUseCase{
		txManager:  txManager,
		amountRepo: amountRepo,
		queueRepo:  queueRepo,
		idGen:      idGen,
		registry:   registry,
		logger:     logger,
	}
}

// CreateIncomingAmountInput carries the fields of one decoded statement
// entry or manual booking.
type CreateIncomingAmountInput struct {
	ClientID          *string
	Currency          string
	Amount            int64
	DebCred           domain.DebCred
	ValueDate         time.Time
	OurRef            string
	BankRef           string
	CounterpartyRef   string
	CounterpartyName  string
	CounterpartyIBAN  string
	ReversalIndicator bool
}

// CreateIncomingAmount validates and stores a new incoming amount, marks
// it pending and immediately attempts its processing step. A processing
// failure does not fail the creation; the pending marker keeps the amount
// visible for the sweep.
func (uc *IntakeUseCase) CreateIncomingAmount(ctx context.Context, input CreateIncomingAmountInput) (*domain.IncomingAmount, error) {
	now := time.Now().UTC()

	amount, err := domain.NewIncomingAmount(domain.NewIncomingAmountParams{
		ID:                uc.idGen.Generate(),
		ClientID:          input.ClientID,
		Currency:          input.Currency,
		Amount:            input.Amount,
		DebCred:           input.DebCred,
		ValueDate:         input.ValueDate,
		OurRef:            input.OurRef,
		BankRef:           input.BankRef,
		CounterpartyRef:   input.CounterpartyRef,
		CounterpartyName:  input.CounterpartyName,
		CounterpartyIBAN:  input.CounterpartyIBAN,
		ReversalIndicator: input.ReversalIndicator,
		CreatedAt:         now,
	})
	if err != nil {
		return nil, err
	}

	entry := &domain.QueueEntry{
		ID:        uc.idGen.Generate(),
		AmountID:  amount.ID,
		CreatedAt: now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.amountRepo.Create(ctx, tx, amount); err != nil {
		return nil, err
	}

	if err := uc.queueRepo.Enqueue(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if err := uc.dispatch(ctx, entry, amount); err != nil {
		uc.logger.Warn().Err(err).
			Str("amount_id", amount.ID).
			Msg("intake processing failed, left pending for sweep")
	}

	return amount, nil
}

// ProcessPending re-drives queue entries that never completed their
// processing step. Returns the number of entries processed.
func (uc *IntakeUseCase) ProcessPending(ctx context.Context, limit int) (int, error) {
	entries, err := uc.queueRepo.ListPending(ctx, limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, entry := range entries {
		amount, err := uc.amountRepo.GetByID(ctx, entry.AmountID)
		if err != nil {
			uc.logger.Error().Err(err).
				Str("amount_id", entry.AmountID).
				Msg("pending queue entry references unknown amount")
			continue
		}

		if err := uc.dispatch(ctx, entry, amount); err != nil {
			uc.logger.Warn().Err(err).
				Str("amount_id", amount.ID).
				Msg("sweep processing failed, entry stays pending")
			continue
		}

		processed++
	}

	return processed, nil
}

// dispatch runs the registered processing step for the amount and marks
// the queue entry processed. Matching is idempotent, so a marker processed
// twice by a racing sweep is harmless.
func (uc *IntakeUseCase) dispatch(ctx context.Context, entry *domain.QueueEntry, amount *domain.IncomingAmount) error {
	processor, err := uc.registry.Lookup(domain.StepFor(amount))
	if err != nil {
		return err
	}

	if err := processor.Process(ctx, amount); err != nil {
		return err
	}

	return uc.queueRepo.MarkProcessed(ctx, entry.ID, time.Now().UTC())
}

// NewSettleProcessor adapts the matching engine to the intake registry.
func NewSettleProcessor(matching *MatchingUseCase) domain.AmountProcessor {
	return domain.ProcessorFunc(func(ctx context.Context, amount *domain.IncomingAmount) error {
		_, err := matching.AssignAmount(ctx, amount.ID)
		return err
	})
}

// NewReversalProcessor adapts the reversal resolver to the intake
// registry. Ambiguous debits complete the step without linking anything.
func NewReversalProcessor(reversal *ReversalUseCase) domain.AmountProcessor {
	return domain.ProcessorFunc(func(ctx context.Context, amount *domain.IncomingAmount) error {
		_, err := reversal.ReverseIfOneTarget(ctx, amount.ID)
		return err
	})
}
