package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
	"github.com/iho/debtledger/internal/usecase/mocks"
)

type intakeFixture struct {
	amountRepo *mocks.MockAmountRepository
	queueRepo  *mocks.MockQueueRepository
	registry   *domain.ProcessorRegistry
	uc         *usecase.IntakeUseCase
}

func newIntakeFixture(t *testing.T) *intakeFixture {
	t.Helper()

	f := &intakeFixture{
		amountRepo: mocks.NewMockAmountRepository(),
		queueRepo:  mocks.NewMockQueueRepository(),
		registry:   domain.NewProcessorRegistry(),
	}

	f.uc = usecase.NewIntakeUseCase(
		mocks.NewMockTransactionManager(),
		f.amountRepo,
		f.queueRepo,
		mocks.NewMockIDGenerator(),
		f.registry,
		zerolog.Nop(),
	)

	return f
}

func (f *intakeFixture) register(t *testing.T, step string, fn domain.ProcessorFunc) {
	t.Helper()
	if err := f.registry.Register(step, fn); err != nil {
		t.Fatalf("register: %v", err)
	}
}

func validInput() usecase.CreateIncomingAmountInput {
	return usecase.CreateIncomingAmountInput{
		Currency:  "jpy",
		Amount:    1880,
		DebCred:   domain.Credit,
		ValueDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		BankRef:   "STMT-042",
	}
}

func TestIntakeUseCase_CreateIncomingAmount_DispatchesSettlement(t *testing.T) {
	f := newIntakeFixture(t)

	var settled []string
	f.register(t, domain.StepSettle, func(ctx context.Context, amount *domain.IncomingAmount) error {
		settled = append(settled, amount.ID)
		return nil
	})
	f.register(t, domain.StepReverse, func(ctx context.Context, amount *domain.IncomingAmount) error {
		t.Error("credit entry must not hit the reversal step")
		return nil
	})

	amount, err := f.uc.CreateIncomingAmount(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if amount.Currency != "JPY" {
		t.Errorf("expected normalized currency JPY, got %q", amount.Currency)
	}
	if len(settled) != 1 || settled[0] != amount.ID {
		t.Errorf("expected one settlement dispatch for %s, got %v", amount.ID, settled)
	}

	pending, err := f.queueRepo.ListPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected the queue entry marked processed, %d still pending", len(pending))
	}
}

func TestIntakeUseCase_CreateIncomingAmount_DebitHitsReversalStep(t *testing.T) {
	f := newIntakeFixture(t)

	var reversed []string
	f.register(t, domain.StepSettle, func(ctx context.Context, amount *domain.IncomingAmount) error {
		t.Error("debit entry must not hit the settlement step")
		return nil
	})
	f.register(t, domain.StepReverse, func(ctx context.Context, amount *domain.IncomingAmount) error {
		reversed = append(reversed, amount.ID)
		return nil
	})

	input := validInput()
	input.DebCred = domain.Debit

	amount, err := f.uc.CreateIncomingAmount(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reversed) != 1 || reversed[0] != amount.ID {
		t.Errorf("expected one reversal dispatch for %s, got %v", amount.ID, reversed)
	}
}

func TestIntakeUseCase_CreateIncomingAmount_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(input *usecase.CreateIncomingAmountInput)
		errorType error
	}{
		{
			name:      "unknown currency",
			mutate:    func(input *usecase.CreateIncomingAmountInput) { input.Currency = "YEN" },
			errorType: domain.ErrInvalidCurrency,
		},
		{
			name:      "negative amount",
			mutate:    func(input *usecase.CreateIncomingAmountInput) { input.Amount = -1 },
			errorType: domain.ErrNegativeAmount,
		},
		{
			name:      "bad direction",
			mutate:    func(input *usecase.CreateIncomingAmountInput) { input.DebCred = "CR" },
			errorType: domain.ErrInvalidDebCred,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIntakeFixture(t)

			input := validInput()
			tt.mutate(&input)

			_, err := f.uc.CreateIncomingAmount(context.Background(), input)
			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestIntakeUseCase_CreateIncomingAmount_FailedDispatchStaysPending(t *testing.T) {
	f := newIntakeFixture(t)

	f.register(t, domain.StepSettle, func(ctx context.Context, amount *domain.IncomingAmount) error {
		return domain.ErrRetryableConflict
	})

	amount, err := f.uc.CreateIncomingAmount(context.Background(), validInput())
	if err != nil {
		t.Fatalf("creation must survive a failed processing step: %v", err)
	}

	pending, err := f.queueRepo.ListPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].AmountID != amount.ID {
		t.Fatalf("expected the entry to stay pending for the sweep, got %v", pending)
	}
}

func TestIntakeUseCase_ProcessPending_RedrivesFailures(t *testing.T) {
	f := newIntakeFixture(t)

	calls := 0
	f.register(t, domain.StepSettle, func(ctx context.Context, amount *domain.IncomingAmount) error {
		calls++
		if calls == 1 {
			return domain.ErrRetryableConflict
		}
		return nil
	})

	if _, err := f.uc.CreateIncomingAmount(context.Background(), validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	processed, err := f.uc.ProcessPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed != 1 {
		t.Errorf("expected 1 redriven entry, got %d", processed)
	}

	pending, err := f.queueRepo.ListPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected an empty queue after the sweep, %d still pending", len(pending))
	}
}

func TestIntakeUseCase_ProcessPending_EmptyQueue(t *testing.T) {
	f := newIntakeFixture(t)

	processed, err := f.uc.ProcessPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed != 0 {
		t.Errorf("expected nothing to process, got %d", processed)
	}
}
