package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
	"github.com/iho/debtledger/internal/usecase/mocks"
)

func newReversal(amountRepo *mocks.MockAmountRepository, assignmentRepo *mocks.MockAssignmentRepository) *usecase.ReversalUseCase {
	return usecase.NewReversalUseCase(
		mocks.NewMockTransactionManager(),
		amountRepo,
		assignmentRepo,
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
	)
}

func TestReversalUseCase_FindReversiblePayments(t *testing.T) {
	amountRepo := mocks.NewMockAmountRepository()

	debit := debitEntry("amt-deb", "EUR", 12500)
	debit.ReversalIndicator = true
	amountRepo.Add(debit)

	match := creditEntry("amt-match", "EUR", 12500)
	amountRepo.Add(match)

	amountRepo.Add(creditEntry("amt-other-ccy", "USD", 12500))
	amountRepo.Add(creditEntry("amt-other-val", "EUR", 12000))

	settled := creditEntry("amt-settled", "EUR", 12500)
	settled.FullyAssigned = true
	amountRepo.Add(settled)

	reversal := creditEntry("amt-reversal", "EUR", 12500)
	reversal.ReversalIndicator = true
	amountRepo.Add(reversal)

	uc := newReversal(amountRepo, mocks.NewMockAssignmentRepository())

	candidates, err := uc.FindReversiblePayments(context.Background(), "amt-deb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 1 || candidates[0].ID != "amt-match" {
		t.Fatalf("expected only the matching credit entry, got %v", candidates)
	}
}

func TestReversalUseCase_FindReversiblePayments_RejectsCredit(t *testing.T) {
	amountRepo := mocks.NewMockAmountRepository()
	amountRepo.Add(creditEntry("amt-cred", "EUR", 12500))

	uc := newReversal(amountRepo, mocks.NewMockAssignmentRepository())

	_, err := uc.FindReversiblePayments(context.Background(), "amt-cred")
	if !errors.Is(err, domain.ErrWrongDirection) {
		t.Errorf("expected ErrWrongDirection, got %v", err)
	}
}

func TestReversalUseCase_ReverseIfOneTarget_LinksSingleCandidate(t *testing.T) {
	amountRepo := mocks.NewMockAmountRepository()
	assignmentRepo := mocks.NewMockAssignmentRepository()

	debit := debitEntry("amt-deb", "EUR", 12500)
	debit.ReversalIndicator = true
	amountRepo.Add(debit)

	credit := creditEntry("amt-cred", "EUR", 12500)
	amountRepo.Add(credit)

	uc := newReversal(amountRepo, assignmentRepo)

	assignment, err := uc.ReverseIfOneTarget(context.Background(), "amt-deb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assignment == nil {
		t.Fatal("expected a reversal link")
	}

	if assignment.FromAmountID != "amt-deb" {
		t.Errorf("expected the debit as source, got %s", assignment.FromAmountID)
	}
	if assignment.ToAmountID == nil || *assignment.ToAmountID != "amt-cred" {
		t.Errorf("expected the credit as target, got %v", assignment.ToAmountID)
	}
	if !debit.FullyAssigned || !credit.FullyAssigned {
		t.Error("expected both entries fully assigned after the link")
	}
}

func TestReversalUseCase_ReverseIfOneTarget_AmbiguousIsNoOp(t *testing.T) {
	tests := []struct {
		name    string
		credits int
	}{
		{name: "no candidate", credits: 0},
		{name: "several candidates", credits: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amountRepo := mocks.NewMockAmountRepository()
			assignmentRepo := mocks.NewMockAssignmentRepository()

			debit := debitEntry("amt-deb", "EUR", 12500)
			debit.ReversalIndicator = true
			amountRepo.Add(debit)

			for i := 0; i < tt.credits; i++ {
				amountRepo.Add(creditEntry("amt-cred-"+string(rune('a'+i)), "EUR", 12500))
			}

			uc := newReversal(amountRepo, assignmentRepo)

			assignment, err := uc.ReverseIfOneTarget(context.Background(), "amt-deb")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if assignment != nil {
				t.Errorf("expected no link, got %v", assignment)
			}
			if len(assignmentRepo.All()) != 0 {
				t.Errorf("expected no assignments, got %d", len(assignmentRepo.All()))
			}
			if debit.FullyAssigned {
				t.Error("expected the debit to stay open for manual resolution")
			}
		})
	}
}

func TestReversalUseCase_AssignReversalToPayment_Errors(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(repo *mocks.MockAmountRepository)
		debitID   string
		creditID  string
		errorType error
	}{
		{
			name: "both entries are debits",
			setup: func(repo *mocks.MockAmountRepository) {
				repo.Add(debitEntry("amt-a", "EUR", 12500))
				repo.Add(debitEntry("amt-b", "EUR", 12500))
			},
			debitID:   "amt-a",
			creditID:  "amt-b",
			errorType: domain.ErrWrongDirection,
		},
		{
			name: "currency mismatch",
			setup: func(repo *mocks.MockAmountRepository) {
				repo.Add(debitEntry("amt-a", "EUR", 12500))
				repo.Add(creditEntry("amt-b", "USD", 12500))
			},
			debitID:   "amt-a",
			creditID:  "amt-b",
			errorType: domain.ErrCurrencyMismatch,
		},
		{
			name: "magnitude mismatch",
			setup: func(repo *mocks.MockAmountRepository) {
				repo.Add(debitEntry("amt-a", "EUR", 12500))
				repo.Add(creditEntry("amt-b", "EUR", 12000))
			},
			debitID:   "amt-a",
			creditID:  "amt-b",
			errorType: domain.ErrAmountMismatch,
		},
		{
			name: "credit already settled elsewhere",
			setup: func(repo *mocks.MockAmountRepository) {
				repo.Add(debitEntry("amt-a", "EUR", 12500))
				credit := creditEntry("amt-b", "EUR", 12500)
				credit.FullyAssigned = true
				repo.Add(credit)
			},
			debitID:   "amt-a",
			creditID:  "amt-b",
			errorType: domain.ErrAlreadyAssigned,
		},
		{
			name: "unknown credit",
			setup: func(repo *mocks.MockAmountRepository) {
				repo.Add(debitEntry("amt-a", "EUR", 12500))
			},
			debitID:   "amt-a",
			creditID:  "missing",
			errorType: domain.ErrAmountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amountRepo := mocks.NewMockAmountRepository()
			assignmentRepo := mocks.NewMockAssignmentRepository()
			tt.setup(amountRepo)

			uc := newReversal(amountRepo, assignmentRepo)

			_, err := uc.AssignReversalToPayment(context.Background(), tt.debitID, tt.creditID)
			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected %v, got %v", tt.errorType, err)
			}
			if len(assignmentRepo.All()) != 0 {
				t.Errorf("expected no assignments on failure, got %d", len(assignmentRepo.All()))
			}
		})
	}
}
