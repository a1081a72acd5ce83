package integration

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/debtledger/internal/adapter/repository/postgres"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
	"github.com/iho/debtledger/tests/testutil"
)

func TestIntakeSettlesOnArrival(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	amountRepo := postgres.NewAmountRepository(pool)
	billRepo := postgres.NewBillRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)
	bankAccountRepo := postgres.NewBankAccountRepository(pool)
	queueRepo := postgres.NewQueueRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()

	matchingUC := usecase.NewMatchingUseCase(txManager, amountRepo, billRepo, assignmentRepo, bankAccountRepo, auditRepo, idGen)
	reversalUC := usecase.NewReversalUseCase(txManager, amountRepo, assignmentRepo, auditRepo, idGen)

	registry := domain.NewProcessorRegistry()
	if err := registry.Register(domain.StepSettle, usecase.NewSettleProcessor(matchingUC)); err != nil {
		t.Fatalf("failed to register settle processor: %v", err)
	}
	if err := registry.Register(domain.StepReverse, usecase.NewReversalProcessor(reversalUC)); err != nil {
		t.Fatalf("failed to register reversal processor: %v", err)
	}

	intakeUC := usecase.NewIntakeUseCase(txManager, amountRepo, queueRepo, idGen, registry, zerolog.Nop())

	client := testDB.CreateTestClient(ctx, "Karman Industries")
	bill := testDB.CreateTestBill(ctx, client.ID, "JPY", 1880)

	amount, err := intakeUC.CreateIncomingAmount(ctx, usecase.CreateIncomingAmountInput{
		ClientID: &client.ID,
		Currency: "jpy",
		Amount:   1880,
		DebCred:  domain.Credit,
	})
	if err != nil {
		t.Fatalf("failed to create incoming amount: %v", err)
	}

	if amount.Currency != "JPY" {
		t.Errorf("expected currency to be normalized to JPY, got %s", amount.Currency)
	}

	// Arrival drove the settlement step to completion
	settledBill, err := billRepo.GetByID(ctx, bill.ID)
	if err != nil {
		t.Fatalf("failed to get bill: %v", err)
	}
	if settledBill.Status != domain.BillStatusPaid {
		t.Errorf("expected bill status paid, got %s", settledBill.Status)
	}

	// The queue marker is no longer pending
	pending, err := queueRepo.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list pending entries: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty queue, got %d entries", len(pending))
	}
}
