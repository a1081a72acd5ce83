package integration

import (
	"context"
	"testing"

	"github.com/iho/debtledger/internal/adapter/repository/postgres"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
	"github.com/iho/debtledger/tests/testutil"
)

func TestAutomaticSettlement(t *testing.T) {
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
	auditRepo := postgres.NewAuditRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier()

	matchingUC := usecase.NewMatchingUseCase(txManager, amountRepo, billRepo, assignmentRepo, bankAccountRepo, auditRepo, idGen).
		WithRetrier(retrier)

	client := testDB.CreateTestClient(ctx, "Karman Industries")
	bill := testDB.CreateTestBill(ctx, client.ID, "JPY", 1880)

	amount := testDB.CreateTestAmount(ctx, domain.NewIncomingAmountParams{
		ClientID: &client.ID,
		Currency: "JPY",
		Amount:   1880,
		DebCred:  domain.Credit,
		OurRef:   "INV-1880",
	})

	result, err := matchingUC.AssignAmount(ctx, amount.ID)
	if err != nil {
		t.Fatalf("failed to assign amount: %v", err)
	}

	if result.Remainder != 0 {
		t.Errorf("expected remainder 0, got %d", result.Remainder)
	}
	if !result.Settled {
		t.Error("expected the amount to be fully settled")
	}

	// The bill is paid and the amount is spent
	settledBill, err := billRepo.GetByID(ctx, bill.ID)
	if err != nil {
		t.Fatalf("failed to get bill: %v", err)
	}
	if settledBill.Status != domain.BillStatusPaid {
		t.Errorf("expected bill status paid, got %s", settledBill.Status)
	}

	spent, err := amountRepo.GetByID(ctx, amount.ID)
	if err != nil {
		t.Fatalf("failed to get amount: %v", err)
	}
	if !spent.FullyAssigned {
		t.Error("expected amount to be fully assigned")
	}
}

func TestInsufficientAmountLeavesBillOpen(t *testing.T) {
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
	auditRepo := postgres.NewAuditRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()

	matchingUC := usecase.NewMatchingUseCase(txManager, amountRepo, billRepo, assignmentRepo, bankAccountRepo, auditRepo, idGen)

	client := testDB.CreateTestClient(ctx, "Karman Industries")
	bill := testDB.CreateTestBill(ctx, client.ID, "JPY", 1880)

	amount := testDB.CreateTestAmount(ctx, domain.NewIncomingAmountParams{
		ClientID: &client.ID,
		Currency: "JPY",
		Amount:   1758,
		DebCred:  domain.Credit,
	})

	result, err := matchingUC.AssignAmount(ctx, amount.ID)
	if err != nil {
		t.Fatalf("failed to assign amount: %v", err)
	}

	if result.Settled {
		t.Fatal("expected the amount to stay open")
	}
	if result.Remainder != 1758 {
		t.Errorf("expected remainder 1758, got %d", result.Remainder)
	}

	openBill, err := billRepo.GetByID(ctx, bill.ID)
	if err != nil {
		t.Fatalf("failed to get bill: %v", err)
	}
	if openBill.Status != domain.BillStatusIssued {
		t.Errorf("expected bill to stay issued, got %s", openBill.Status)
	}
}
