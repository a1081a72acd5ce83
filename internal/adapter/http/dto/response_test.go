package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

func TestAmountFromDomain(t *testing.T) {
	now := time.Now()
	clientID := "cl-1"
	amount := &domain.IncomingAmount{
		ID:        "amt-1",
		ClientID:  &clientID,
		Currency:  "EUR",
		Amount:    12500,
		DebCred:   domain.Credit,
		ValueDate: now,
		OurRef:    "INV-1",
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := AmountFromDomain(amount)
	if resp.ID != "amt-1" || resp.DebCred != "Cr" {
		t.Fatalf("unexpected amount response: %+v", resp)
	}
	if !resp.Amount.Equal(decimal.RequireFromString("125")) {
		t.Fatalf("expected display amount 125, got %s", resp.Amount)
	}

	list := AmountsFromDomain([]*domain.IncomingAmount{amount})
	if len(list) != 1 || list[0].ID != amount.ID {
		t.Fatalf("AmountsFromDomain returned %+v", list)
	}
}

func TestAmountFromDomain_ZeroDecimalCurrency(t *testing.T) {
	amount := &domain.IncomingAmount{
		ID:       "amt-1",
		Currency: "JPY",
		Amount:   1880,
		DebCred:  domain.Credit,
	}

	resp := AmountFromDomain(amount)
	if !resp.Amount.Equal(decimal.RequireFromString("1880")) {
		t.Fatalf("expected display amount 1880, got %s", resp.Amount)
	}
}

func TestBillFromDomain(t *testing.T) {
	now := time.Now()
	bill := &domain.Bill{
		ID:       "bll-1",
		ClientID: "cl-1",
		Currency: "JPY",
		Status:   domain.BillStatusIssued,
		DateSale: now,
		Lines: []domain.BillLine{
			{ID: "l-1", BillID: "bll-1", ShortDesc: "units", NumberOf: 2, UnitPrice: 500},
			{ID: "l-2", BillID: "bll-1", ShortDesc: "parts", NumberOf: 4, UnitPrice: 220},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := BillFromDomain(bill)
	if resp.Status != "issued" || len(resp.Lines) != 2 {
		t.Fatalf("unexpected bill response: %+v", resp)
	}
	if !resp.Total.Equal(decimal.RequireFromString("1880")) {
		t.Fatalf("expected total 1880, got %s", resp.Total)
	}
	if !resp.Lines[1].Total.Equal(decimal.RequireFromString("880")) {
		t.Fatalf("expected line total 880, got %s", resp.Lines[1].Total)
	}
}

func TestAssignmentFromDomain(t *testing.T) {
	now := time.Now()
	billID := "bll-1"
	assignment := &domain.AssignedAmount{
		ID:           "asg-1",
		FromAmountID: "amt-1",
		Currency:     "EUR",
		Amount:       12500,
		BillID:       &billID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	resp := AssignmentFromDomain(assignment)
	if resp.BillID == nil || *resp.BillID != billID {
		t.Fatalf("unexpected assignment response: %+v", resp)
	}
	if resp.TargetCurrency != nil || resp.TargetAmount != nil {
		t.Fatalf("expected no conversion fields, got %+v", resp)
	}

	// Cross-currency assignments carry the converted value
	targetCcy := "EUR"
	targetAmount := int64(1000)
	toAmount := "amt-2"
	assignment.BillID = nil
	assignment.ToAmountID = &toAmount
	assignment.Currency = "USD"
	assignment.Amount = 1100
	assignment.TargetCurrency = &targetCcy
	assignment.TargetAmount = &targetAmount

	resp = AssignmentFromDomain(assignment)
	if resp.TargetCurrency == nil || *resp.TargetCurrency != "EUR" {
		t.Fatalf("expected target currency EUR, got %+v", resp)
	}
	if resp.TargetAmount == nil || !resp.TargetAmount.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected target amount 10, got %+v", resp.TargetAmount)
	}
}

func TestAuditLogFromDomain(t *testing.T) {
	now := time.Now()
	log := &domain.AuditLog{
		ID:           "aud-1",
		Action:       "amount.assign",
		ResourceType: "incoming_amount",
		ResourceID:   "amt-1",
		Detail:       domain.JSON{"assigned": float64(1880)},
		Status:       "success",
		CreatedAt:    now,
	}

	resp := AuditLogFromDomain(log)
	if resp.Action != "amount.assign" || resp.Detail["assigned"] != float64(1880) {
		t.Fatalf("unexpected audit response: %+v", resp)
	}

	list := AuditLogsFromDomain([]*domain.AuditLog{log})
	if len(list) != 1 || list[0].ID != log.ID {
		t.Fatalf("AuditLogsFromDomain returned %+v", list)
	}
}
