package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validAmountParams() NewIncomingAmountParams {
	return NewIncomingAmountParams{
		ID:               "amt-1",
		Currency:         "EUR",
		Amount:           12500,
		DebCred:          Credit,
		ValueDate:        time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC),
		BankRef:          "REF-2025-0814",
		CounterpartyRef:  "bll-998",
		CounterpartyName: "Karelse & Zn",
		CounterpartyIBAN: "NL76INGB0594788005",
		CreatedAt:        time.Now().UTC(),
	}
}

func TestNewIncomingAmount(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NewIncomingAmountParams)
		wantErr error
	}{
		{
			name:   "valid credit entry",
			mutate: func(p *NewIncomingAmountParams) {},
		},
		{
			name: "lower-case currency is normalized",
			mutate: func(p *NewIncomingAmountParams) {
				p.Currency = "jpy"
			},
		},
		{
			name: "unknown currency",
			mutate: func(p *NewIncomingAmountParams) {
				p.Currency = "XXX"
			},
			wantErr: ErrInvalidCurrency,
		},
		{
			name: "invalid debit/credit indicator",
			mutate: func(p *NewIncomingAmountParams) {
				p.DebCred = "Dx"
			},
			wantErr: ErrInvalidDebCred,
		},
		{
			name: "negative magnitude",
			mutate: func(p *NewIncomingAmountParams) {
				p.Amount = -1
			},
			wantErr: ErrNegativeAmount,
		},
		{
			name: "over-length bank reference",
			mutate: func(p *NewIncomingAmountParams) {
				p.BankRef = strings.Repeat("9", MaxReferenceLength+1)
			},
			wantErr: ErrReferenceTooLong,
		},
		{
			name: "over-length counterparty reference",
			mutate: func(p *NewIncomingAmountParams) {
				p.CounterpartyRef = strings.Repeat("x", 36)
			},
			wantErr: ErrReferenceTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validAmountParams()
			tt.mutate(&params)

			amount, err := NewIncomingAmount(params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if amount.Currency != strings.ToUpper(params.Currency) {
				t.Errorf("expected normalized currency, got %q", amount.Currency)
			}
		})
	}
}

func TestIncomingAmount_Unassigned(t *testing.T) {
	a := &IncomingAmount{Amount: 1880}

	if got := a.Unassigned(0); got != 1880 {
		t.Errorf("expected 1880, got %d", got)
	}
	if got := a.Unassigned(1880); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	if got := a.Unassigned(2000); got != 0 {
		t.Errorf("over-assignment must clamp to 0, got %d", got)
	}
}

func TestPaymentSearch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		search  PaymentSearch
		wantErr error
	}{
		{name: "empty criteria", search: PaymentSearch{}, wantErr: ErrEmptySearch},
		{name: "two-character name", search: PaymentSearch{Name: "Kr"}, wantErr: ErrAmbiguousSearch},
		{name: "three-character name", search: PaymentSearch{Name: "Kar"}},
		{name: "bank reference", search: PaymentSearch{BankRef: "REF"}},
		{name: "client id", search: PaymentSearch{ClientID: "cl-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.search.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
