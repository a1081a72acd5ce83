package domain

import (
	"errors"
	"testing"
)

func TestAssignedAmount_Validate(t *testing.T) {
	billID := "bll4"
	targetID := "amt-2"

	tests := []struct {
		name       string
		assignment AssignedAmount
		wantErr    error
	}{
		{
			name:       "bill target",
			assignment: AssignedAmount{ID: "as-1", FromAmountID: "amt-1", Currency: "JPY", Amount: 1880, BillID: &billID},
		},
		{
			name:       "amount target",
			assignment: AssignedAmount{ID: "as-2", FromAmountID: "amt-1", Currency: "EUR", Amount: 100, ToAmountID: &targetID},
		},
		{
			name:       "no target set",
			assignment: AssignedAmount{ID: "as-3", FromAmountID: "amt-1", Currency: "EUR", Amount: 0},
			wantErr:    ErrInvalidTarget,
		},
		{
			name:       "both targets set",
			assignment: AssignedAmount{ID: "as-4", FromAmountID: "amt-1", Currency: "EUR", Amount: 100, BillID: &billID, ToAmountID: &targetID},
			wantErr:    ErrInvalidTarget,
		},
		{
			name:       "missing source",
			assignment: AssignedAmount{ID: "as-5", Currency: "EUR", Amount: 100, BillID: &billID},
			wantErr:    ErrInvalidTarget,
		},
		{
			name:       "negative magnitude",
			assignment: AssignedAmount{ID: "as-6", FromAmountID: "amt-1", Currency: "EUR", Amount: -5, BillID: &billID},
			wantErr:    ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.assignment.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAssignedAmount_AppliedAmount(t *testing.T) {
	converted := int64(205000)
	cross := AssignedAmount{Amount: 1880, TargetAmount: &converted}
	if got := cross.AppliedAmount(); got != converted {
		t.Fatalf("expected converted value %d, got %d", converted, got)
	}

	same := AssignedAmount{Amount: 1880}
	if got := same.AppliedAmount(); got != 1880 {
		t.Fatalf("expected 1880, got %d", got)
	}
}
