package domain

import (
	"fmt"
	"time"
)

// AssignedAmount records that part or all of one incoming amount settles a
// bill or another incoming amount. Reversed assignments are flagged, never
// deleted, so the row stays available for audit.
type AssignedAmount struct {
	ID           string
	FromAmountID string
	Currency     string
	Amount       int64
	BillID       *string
	ToAmountID   *string
	// TargetCurrency and TargetAmount hold the converted value applied to
	// the target when the assignment crosses currencies.
	TargetCurrency *string
	TargetAmount   *int64
	Reversed       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AppliedAmount returns the value the target received: the converted value
// for cross-currency assignments, the assigned magnitude otherwise.
func (aa *AssignedAmount) AppliedAmount() int64 {
	if aa.TargetAmount != nil {
		return *aa.TargetAmount
	}

	return aa.Amount
}

// Validate checks the construction invariants. Exactly one of BillID and
// ToAmountID must be set, matching the schema's target constraint.
func (aa *AssignedAmount) Validate() error {
	if aa.FromAmountID == "" {
		return fmt.Errorf("%w: missing source amount", ErrInvalidTarget)
	}

	if (aa.BillID != nil) == (aa.ToAmountID != nil) {
		return fmt.Errorf("%w: assignment %s", ErrInvalidTarget, aa.ID)
	}

	if aa.Amount < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeAmount, aa.Amount)
	}

	if _, err := NormalizeCurrency(aa.Currency); err != nil {
		return err
	}

	return nil
}
