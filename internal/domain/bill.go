package domain

import (
	"fmt"
	"time"
)

// BillStatus is the lifecycle state of a bill.
type BillStatus string

const (
	BillStatusNew     BillStatus = "new"
	BillStatusIssued  BillStatus = "issued"
	BillStatusPaid    BillStatus = "paid"
	BillStatusDubious BillStatus = "dubious"
)

// BillLine is one invoiced position on a bill.
type BillLine struct {
	ID        string
	BillID    string
	ShortDesc string
	LongDesc  string
	NumberOf  int32
	UnitPrice int64
}

// Total returns the line amount in minor units.
func (l BillLine) Total() int64 {
	return int64(l.NumberOf) * l.UnitPrice
}

// Validate checks a line at creation time.
func (l BillLine) Validate() error {
	if l.ShortDesc == "" {
		return fmt.Errorf("%w: short description is mandatory", ErrInvalidBillLine)
	}

	if l.UnitPrice <= 0 {
		return fmt.Errorf("%w: unit price %d must be positive", ErrInvalidBillLine, l.UnitPrice)
	}

	if l.NumberOf <= 0 {
		return fmt.Errorf("%w: number of units %d must be positive", ErrInvalidBillLine, l.NumberOf)
	}

	return nil
}

// Bill is an amount owed by a client, made up of lines.
type Bill struct {
	ID         string
	ClientID   string
	Currency   string
	Status     BillStatus
	DateSale   time.Time
	DateBill   *time.Time
	PrevBillID *string
	Lines      []BillLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Total returns the amount owed in minor units, recomputed from the lines.
func (b *Bill) Total() int64 {
	var total int64
	for _, l := range b.Lines {
		total += l.Total()
	}

	return total
}

// Payable reports whether the bill is an eligible settlement target.
// Only issued bills with a positive total qualify.
func (b *Bill) Payable() bool {
	return b.Status == BillStatusIssued && b.Total() > 0
}

// Validate checks the construction invariants.
func (b *Bill) Validate() error {
	if _, err := NormalizeCurrency(b.Currency); err != nil {
		return err
	}

	if b.DateSale.IsZero() {
		return fmt.Errorf("%w: bill %s", ErrMissingSaleDate, b.ID)
	}

	switch b.Status {
	case BillStatusNew, BillStatusIssued, BillStatusPaid, BillStatusDubious:
	default:
		return fmt.Errorf("invalid bill status %q", b.Status)
	}

	for _, l := range b.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}

	return nil
}
