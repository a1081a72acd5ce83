package domain

import (
	"fmt"
	"time"
)

// DebCred marks the direction of a money movement on the bank statement.
type DebCred string

const (
	Debit  DebCred = "Db"
	Credit DebCred = "Cr"
)

// MaxReferenceLength is the bank-format limit for reference fields.
const MaxReferenceLength = 35

// IncomingAmount is a single money movement received from a bank statement
// or entered manually. The magnitude is always non-negative, the direction
// is carried by DebCred.
type IncomingAmount struct {
	ID                string
	ClientID          *string
	Currency          string
	Amount            int64
	DebCred           DebCred
	ValueDate         time.Time
	OurRef            string
	BankRef           string
	CounterpartyRef   string
	CounterpartyName  string
	CounterpartyIBAN  string
	FullyAssigned     bool
	ReversalIndicator bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewIncomingAmountParams carries the decoder or manual-entry fields.
type NewIncomingAmountParams struct {
	ID                string
	ClientID          *string
	Currency          string
	Amount            int64
	DebCred           DebCred
	ValueDate         time.Time
	OurRef            string
	BankRef           string
	CounterpartyRef   string
	CounterpartyName  string
	CounterpartyIBAN  string
	ReversalIndicator bool
	CreatedAt         time.Time
}

// NewIncomingAmount constructs a validated incoming amount. The currency
// code is normalized to upper case; everything else is rejected rather
// than corrected.
func NewIncomingAmount(p NewIncomingAmountParams) (*IncomingAmount, error) {
	currency, err := NormalizeCurrency(p.Currency)
	if err != nil {
		return nil, err
	}

	a := &IncomingAmount{
		ID:                p.ID,
		ClientID:          p.ClientID,
		Currency:          currency,
		Amount:            p.Amount,
		DebCred:           p.DebCred,
		ValueDate:         p.ValueDate,
		OurRef:            p.OurRef,
		BankRef:           p.BankRef,
		CounterpartyRef:   p.CounterpartyRef,
		CounterpartyName:  p.CounterpartyName,
		CounterpartyIBAN:  p.CounterpartyIBAN,
		ReversalIndicator: p.ReversalIndicator,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.CreatedAt,
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate checks the construction invariants.
func (a *IncomingAmount) Validate() error {
	if _, err := NormalizeCurrency(a.Currency); err != nil {
		return err
	}

	if a.DebCred != Debit && a.DebCred != Credit {
		return fmt.Errorf("%w: %q", ErrInvalidDebCred, a.DebCred)
	}

	if a.Amount < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeAmount, a.Amount)
	}

	for _, ref := range []struct {
		name  string
		value string
	}{
		{"our reference", a.OurRef},
		{"bank reference", a.BankRef},
		{"counterparty reference", a.CounterpartyRef},
	} {
		if len(ref.value) > MaxReferenceLength {
			return fmt.Errorf("%w: %s %q", ErrReferenceTooLong, ref.name, ref.value)
		}
	}

	return nil
}

// Unassigned returns the magnitude not yet consumed by active assignments,
// given the current active assignment total.
func (a *IncomingAmount) Unassigned(assigned int64) int64 {
	remainder := a.Amount - assigned
	if remainder < 0 {
		return 0
	}

	return remainder
}

// PaymentSearch is a single-criterion search over incoming amounts.
type PaymentSearch struct {
	OurRef   string
	BankRef  string
	Name     string
	ClientID string
	IBAN     string
}

// MinNameSearchLength guards the client-name filter against pathological
// scans over the whole ledger.
const MinNameSearchLength = 3

// Validate rejects empty and too-short search criteria.
func (s PaymentSearch) Validate() error {
	if s.OurRef == "" && s.BankRef == "" && s.Name == "" && s.ClientID == "" && s.IBAN == "" {
		return ErrEmptySearch
	}

	if s.Name != "" && len(s.Name) < MinNameSearchLength {
		return fmt.Errorf("%w: name filter %q needs at least %d characters", ErrAmbiguousSearch, s.Name, MinNameSearchLength)
	}

	return nil
}
