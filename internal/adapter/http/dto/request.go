package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// CreateAmountRequest represents a decoded statement entry or manual
// booking. Amount is the display value; it is converted to the currency's
// minor units on the way in.
type CreateAmountRequest struct {
	ClientID          *string         `json:"client_id,omitempty"`
	Currency          string          `json:"currency"`
	Amount            decimal.Decimal `json:"amount"`
	DebCred           string          `json:"deb_cred"`
	ValueDate         time.Time       `json:"value_date"`
	OurRef            string          `json:"our_ref,omitempty"`
	BankRef           string          `json:"bank_ref,omitempty"`
	CounterpartyRef   string          `json:"counterparty_ref,omitempty"`
	CounterpartyName  string          `json:"counterparty_name,omitempty"`
	CounterpartyIBAN  string          `json:"counterparty_iban,omitempty"`
	ReversalIndicator bool            `json:"reversal_indicator,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAmountRequest) ToUseCaseInput() (usecase.CreateIncomingAmountInput, error) {
	units, err := domain.MinorUnits(r.Amount, r.Currency)
	if err != nil {
		return usecase.CreateIncomingAmountInput{}, err
	}

	return usecase.CreateIncomingAmountInput{
		ClientID:          r.ClientID,
		Currency:          r.Currency,
		Amount:            units,
		DebCred:           domain.DebCred(r.DebCred),
		ValueDate:         r.ValueDate,
		OurRef:            r.OurRef,
		BankRef:           r.BankRef,
		CounterpartyRef:   r.CounterpartyRef,
		CounterpartyName:  r.CounterpartyName,
		CounterpartyIBAN:  r.CounterpartyIBAN,
		ReversalIndicator: r.ReversalIndicator,
	}, nil
}

// AssignToBillRequest represents an explicit settlement of one bill.
type AssignToBillRequest struct {
	AmountID     string           `json:"amount_id"`
	BillID       string           `json:"bill_id"`
	SettleAmount *decimal.Decimal `json:"settle_amount,omitempty"`
}

// ToUseCaseInput converts to use case input. The settle amount is
// expressed in the source amount's currency.
func (r *AssignToBillRequest) ToUseCaseInput(currency string) (usecase.AssignToBillInput, error) {
	input := usecase.AssignToBillInput{
		AmountID: r.AmountID,
		BillID:   r.BillID,
	}

	if r.SettleAmount != nil {
		units, err := domain.MinorUnits(*r.SettleAmount, currency)
		if err != nil {
			return usecase.AssignToBillInput{}, err
		}
		input.SettleAmount = &units
	}

	return input, nil
}

// AssignToAmountRequest assigns one amount's remainder to another amount.
// OtherCurrency and OtherAmount carry the converted value for
// cross-currency targets.
type AssignToAmountRequest struct {
	AmountID       string           `json:"amount_id"`
	TargetAmountID string           `json:"target_amount_id"`
	OtherCurrency  *string          `json:"other_currency,omitempty"`
	OtherAmount    *decimal.Decimal `json:"other_amount,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AssignToAmountRequest) ToUseCaseInput() (usecase.AssignToAmountInput, error) {
	input := usecase.AssignToAmountInput{
		AmountID:       r.AmountID,
		TargetAmountID: r.TargetAmountID,
		OtherCcy:       r.OtherCurrency,
	}

	if r.OtherAmount != nil {
		if r.OtherCurrency == nil {
			return usecase.AssignToAmountInput{}, domain.ErrMissingConversion
		}

		units, err := domain.MinorUnits(*r.OtherAmount, *r.OtherCurrency)
		if err != nil {
			return usecase.AssignToAmountInput{}, err
		}
		if units <= 0 {
			return usecase.AssignToAmountInput{}, fmt.Errorf("%w: converted value %s", domain.ErrNegativeAmount, r.OtherAmount)
		}
		input.OtherAmount = &units
	}

	return input, nil
}

// ReversalLinkRequest pairs a debit reversal with the credit it cancels.
type ReversalLinkRequest struct {
	CreditAmountID string `json:"credit_amount_id"`
}

// ChangeClientRequest re-links an amount to another client.
type ChangeClientRequest struct {
	ClientID string `json:"client_id"`
}

// CreateBillLineRequest is one invoiced position. UnitPrice is the display
// value in the bill's currency.
type CreateBillLineRequest struct {
	ShortDesc string          `json:"short_desc"`
	LongDesc  string          `json:"long_desc,omitempty"`
	NumberOf  int32           `json:"number_of"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateBillRequest represents a request to create a bill.
type CreateBillRequest struct {
	ClientID   string                  `json:"client_id"`
	Currency   string                  `json:"currency"`
	DateSale   time.Time               `json:"date_sale"`
	PrevBillID *string                 `json:"prev_bill_id,omitempty"`
	Lines      []CreateBillLineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBillRequest) ToUseCaseInput() (usecase.CreateBillInput, error) {
	lines := make([]usecase.CreateBillLineInput, len(r.Lines))
	for i, l := range r.Lines {
		units, err := domain.MinorUnits(l.UnitPrice, r.Currency)
		if err != nil {
			return usecase.CreateBillInput{}, err
		}

		lines[i] = usecase.CreateBillLineInput{
			ShortDesc: l.ShortDesc,
			LongDesc:  l.LongDesc,
			NumberOf:  l.NumberOf,
			UnitPrice: units,
		}
	}

	return usecase.CreateBillInput{
		ClientID:   r.ClientID,
		Currency:   r.Currency,
		DateSale:   r.DateSale,
		PrevBillID: r.PrevBillID,
		Lines:      lines,
	}, nil
}

// CreateClientRequest represents a request to register a client.
type CreateClientRequest struct {
	Name string `json:"name"`
}

// AddBankAccountRequest registers a counterparty IBAN for a client.
type AddBankAccountRequest struct {
	IBAN        string `json:"iban"`
	BIC         string `json:"bic,omitempty"`
	AccountName string `json:"account_name,omitempty"`
}
