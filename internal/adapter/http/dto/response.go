package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

// AmountResponse represents an incoming amount in API responses. Amount is
// the display value in the entry's currency.
type AmountResponse struct {
	ID                string          `json:"id"`
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
	FullyAssigned     bool            `json:"fully_assigned"`
	ReversalIndicator bool            `json:"reversal_indicator"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// AmountFromDomain converts a domain amount to a response. The stored
// currency is always valid, so the minor-unit conversion cannot fail.
func AmountFromDomain(a *domain.IncomingAmount) *AmountResponse {
	value, _ := domain.FromMinorUnits(a.Amount, a.Currency)

	return &AmountResponse{
		ID:                a.ID,
		ClientID:          a.ClientID,
		Currency:          a.Currency,
		Amount:            value,
		DebCred:           string(a.DebCred),
		ValueDate:         a.ValueDate,
		OurRef:            a.OurRef,
		BankRef:           a.BankRef,
		CounterpartyRef:   a.CounterpartyRef,
		CounterpartyName:  a.CounterpartyName,
		CounterpartyIBAN:  a.CounterpartyIBAN,
		FullyAssigned:     a.FullyAssigned,
		ReversalIndicator: a.ReversalIndicator,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// AmountsFromDomain converts domain amounts to responses.
func AmountsFromDomain(amounts []*domain.IncomingAmount) []*AmountResponse {
	result := make([]*AmountResponse, len(amounts))
	for i, a := range amounts {
		result[i] = AmountFromDomain(a)
	}
	return result
}

// BillLineResponse represents a bill line in API responses.
type BillLineResponse struct {
	ID        string          `json:"id"`
	ShortDesc string          `json:"short_desc"`
	LongDesc  string          `json:"long_desc,omitempty"`
	NumberOf  int32           `json:"number_of"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// BillResponse represents a bill in API responses.
type BillResponse struct {
	ID         string             `json:"id"`
	ClientID   string             `json:"client_id"`
	Currency   string             `json:"currency"`
	Status     string             `json:"status"`
	DateSale   time.Time          `json:"date_sale"`
	DateBill   *time.Time         `json:"date_bill,omitempty"`
	PrevBillID *string            `json:"prev_bill_id,omitempty"`
	Total      decimal.Decimal    `json:"total"`
	Lines      []BillLineResponse `json:"lines"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// BillFromDomain converts a domain bill to a response.
func BillFromDomain(b *domain.Bill) *BillResponse {
	total, _ := domain.FromMinorUnits(b.Total(), b.Currency)

	lines := make([]BillLineResponse, len(b.Lines))
	for i, l := range b.Lines {
		unitPrice, _ := domain.FromMinorUnits(l.UnitPrice, b.Currency)
		lineTotal, _ := domain.FromMinorUnits(l.Total(), b.Currency)

		lines[i] = BillLineResponse{
			ID:        l.ID,
			ShortDesc: l.ShortDesc,
			LongDesc:  l.LongDesc,
			NumberOf:  l.NumberOf,
			UnitPrice: unitPrice,
			Total:     lineTotal,
		}
	}

	return &BillResponse{
		ID:         b.ID,
		ClientID:   b.ClientID,
		Currency:   b.Currency,
		Status:     string(b.Status),
		DateSale:   b.DateSale,
		DateBill:   b.DateBill,
		PrevBillID: b.PrevBillID,
		Total:      total,
		Lines:      lines,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// BillsFromDomain converts domain bills to responses.
func BillsFromDomain(bills []*domain.Bill) []*BillResponse {
	result := make([]*BillResponse, len(bills))
	for i, b := range bills {
		result[i] = BillFromDomain(b)
	}
	return result
}

// AssignmentResponse represents an assignment in API responses.
type AssignmentResponse struct {
	ID             string           `json:"id"`
	FromAmountID   string           `json:"from_amount_id"`
	Currency       string           `json:"currency"`
	Amount         decimal.Decimal  `json:"amount"`
	BillID         *string          `json:"bill_id,omitempty"`
	ToAmountID     *string          `json:"to_amount_id,omitempty"`
	TargetCurrency *string          `json:"target_currency,omitempty"`
	TargetAmount   *decimal.Decimal `json:"target_amount,omitempty"`
	Reversed       bool             `json:"reversed"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// AssignmentFromDomain converts a domain assignment to a response.
func AssignmentFromDomain(a *domain.AssignedAmount) *AssignmentResponse {
	amount, _ := domain.FromMinorUnits(a.Amount, a.Currency)

	resp := &AssignmentResponse{
		ID:           a.ID,
		FromAmountID: a.FromAmountID,
		Currency:     a.Currency,
		Amount:       amount,
		BillID:       a.BillID,
		ToAmountID:   a.ToAmountID,
		Reversed:     a.Reversed,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	if a.TargetCurrency != nil && a.TargetAmount != nil {
		target, _ := domain.FromMinorUnits(*a.TargetAmount, *a.TargetCurrency)
		resp.TargetCurrency = a.TargetCurrency
		resp.TargetAmount = &target
	}

	return resp
}

// AssignmentsFromDomain converts domain assignments to responses.
func AssignmentsFromDomain(assignments []*domain.AssignedAmount) []*AssignmentResponse {
	result := make([]*AssignmentResponse, len(assignments))
	for i, a := range assignments {
		result[i] = AssignmentFromDomain(a)
	}
	return result
}

// AssignResultResponse reports what an automatic settlement pass achieved.
type AssignResultResponse struct {
	Settled   bool            `json:"settled"`
	Remainder decimal.Decimal `json:"remainder"`
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientFromDomain converts a domain client to a response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// BankAccountResponse represents a bank account in API responses.
type BankAccountResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	IBAN        string    `json:"iban"`
	BIC         string    `json:"bic,omitempty"`
	AccountName string    `json:"account_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BankAccountFromDomain converts a domain bank account to a response.
func BankAccountFromDomain(a *domain.BankAccount) *BankAccountResponse {
	return &BankAccountResponse{
		ID:          a.ID,
		ClientID:    a.ClientID,
		IBAN:        a.IBAN,
		BIC:         a.BIC,
		AccountName: a.AccountName,
		CreatedAt:   a.CreatedAt,
	}
}

// BankAccountsFromDomain converts domain bank accounts to responses.
func BankAccountsFromDomain(accounts []*domain.BankAccount) []*BankAccountResponse {
	result := make([]*BankAccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = BankAccountFromDomain(a)
	}
	return result
}

// SweepResponse reports a queue sweep run.
type SweepResponse struct {
	Processed int `json:"processed"`
}

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	Detail       map[string]any `json:"detail,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogFromDomain converts a domain audit log to a response.
func AuditLogFromDomain(l *domain.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           l.ID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		RequestID:    l.RequestID,
		Detail:       l.Detail,
		Status:       l.Status,
		ErrorMessage: l.ErrorMessage,
		CreatedAt:    l.CreatedAt,
	}
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = AuditLogFromDomain(l)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
