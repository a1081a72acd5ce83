package domain

import "time"

// Client is a debtor. Full client administration lives outside this
// service; matching only needs the identity and the IBAN book.
type Client struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BankAccount links a counterparty IBAN to a client.
type BankAccount struct {
	ID          string
	ClientID    string
	IBAN        string
	BIC         string
	AccountName string
	CreatedAt   time.Time
}
