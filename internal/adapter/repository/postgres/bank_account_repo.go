package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/debtledger/internal/domain"
)

// BankAccountRepository implements usecase.BankAccountRepository.
type BankAccountRepository struct {
	pool *pgxpool.Pool
}

// NewBankAccountRepository creates a new BankAccountRepository.
func NewBankAccountRepository(pool *pgxpool.Pool) *BankAccountRepository {
	return &BankAccountRepository{pool: pool}
}

// Create inserts a bank account into the IBAN book.
func (r *BankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (id, client_id, iban, bic, account_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.ClientID,
		account.IBAN,
		account.BIC,
		account.AccountName,
		account.CreatedAt,
	)

	return translateError(err)
}

// FindByIBAN resolves a counterparty IBAN to its registered account.
func (r *BankAccountRepository) FindByIBAN(ctx context.Context, iban string) (*domain.BankAccount, error) {
	query := `
		SELECT id, client_id, iban, bic, account_name, created_at
		FROM bank_accounts
		WHERE iban = $1
	`

	var a domain.BankAccount
	err := r.pool.QueryRow(ctx, query, iban).Scan(&a.ID, &a.ClientID, &a.IBAN, &a.BIC, &a.AccountName, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBankAccountNotFound
		}

		return nil, translateError(err)
	}

	return &a, nil
}

// ListByClient lists a client's registered accounts.
func (r *BankAccountRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.BankAccount, error) {
	query := `
		SELECT id, client_id, iban, bic, account_name, created_at
		FROM bank_accounts
		WHERE client_id = $1
		ORDER BY iban
	`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var accounts []*domain.BankAccount
	for rows.Next() {
		var a domain.BankAccount
		if err := rows.Scan(&a.ID, &a.ClientID, &a.IBAN, &a.BIC, &a.AccountName, &a.CreatedAt); err != nil {
			return nil, translateError(err)
		}
		accounts = append(accounts, &a)
	}

	return accounts, rows.Err()
}
