package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

const amountColumns = `id, client_id, currency, amount, deb_cred, value_date,
	our_ref, bank_ref, counterparty_ref, counterparty_name, counterparty_iban,
	fully_assigned, reversal_indicator, created_at, updated_at`

const amountColumnsQualified = `a.id, a.client_id, a.currency, a.amount, a.deb_cred, a.value_date,
	a.our_ref, a.bank_ref, a.counterparty_ref, a.counterparty_name, a.counterparty_iban,
	a.fully_assigned, a.reversal_indicator, a.created_at, a.updated_at`

// AmountRepository implements usecase.AmountRepository.
type AmountRepository struct {
	pool *pgxpool.Pool
}

// NewAmountRepository creates a new AmountRepository.
func NewAmountRepository(pool *pgxpool.Pool) *AmountRepository {
	return &AmountRepository{pool: pool}
}

// Create inserts a new incoming amount.
func (r *AmountRepository) Create(ctx context.Context, tx usecase.Transaction, amount *domain.IncomingAmount) error {
	query := `
		INSERT INTO incoming_amounts (` + amountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := inTx(tx).Exec(ctx, query,
		amount.ID,
		amount.ClientID,
		amount.Currency,
		amount.Amount,
		string(amount.DebCred),
		amount.ValueDate,
		amount.OurRef,
		amount.BankRef,
		amount.CounterpartyRef,
		amount.CounterpartyName,
		amount.CounterpartyIBAN,
		amount.FullyAssigned,
		amount.ReversalIndicator,
		amount.CreatedAt,
		amount.UpdatedAt,
	)

	return translateError(err)
}

// GetByID retrieves an incoming amount by ID.
func (r *AmountRepository) GetByID(ctx context.Context, id string) (*domain.IncomingAmount, error) {
	query := `SELECT ` + amountColumns + ` FROM incoming_amounts WHERE id = $1`

	return scanAmount(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an incoming amount with a FOR UPDATE lock.
func (r *AmountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.IncomingAmount, error) {
	query := `SELECT ` + amountColumns + ` FROM incoming_amounts WHERE id = $1 FOR UPDATE`

	return scanAmount(inTx(tx).QueryRow(ctx, query, id))
}

// SetClient re-links an amount to a client.
func (r *AmountRepository) SetClient(ctx context.Context, tx usecase.Transaction, id string, clientID *string, updatedAt time.Time) error {
	query := `UPDATE incoming_amounts SET client_id = $2, updated_at = $3 WHERE id = $1`

	tag, err := inTx(tx).Exec(ctx, query, id, clientID, updatedAt)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAmountNotFound, id)
	}

	return nil
}

// SetFullyAssigned flips the fully-assigned flag.
func (r *AmountRepository) SetFullyAssigned(ctx context.Context, tx usecase.Transaction, id string, fullyAssigned bool, updatedAt time.Time) error {
	query := `UPDATE incoming_amounts SET fully_assigned = $2, updated_at = $3 WHERE id = $1`

	tag, err := inTx(tx).Exec(ctx, query, id, fullyAssigned, updatedAt)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAmountNotFound, id)
	}

	return nil
}

// AddToAmount adjusts the magnitude of an amount that received value from
// another amount.
func (r *AmountRepository) AddToAmount(ctx context.Context, tx usecase.Transaction, id string, delta int64, updatedAt time.Time) error {
	query := `UPDATE incoming_amounts SET amount = amount + $2, updated_at = $3 WHERE id = $1`

	tag, err := inTx(tx).Exec(ctx, query, id, delta, updatedAt)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAmountNotFound, id)
	}

	return nil
}

// ListReversalCandidates returns open credit entries matching a debit's
// currency and magnitude. Reversal entries are excluded, they cannot cancel
// each other.
func (r *AmountRepository) ListReversalCandidates(ctx context.Context, currency string, amount int64) ([]*domain.IncomingAmount, error) {
	query := `
		SELECT ` + amountColumns + `
		FROM incoming_amounts
		WHERE deb_cred = $1
		  AND currency = $2
		  AND amount = $3
		  AND fully_assigned = false
		  AND reversal_indicator = false
		ORDER BY value_date, id
	`

	rows, err := r.pool.Query(ctx, query, string(domain.Credit), currency, amount)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return scanAmounts(rows)
}

// Search finds incoming amounts by a single criterion.
func (r *AmountRepository) Search(ctx context.Context, search domain.PaymentSearch, limit, offset int) ([]*domain.IncomingAmount, error) {
	query := `SELECT ` + amountColumnsQualified + ` FROM incoming_amounts a`
	var where string
	var arg any

	switch {
	case search.OurRef != "":
		where = `a.our_ref ILIKE '%' || $1 || '%'`
		arg = search.OurRef
	case search.BankRef != "":
		where = `a.bank_ref ILIKE '%' || $1 || '%'`
		arg = search.BankRef
	case search.Name != "":
		query = `
			SELECT ` + amountColumnsQualified + `
			FROM incoming_amounts a
			JOIN clients c ON c.id = a.client_id`
		where = `c.name ILIKE '%' || $1 || '%'`
		arg = search.Name
	case search.ClientID != "":
		where = `a.client_id = $1`
		arg = search.ClientID
	case search.IBAN != "":
		where = `a.counterparty_iban = $1`
		arg = search.IBAN
	default:
		return nil, domain.ErrEmptySearch
	}

	query += ` WHERE ` + where + ` ORDER BY a.value_date DESC, a.id LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, arg, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return scanAmounts(rows)
}

// ListByClient lists a client's incoming amounts, newest first.
func (r *AmountRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.IncomingAmount, error) {
	query := `
		SELECT ` + amountColumns + `
		FROM incoming_amounts
		WHERE client_id = $1
		ORDER BY value_date DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	return scanAmounts(rows)
}

func scanAmount(row pgx.Row) (*domain.IncomingAmount, error) {
	var a domain.IncomingAmount
	var debCred string

	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.Currency,
		&a.Amount,
		&debCred,
		&a.ValueDate,
		&a.OurRef,
		&a.BankRef,
		&a.CounterpartyRef,
		&a.CounterpartyName,
		&a.CounterpartyIBAN,
		&a.FullyAssigned,
		&a.ReversalIndicator,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAmountNotFound
		}

		return nil, translateError(err)
	}

	a.DebCred = domain.DebCred(debCred)

	return &a, nil
}

func scanAmounts(rows pgx.Rows) ([]*domain.IncomingAmount, error) {
	var amounts []*domain.IncomingAmount
	for rows.Next() {
		a, err := scanAmount(rows)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, a)
	}

	return amounts, rows.Err()
}
