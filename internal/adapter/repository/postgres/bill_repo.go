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

const billColumns = `id, client_id, currency, status, date_sale, date_bill, prev_bill_id, created_at, updated_at`

// BillRepository implements usecase.BillRepository.
type BillRepository struct {
	pool *pgxpool.Pool
}

// NewBillRepository creates a new BillRepository.
func NewBillRepository(pool *pgxpool.Pool) *BillRepository {
	return &BillRepository{pool: pool}
}

// Create inserts a bill with its lines.
func (r *BillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return translateError(err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO bills (`+billColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		bill.ID,
		bill.ClientID,
		bill.Currency,
		string(bill.Status),
		bill.DateSale,
		bill.DateBill,
		bill.PrevBillID,
		bill.CreatedAt,
		bill.UpdatedAt,
	)
	if err != nil {
		return translateError(err)
	}

	for _, line := range bill.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO bill_lines (id, bill_id, short_desc, long_desc, number_of, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			line.ID,
			line.BillID,
			line.ShortDesc,
			line.LongDesc,
			line.NumberOf,
			line.UnitPrice,
		)
		if err != nil {
			return translateError(err)
		}
	}

	return translateError(tx.Commit(ctx))
}

// GetByID retrieves a bill with its lines.
func (r *BillRepository) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`

	bill, err := scanBill(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, r.pool, []*domain.Bill{bill}); err != nil {
		return nil, err
	}

	return bill, nil
}

// GetByIDForUpdate retrieves a bill with a FOR UPDATE lock.
func (r *BillRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1 FOR UPDATE`

	bill, err := scanBill(inTx(tx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, inTx(tx), []*domain.Bill{bill}); err != nil {
		return nil, err
	}

	return bill, nil
}

// UpdateStatus moves a bill through its lifecycle.
func (r *BillRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.BillStatus, updatedAt time.Time) error {
	query := `UPDATE bills SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := inTx(tx).Exec(ctx, query, id, string(status), updatedAt)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrBillNotFound, id)
	}

	return nil
}

// ListIssuedByClient returns a client's open bills.
func (r *BillRepository) ListIssuedByClient(ctx context.Context, clientID string) ([]*domain.Bill, error) {
	return r.listIssued(ctx, r.pool, clientID, false)
}

// ListIssuedByClientForUpdate returns a client's open bills with FOR UPDATE
// locks, in ID order so concurrent settlements lock consistently.
func (r *BillRepository) ListIssuedByClientForUpdate(ctx context.Context, tx usecase.Transaction, clientID string) ([]*domain.Bill, error) {
	return r.listIssued(ctx, inTx(tx), clientID, true)
}

func (r *BillRepository) listIssued(ctx context.Context, q querier, clientID string, forUpdate bool) ([]*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE client_id = $1 AND status = $2 ORDER BY id`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, clientID, string(domain.BillStatusIssued))
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	bills, err := scanBills(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, q, bills); err != nil {
		return nil, err
	}

	return bills, nil
}

// FindReferenced returns issued bills whose identifier occurs inside the
// given counterparty reference text.
func (r *BillRepository) FindReferenced(ctx context.Context, reference string) ([]*domain.Bill, error) {
	return r.findReferenced(ctx, r.pool, reference, false)
}

// FindReferencedForUpdate is FindReferenced with FOR UPDATE locks.
func (r *BillRepository) FindReferencedForUpdate(ctx context.Context, tx usecase.Transaction, reference string) ([]*domain.Bill, error) {
	return r.findReferenced(ctx, inTx(tx), reference, true)
}

func (r *BillRepository) findReferenced(ctx context.Context, q querier, reference string, forUpdate bool) ([]*domain.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE status = $1 AND position(id in $2) > 0
		ORDER BY id
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, string(domain.BillStatusIssued), reference)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	bills, err := scanBills(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, q, bills); err != nil {
		return nil, err
	}

	return bills, nil
}

// ListByClient lists a client's bills with pagination.
func (r *BillRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE client_id = $1
		ORDER BY date_sale DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	bills, err := scanBills(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, r.pool, bills); err != nil {
		return nil, err
	}

	return bills, nil
}

func (r *BillRepository) loadLines(ctx context.Context, q querier, bills []*domain.Bill) error {
	if len(bills) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Bill, len(bills))
	ids := make([]string, 0, len(bills))
	for _, b := range bills {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	rows, err := q.Query(ctx, `
		SELECT id, bill_id, short_desc, long_desc, number_of, unit_price
		FROM bill_lines
		WHERE bill_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return translateError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.BillLine
		if err := rows.Scan(&line.ID, &line.BillID, &line.ShortDesc, &line.LongDesc, &line.NumberOf, &line.UnitPrice); err != nil {
			return translateError(err)
		}

		byID[line.BillID].Lines = append(byID[line.BillID].Lines, line)
	}

	return rows.Err()
}

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var b domain.Bill
	var status string

	err := row.Scan(
		&b.ID,
		&b.ClientID,
		&b.Currency,
		&status,
		&b.DateSale,
		&b.DateBill,
		&b.PrevBillID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}

		return nil, translateError(err)
	}

	b.Status = domain.BillStatus(status)

	return &b, nil
}

func scanBills(rows pgx.Rows) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}

	return bills, rows.Err()
}
