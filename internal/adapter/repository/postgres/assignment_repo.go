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

const assignmentColumns = `id, from_amount_id, currency, amount, bill_id, to_amount_id,
	target_currency, target_amount, reversed, created_at, updated_at`

// AssignmentRepository implements usecase.AssignmentRepository.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create inserts an assignment record.
func (r *AssignmentRepository) Create(ctx context.Context, tx usecase.Transaction, assignment *domain.AssignedAmount) error {
	query := `
		INSERT INTO assigned_amounts (` + assignmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := inTx(tx).Exec(ctx, query,
		assignment.ID,
		assignment.FromAmountID,
		assignment.Currency,
		assignment.Amount,
		assignment.BillID,
		assignment.ToAmountID,
		assignment.TargetCurrency,
		assignment.TargetAmount,
		assignment.Reversed,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)

	return translateError(err)
}

// GetByID retrieves an assignment by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*domain.AssignedAmount, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assigned_amounts WHERE id = $1`

	return scanAssignment(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an assignment with a FOR UPDATE lock.
func (r *AssignmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.AssignedAmount, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assigned_amounts WHERE id = $1 FOR UPDATE`

	return scanAssignment(inTx(tx).QueryRow(ctx, query, id))
}

// ListActiveByFromAmount returns an amount's active assignments in creation
// order.
func (r *AssignmentRepository) ListActiveByFromAmount(ctx context.Context, fromAmountID string) ([]*domain.AssignedAmount, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assigned_amounts
		WHERE from_amount_id = $1 AND reversed = false
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, fromAmountID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var assignments []*domain.AssignedAmount
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// SumActiveByFromAmount returns the total magnitude consumed by an amount's
// active assignments.
func (r *AssignmentRepository) SumActiveByFromAmount(ctx context.Context, tx usecase.Transaction, fromAmountID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM assigned_amounts
		WHERE from_amount_id = $1 AND reversed = false
	`

	q := querier(r.pool)
	if tx != nil {
		q = inTx(tx)
	}

	var sum int64
	if err := q.QueryRow(ctx, query, fromAmountID).Scan(&sum); err != nil {
		return 0, translateError(err)
	}

	return sum, nil
}

// CountActiveByFromAmount counts an amount's active assignments.
func (r *AssignmentRepository) CountActiveByFromAmount(ctx context.Context, tx usecase.Transaction, fromAmountID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM assigned_amounts
		WHERE from_amount_id = $1 AND reversed = false
	`

	q := querier(r.pool)
	if tx != nil {
		q = inTx(tx)
	}

	var count int64
	if err := q.QueryRow(ctx, query, fromAmountID).Scan(&count); err != nil {
		return 0, translateError(err)
	}

	return count, nil
}

// MarkReversed flags an assignment as logically deleted.
func (r *AssignmentRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error {
	query := `UPDATE assigned_amounts SET reversed = true, updated_at = $2 WHERE id = $1`

	tag, err := inTx(tx).Exec(ctx, query, id, updatedAt)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrAssignmentNotFound, id)
	}

	return nil
}

func scanAssignment(row pgx.Row) (*domain.AssignedAmount, error) {
	var a domain.AssignedAmount

	err := row.Scan(
		&a.ID,
		&a.FromAmountID,
		&a.Currency,
		&a.Amount,
		&a.BillID,
		&a.ToAmountID,
		&a.TargetCurrency,
		&a.TargetAmount,
		&a.Reversed,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssignmentNotFound
		}

		return nil, translateError(err)
	}

	return &a, nil
}
