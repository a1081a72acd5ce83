package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// QueueRepository implements usecase.QueueRepository on the
// assignment_queue table.
type QueueRepository struct {
	pool *pgxpool.Pool
}

// NewQueueRepository creates a new QueueRepository.
func NewQueueRepository(pool *pgxpool.Pool) *QueueRepository {
	return &QueueRepository{pool: pool}
}

// Enqueue writes a pending marker in the caller's transaction, so the
// marker and the amount commit together.
func (r *QueueRepository) Enqueue(ctx context.Context, tx usecase.Transaction, entry *domain.QueueEntry) error {
	query := `
		INSERT INTO assignment_queue (id, amount_id, created_at, processed_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := inTx(tx).Exec(ctx, query, entry.ID, entry.AmountID, entry.CreatedAt, entry.ProcessedAt)

	return translateError(err)
}

// ListPending returns unprocessed markers, oldest first.
func (r *QueueRepository) ListPending(ctx context.Context, limit int) ([]*domain.QueueEntry, error) {
	query := `
		SELECT id, amount_id, created_at, processed_at
		FROM assignment_queue
		WHERE processed_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var entries []*domain.QueueEntry
	for rows.Next() {
		var e domain.QueueEntry
		if err := rows.Scan(&e.ID, &e.AmountID, &e.CreatedAt, &e.ProcessedAt); err != nil {
			return nil, translateError(err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// MarkProcessed stamps a marker as handled.
func (r *QueueRepository) MarkProcessed(ctx context.Context, id string, processedAt time.Time) error {
	query := `UPDATE assignment_queue SET processed_at = $2 WHERE id = $1 AND processed_at IS NULL`

	_, err := r.pool.Exec(ctx, query, id, processedAt)

	return translateError(err)
}

// DeleteProcessed prunes markers handled before the cutoff.
func (r *QueueRepository) DeleteProcessed(ctx context.Context, before time.Time) error {
	query := `DELETE FROM assignment_queue WHERE processed_at IS NOT NULL AND processed_at < $1`

	_, err := r.pool.Exec(ctx, query, before)

	return translateError(err)
}
