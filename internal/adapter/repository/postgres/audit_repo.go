package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/debtledger/internal/domain"
)

// AuditRepository implements audit log persistence
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	var detailJSON []byte
	var err error

	if log.Detail != nil {
		detailJSON, err = json.Marshal(log.Detail)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_logs (
			id, action, resource_type, resource_id, request_id,
			detail, status, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.pool.Exec(ctx, query,
		log.ID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		detailJSON,
		log.Status,
		log.ErrorMessage,
		log.CreatedAt,
	)

	return translateError(err)
}

// List retrieves audit logs with filtering
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, action, resource_type, resource_id, request_id,
		       detail, status, error_message, created_at
		FROM audit_logs
		WHERE 1=1
	`
	args := []any{}
	argPos := 1

	if filter.Action != "" {
		query += fmt.Sprintf(` AND action = $%d`, argPos)
		args = append(args, filter.Action)
		argPos++
	}

	if filter.ResourceType != "" {
		query += fmt.Sprintf(` AND resource_type = $%d`, argPos)
		args = append(args, filter.ResourceType)
		argPos++
	}

	if filter.ResourceID != "" {
		query += fmt.Sprintf(` AND resource_id = $%d`, argPos)
		args = append(args, filter.ResourceID)
		argPos++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, argPos)
		args = append(args, filter.Limit)
		argPos++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argPos)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var log domain.AuditLog
		var detailJSON []byte

		err := rows.Scan(
			&log.ID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&detailJSON,
			&log.Status,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, translateError(err)
		}

		if len(detailJSON) > 0 {
			if err := json.Unmarshal(detailJSON, &log.Detail); err != nil {
				return nil, err
			}
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
