package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/debtledger/internal/domain"
)

// ClientRepository implements usecase.ClientRepository.
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository.
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// Create inserts a client.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, client.ID, client.Name, client.CreatedAt, client.UpdatedAt)

	return translateError(err)
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `SELECT id, name, created_at, updated_at FROM clients WHERE id = $1`

	var c domain.Client
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}

		return nil, translateError(err)
	}

	return &c, nil
}

// SearchByName finds clients by a case-insensitive name fragment.
func (r *ClientRepository) SearchByName(ctx context.Context, name string, limit int) ([]*domain.Client, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM clients
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name, id
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, name, limit)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, translateError(err)
		}
		clients = append(clients, &c)
	}

	return clients, rows.Err()
}
