package usecase

import (
	"context"
	"time"

	"github.com/iho/debtledger/internal/domain"
)

// AmountRepository defines data access for incoming amounts.
type AmountRepository interface {
	Create(ctx context.Context, tx Transaction, amount *domain.IncomingAmount) error
	GetByID(ctx context.Context, id string) (*domain.IncomingAmount, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.IncomingAmount, error)
	SetClient(ctx context.Context, tx Transaction, id string, clientID *string, updatedAt time.Time) error
	SetFullyAssigned(ctx context.Context, tx Transaction, id string, fullyAssigned bool, updatedAt time.Time) error
	// AddToAmount grows (or shrinks, for reversals) the magnitude of an
	// amount that received value from another amount.
	AddToAmount(ctx context.Context, tx Transaction, id string, delta int64, updatedAt time.Time) error
	// ListReversalCandidates returns credit entries with the given currency
	// and magnitude that are neither fully assigned nor reversal entries
	// themselves, in a deterministic order.
	ListReversalCandidates(ctx context.Context, currency string, amount int64) ([]*domain.IncomingAmount, error)
	Search(ctx context.Context, search domain.PaymentSearch, limit, offset int) ([]*domain.IncomingAmount, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.IncomingAmount, error)
}

// BillRepository defines data access for bills and their lines.
type BillRepository interface {
	Create(ctx context.Context, bill *domain.Bill) error
	GetByID(ctx context.Context, id string) (*domain.Bill, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Bill, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.BillStatus, updatedAt time.Time) error
	ListIssuedByClient(ctx context.Context, clientID string) ([]*domain.Bill, error)
	ListIssuedByClientForUpdate(ctx context.Context, tx Transaction, clientID string) ([]*domain.Bill, error)
	// FindReferenced returns issued bills whose identifier appears inside
	// the given counterparty reference text.
	FindReferenced(ctx context.Context, reference string) ([]*domain.Bill, error)
	FindReferencedForUpdate(ctx context.Context, tx Transaction, reference string) ([]*domain.Bill, error)
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Bill, error)
}

// AssignmentRepository defines data access for assigned amounts.
type AssignmentRepository interface {
	Create(ctx context.Context, tx Transaction, assignment *domain.AssignedAmount) error
	GetByID(ctx context.Context, id string) (*domain.AssignedAmount, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.AssignedAmount, error)
	ListActiveByFromAmount(ctx context.Context, fromAmountID string) ([]*domain.AssignedAmount, error)
	SumActiveByFromAmount(ctx context.Context, tx Transaction, fromAmountID string) (int64, error)
	CountActiveByFromAmount(ctx context.Context, tx Transaction, fromAmountID string) (int64, error)
	MarkReversed(ctx context.Context, tx Transaction, id string, updatedAt time.Time) error
}

// ClientRepository defines data access for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	SearchByName(ctx context.Context, name string, limit int) ([]*domain.Client, error)
}

// BankAccountRepository defines data access for the IBAN book.
type BankAccountRepository interface {
	Create(ctx context.Context, account *domain.BankAccount) error
	FindByIBAN(ctx context.Context, iban string) (*domain.BankAccount, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.BankAccount, error)
}

// QueueRepository defines data access for the assignment queue.
type QueueRepository interface {
	Enqueue(ctx context.Context, tx Transaction, entry *domain.QueueEntry) error
	ListPending(ctx context.Context, limit int) ([]*domain.QueueEntry, error)
	MarkProcessed(ctx context.Context, id string, processedAt time.Time) error
	DeleteProcessed(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on retryable conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
