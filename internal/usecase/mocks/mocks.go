package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// MockAmountRepository is a mock implementation of AmountRepository.
type MockAmountRepository struct {
	mu      sync.RWMutex
	amounts map[string]*domain.IncomingAmount
	clients map[string]*domain.Client // for name search, shared via SetClients

	CreateFunc                 func(ctx context.Context, tx usecase.Transaction, amount *domain.IncomingAmount) error
	GetByIDFunc                func(ctx context.Context, id string) (*domain.IncomingAmount, error)
	GetByIDForUpdateFunc       func(ctx context.Context, tx usecase.Transaction, id string) (*domain.IncomingAmount, error)
	ListReversalCandidatesFunc func(ctx context.Context, currency string, amount int64) ([]*domain.IncomingAmount, error)
	SearchFunc                 func(ctx context.Context, search domain.PaymentSearch, limit, offset int) ([]*domain.IncomingAmount, error)
}

func NewMockAmountRepository() *MockAmountRepository {
	return &MockAmountRepository{
		amounts: make(map[string]*domain.IncomingAmount),
		clients: make(map[string]*domain.Client),
	}
}

// Add seeds an amount directly.
func (m *MockAmountRepository) Add(amount *domain.IncomingAmount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.amounts[amount.ID] = amount
}

// SetClients seeds the clients used by name search.
func (m *MockAmountRepository) SetClients(clients ...*domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range clients {
		m.clients[c.ID] = c
	}
}

func (m *MockAmountRepository) Create(ctx context.Context, tx usecase.Transaction, amount *domain.IncomingAmount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.amounts[amount.ID] = amount
	return nil
}

func (m *MockAmountRepository) GetByID(ctx context.Context, id string) (*domain.IncomingAmount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.amounts[id]; ok {
		return a, nil
	}
	return nil, domain.ErrAmountNotFound
}

func (m *MockAmountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.IncomingAmount, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAmountRepository) SetClient(ctx context.Context, tx usecase.Transaction, id string, clientID *string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.amounts[id]; ok {
		a.ClientID = clientID
		a.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrAmountNotFound
}

func (m *MockAmountRepository) SetFullyAssigned(ctx context.Context, tx usecase.Transaction, id string, fullyAssigned bool, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.amounts[id]; ok {
		a.FullyAssigned = fullyAssigned
		a.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrAmountNotFound
}

func (m *MockAmountRepository) AddToAmount(ctx context.Context, tx usecase.Transaction, id string, delta int64, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.amounts[id]; ok {
		a.Amount += delta
		a.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrAmountNotFound
}

func (m *MockAmountRepository) ListReversalCandidates(ctx context.Context, currency string, amount int64) ([]*domain.IncomingAmount, error) {
	if m.ListReversalCandidatesFunc != nil {
		return m.ListReversalCandidatesFunc(ctx, currency, amount)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.IncomingAmount
	for _, a := range m.amounts {
		if a.DebCred != domain.Credit || a.Currency != currency || a.Amount != amount {
			continue
		}
		if a.FullyAssigned || a.ReversalIndicator {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockAmountRepository) Search(ctx context.Context, search domain.PaymentSearch, limit, offset int) ([]*domain.IncomingAmount, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, search, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.IncomingAmount
	for _, a := range m.amounts {
		switch {
		case search.OurRef != "":
			if !strings.Contains(a.OurRef, search.OurRef) {
				continue
			}
		case search.BankRef != "":
			if !strings.Contains(a.BankRef, search.BankRef) {
				continue
			}
		case search.Name != "":
			if a.ClientID == nil {
				continue
			}
			client, ok := m.clients[*a.ClientID]
			if !ok || !strings.Contains(client.Name, search.Name) {
				continue
			}
		case search.ClientID != "":
			if a.ClientID == nil || *a.ClientID != search.ClientID {
				continue
			}
		case search.IBAN != "":
			if a.CounterpartyIBAN != search.IBAN {
				continue
			}
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockAmountRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.IncomingAmount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.IncomingAmount
	for _, a := range m.amounts {
		if a.ClientID != nil && *a.ClientID == clientID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockBillRepository is a mock implementation of BillRepository.
type MockBillRepository struct {
	mu    sync.RWMutex
	bills map[string]*domain.Bill

	GetByIDFunc        func(ctx context.Context, id string) (*domain.Bill, error)
	FindReferencedFunc func(ctx context.Context, reference string) ([]*domain.Bill, error)
}

func NewMockBillRepository() *MockBillRepository {
	return &MockBillRepository{bills: make(map[string]*domain.Bill)}
}

func (m *MockBillRepository) Add(bill *domain.Bill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bills[bill.ID] = bill
}

func (m *MockBillRepository) Create(ctx context.Context, bill *domain.Bill) error {
	m.Add(bill)
	return nil
}

func (m *MockBillRepository) GetByID(ctx context.Context, id string) (*domain.Bill, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.bills[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBillNotFound
}

func (m *MockBillRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Bill, error) {
	return m.GetByID(ctx, id)
}

func (m *MockBillRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.BillStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bills[id]; ok {
		b.Status = status
		b.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrBillNotFound
}

func (m *MockBillRepository) ListIssuedByClient(ctx context.Context, clientID string) ([]*domain.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Bill
	for _, b := range m.bills {
		if b.ClientID == clientID && b.Status == domain.BillStatusIssued {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockBillRepository) ListIssuedByClientForUpdate(ctx context.Context, tx usecase.Transaction, clientID string) ([]*domain.Bill, error) {
	return m.ListIssuedByClient(ctx, clientID)
}

func (m *MockBillRepository) FindReferenced(ctx context.Context, reference string) ([]*domain.Bill, error) {
	if m.FindReferencedFunc != nil {
		return m.FindReferencedFunc(ctx, reference)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Bill
	for _, b := range m.bills {
		if b.Status == domain.BillStatusIssued && strings.Contains(reference, b.ID) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockBillRepository) FindReferencedForUpdate(ctx context.Context, tx usecase.Transaction, reference string) ([]*domain.Bill, error) {
	return m.FindReferenced(ctx, reference)
}

func (m *MockBillRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Bill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Bill
	for _, b := range m.bills {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockAssignmentRepository is a mock implementation of AssignmentRepository.
type MockAssignmentRepository struct {
	mu          sync.RWMutex
	assignments map[string]*domain.AssignedAmount
	order       []string

	CreateFunc func(ctx context.Context, tx usecase.Transaction, assignment *domain.AssignedAmount) error
}

func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{assignments: make(map[string]*domain.AssignedAmount)}
}

func (m *MockAssignmentRepository) Add(assignment *domain.AssignedAmount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[assignment.ID] = assignment
	m.order = append(m.order, assignment.ID)
}

func (m *MockAssignmentRepository) All() []*domain.AssignedAmount {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AssignedAmount, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.assignments[id])
	}
	return out
}

func (m *MockAssignmentRepository) Create(ctx context.Context, tx usecase.Transaction, assignment *domain.AssignedAmount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, assignment)
	}
	m.Add(assignment)
	return nil
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id string) (*domain.AssignedAmount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, domain.ErrAssignmentNotFound
}

func (m *MockAssignmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.AssignedAmount, error) {
	return m.GetByID(ctx, id)
}

func (m *MockAssignmentRepository) ListActiveByFromAmount(ctx context.Context, fromAmountID string) ([]*domain.AssignedAmount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AssignedAmount
	for _, id := range m.order {
		a := m.assignments[id]
		if a.FromAmountID == fromAmountID && !a.Reversed {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAssignmentRepository) SumActiveByFromAmount(ctx context.Context, tx usecase.Transaction, fromAmountID string) (int64, error) {
	active, _ := m.ListActiveByFromAmount(ctx, fromAmountID)
	var sum int64
	for _, a := range active {
		sum += a.Amount
	}
	return sum, nil
}

func (m *MockAssignmentRepository) CountActiveByFromAmount(ctx context.Context, tx usecase.Transaction, fromAmountID string) (int64, error) {
	active, _ := m.ListActiveByFromAmount(ctx, fromAmountID)
	return int64(len(active)), nil
}

func (m *MockAssignmentRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.assignments[id]; ok {
		a.Reversed = true
		a.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrAssignmentNotFound
}

// MockClientRepository is a mock implementation of ClientRepository.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client

	GetByIDFunc func(ctx context.Context, id string) (*domain.Client, error)
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{clients: make(map[string]*domain.Client)}
}

func (m *MockClientRepository) Add(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	m.Add(client)
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, domain.ErrClientNotFound
}

func (m *MockClientRepository) SearchByName(ctx context.Context, name string, limit int) ([]*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Client
	for _, c := range m.clients {
		if strings.Contains(c.Name, name) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockBankAccountRepository is a mock implementation of BankAccountRepository.
type MockBankAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.BankAccount

	FindByIBANFunc func(ctx context.Context, iban string) (*domain.BankAccount, error)
}

func NewMockBankAccountRepository() *MockBankAccountRepository {
	return &MockBankAccountRepository{accounts: make(map[string]*domain.BankAccount)}
}

func (m *MockBankAccountRepository) Add(account *domain.BankAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.IBAN] = account
}

func (m *MockBankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	m.Add(account)
	return nil
}

func (m *MockBankAccountRepository) FindByIBAN(ctx context.Context, iban string) (*domain.BankAccount, error) {
	if m.FindByIBANFunc != nil {
		return m.FindByIBANFunc(ctx, iban)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[iban]; ok {
		return a, nil
	}
	return nil, domain.ErrBankAccountNotFound
}

func (m *MockBankAccountRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.BankAccount
	for _, a := range m.accounts {
		if a.ClientID == clientID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockQueueRepository is a mock implementation of QueueRepository.
type MockQueueRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.QueueEntry
	order   []string
}

func NewMockQueueRepository() *MockQueueRepository {
	return &MockQueueRepository{entries: make(map[string]*domain.QueueEntry)}
}

func (m *MockQueueRepository) Enqueue(ctx context.Context, tx usecase.Transaction, entry *domain.QueueEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	m.order = append(m.order, entry.ID)
	return nil
}

func (m *MockQueueRepository) ListPending(ctx context.Context, limit int) ([]*domain.QueueEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.QueueEntry
	for _, id := range m.order {
		if e := m.entries[id]; e.Pending() {
			out = append(out, e)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockQueueRepository) MarkProcessed(ctx context.Context, id string, processedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.ProcessedAt = &processedAt
	}
	return nil
}

func (m *MockQueueRepository) DeleteProcessed(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		if e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(m.entries, id)
		}
	}
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// Logs returns everything recorded so far.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager hands out no-op transactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%04d", m.next)
}
