package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iho/debtledger/internal/domain"
)

const clientCacheTTL = 5 * time.Minute

// ClientUseCase maintains the clients and the IBAN book the matching
// engine resolves counterparties against.
type ClientUseCase struct {
	clientRepo      ClientRepository
	bankAccountRepo BankAccountRepository
	idGen           IDGenerator
	cache           Cache
}

// NewClientUseCase creates a new ClientUseCase.
func NewClientUseCase(clientRepo ClientRepository, bankAccountRepo BankAccountRepository, idGen IDGenerator) *ClientUseCase {
	return &ClientUseCase{
		clientRepo:      clientRepo,
		bankAccountRepo: bankAccountRepo,
		idGen:           idGen,
	}
}

// WithCache enables read-through caching of client lookups.
func (uc *ClientUseCase) WithCache(cache Cache) *ClientUseCase {
	uc.cache = cache
	return uc
}

// CreateClient registers a debtor.
func (uc *ClientUseCase) CreateClient(ctx context.Context, name string) (*domain.Client, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is mandatory", domain.ErrInvalidClient)
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:        uc.idGen.Generate(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// GetClient retrieves a client, through the cache when one is configured.
func (uc *ClientUseCase) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, clientCacheKey(id)); err == nil && cached != "" {
			var client domain.Client
			if err := json.Unmarshal([]byte(cached), &client); err == nil {
				return &client, nil
			}
		}
	}

	client, err := uc.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(client); err == nil {
			_ = uc.cache.Set(ctx, clientCacheKey(id), string(encoded), clientCacheTTL)
		}
	}

	return client, nil
}

// AddBankAccountInput registers a counterparty IBAN for a client.
type AddBankAccountInput struct {
	ClientID    string
	IBAN        string
	BIC         string
	AccountName string
}

// AddBankAccount stores a bank account in the IBAN book.
func (uc *ClientUseCase) AddBankAccount(ctx context.Context, input AddBankAccountInput) (*domain.BankAccount, error) {
	if input.IBAN == "" {
		return nil, fmt.Errorf("%w: IBAN is mandatory", domain.ErrInvalidBankAccount)
	}

	if _, err := uc.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	account := &domain.BankAccount{
		ID:          uc.idGen.Generate(),
		ClientID:    input.ClientID,
		IBAN:        input.IBAN,
		BIC:         input.BIC,
		AccountName: input.AccountName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.bankAccountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, clientCacheKey(input.ClientID))
	}

	return account, nil
}

// ListBankAccounts lists a client's registered accounts.
func (uc *ClientUseCase) ListBankAccounts(ctx context.Context, clientID string) ([]*domain.BankAccount, error) {
	return uc.bankAccountRepo.ListByClient(ctx, clientID)
}

func clientCacheKey(id string) string {
	return "client:" + id
}
