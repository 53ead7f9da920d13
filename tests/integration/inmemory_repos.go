package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"payment-callback-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.Mutex
	transactions map[string]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[string]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) put(t *domain.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[t.RefID] = t
}

func (r *inMemoryTransactionRepo) get(refID string) *domain.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[refID]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

func (r *inMemoryTransactionRepo) GetByReference(_ context.Context, refID string) (*domain.Transaction, error) {
	return r.get(refID), nil
}

// TransitionStatus mirrors the conditional UPDATE: under one lock, compare
// and swap so concurrent callers see exactly one winner.
func (r *inMemoryTransactionRepo) TransitionStatus(_ context.Context, refID string, expected, next domain.TransactionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transactions[refID]
	if !ok || t.Status != expected {
		return false, nil
	}
	now := time.Now()
	t.Status = next
	t.ProcessedAt = &now
	return true, nil
}

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User

	creditCalls int64
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[string]*domain.User)}
}

func (r *inMemoryUserRepo) put(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.UserID] = u
}

func (r *inMemoryUserRepo) GetByUserID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) CreditBalance(_ context.Context, userID string, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return 0, fmt.Errorf("credit balance: user not found: %s", userID)
	}
	u.Balance += amount
	u.TransactionCount++
	r.creditCalls++
	return u.Balance, nil
}

func (r *inMemoryUserRepo) IncrementTransactionCount(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("increment transaction count: user not found: %s", userID)
	}
	u.TransactionCount++
	return nil
}

func (r *inMemoryUserRepo) credits() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creditCalls
}

// --- In-Memory Product Repo ---

type inMemoryProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*domain.Product
}

func newInMemoryProductRepo() *inMemoryProductRepo {
	return &inMemoryProductRepo{products: make(map[uuid.UUID]*domain.Product)}
}

func (r *inMemoryProductRepo) put(p *domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

func (r *inMemoryProductRepo) GetByName(_ context.Context, name string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Name == name {
			cp := *p
			cp.Contents = append([]string(nil), p.Contents...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryProductRepo) PopContent(_ context.Context, id uuid.UUID) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || len(p.Contents) == 0 {
		return "", false, nil
	}
	content := p.Contents[0]
	p.Contents = p.Contents[1:]
	p.Stock--
	p.TotalSold++
	return content, true, nil
}

// --- Recording Notifier ---

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Send(_ context.Context, _ string, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}

func (n *recordingNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}
