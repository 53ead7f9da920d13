package ports

import (
	"context"

	"payment-callback-gateway/internal/core/domain"

	"github.com/google/uuid"
)

// TransactionRepository is the narrow set of operations the resolution
// engine needs against the transaction record. Records are created by the
// order-placement flow and never deleted here.
type TransactionRepository interface {
	// GetByReference fetches a transaction by its provider reference ID.
	// Returns nil, nil when no record exists.
	GetByReference(ctx context.Context, refID string) (*domain.Transaction, error)

	// TransitionStatus updates the status only if the stored status still
	// equals expected at the moment of the write (compare-and-swap). Returns
	// true when the transition applied. This is the sole guard against
	// double-processing under concurrent or redundant callback delivery, so
	// it must be a single atomic conditional update at the storage layer.
	TransitionStatus(ctx context.Context, refID string, expected, next domain.TransactionStatus) (bool, error)
}

// UserRepository defines the atomic account mutations.
type UserRepository interface {
	// GetByUserID fetches a user. Returns nil, nil when no record exists.
	GetByUserID(ctx context.Context, userID string) (*domain.User, error)

	// CreditBalance atomically adds amount to the user's balance and bumps
	// the transaction counter, returning the new balance. Only credits pass
	// through here, so the balance never goes negative.
	CreditBalance(ctx context.Context, userID string, amount int64) (int64, error)

	// IncrementTransactionCount bumps the counter after a product delivery.
	IncrementTransactionCount(ctx context.Context, userID string) error
}

// ProductRepository defines the atomic inventory mutations.
type ProductRepository interface {
	// GetByName fetches a product by its display name. Returns nil, nil when
	// no record exists.
	GetByName(ctx context.Context, name string) (*domain.Product, error)

	// PopContent atomically removes the head of the content queue,
	// decrements stock and increments the sold counter, returning the popped
	// unit. Returns ok=false with no mutation when the queue is empty.
	PopContent(ctx context.Context, id uuid.UUID) (content string, ok bool, err error)
}
