package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment-callback-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// GetByReference fetches a transaction by its provider reference ID.
// Returns (nil, nil) when no transaction carries that reference.
func (r *TransactionRepo) GetByReference(ctx context.Context, refID string) (*domain.Transaction, error) {
	query := `SELECT id, ref_id, user_id, amount, item_type, product_name, status, created_at, processed_at
		FROM transactions WHERE ref_id = $1`

	t := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, refID).Scan(
		&t.ID, &t.RefID, &t.UserID, &t.Amount,
		&t.ItemType, &t.ProductName, &t.Status,
		&t.CreatedAt, &t.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by reference: %w", err)
	}
	return t, nil
}

// TransitionStatus atomically moves a transaction from expected to next.
// The conditional UPDATE is the idempotency guard: of any number of
// concurrent callbacks for the same reference, exactly one matches a row.
func (r *TransactionRepo) TransitionStatus(ctx context.Context, refID string, expected, next domain.TransactionStatus) (bool, error) {
	query := `UPDATE transactions SET status = $3, processed_at = $4 WHERE ref_id = $1 AND status = $2`

	tag, err := r.pool.Exec(ctx, query, refID, expected, next, time.Now())
	if err != nil {
		return false, fmt.Errorf("transition transaction status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
