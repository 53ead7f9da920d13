package postgres

import (
	"context"
	"errors"
	"fmt"

	"payment-callback-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// GetByUserID fetches a user by their chat ID. Returns (nil, nil) when the
// user does not exist.
func (r *UserRepo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT user_id, balance, transaction_count, created_at, updated_at
		FROM users WHERE user_id = $1`

	u := &domain.User{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&u.UserID, &u.Balance, &u.TransactionCount, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// CreditBalance adds amount to the user's balance and bumps their
// transaction counter in one statement, returning the new balance.
func (r *UserRepo) CreditBalance(ctx context.Context, userID string, amount int64) (int64, error) {
	query := `UPDATE users SET balance = balance + $2, transaction_count = transaction_count + 1, updated_at = NOW()
		WHERE user_id = $1 RETURNING balance`

	var balance int64
	err := r.pool.QueryRow(ctx, query, userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("credit balance: user not found: %s", userID)
		}
		return 0, fmt.Errorf("credit balance: %w", err)
	}
	return balance, nil
}

// IncrementTransactionCount bumps the user's completed-purchase counter.
func (r *UserRepo) IncrementTransactionCount(ctx context.Context, userID string) error {
	query := `UPDATE users SET transaction_count = transaction_count + 1, updated_at = NOW() WHERE user_id = $1`

	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("increment transaction count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("increment transaction count: user not found: %s", userID)
	}
	return nil
}
