package domain

import "time"

// User is a buyer account. Balance and TransactionCount are mutated only
// through the atomic increment operations on the user repository.
type User struct {
	UserID           string    `json:"user_id"` // Telegram chat ID
	Balance          int64     `json:"balance"` // In smallest currency unit (IDR)
	TransactionCount int64     `json:"transaction_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
