package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemType distinguishes what a successful payment releases.
type ItemType string

const (
	ItemTypeTopup   ItemType = "TOPUP"   // credits the buyer's balance
	ItemTypeProduct ItemType = "PRODUCT" // releases one unit of digital content
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
	TransactionStatusExpired TransactionStatus = "EXPIRED"
)

// Reference ID prefixes assigned by the order-placement flow.
const (
	RefPrefixProduct = "PROD-"
	RefPrefixTopup   = "TOPUP-"
)

// Transaction is a pending order awaiting its payment-provider callback.
// RefID is the idempotency key. Amount is the trusted amount computed when
// the order was placed — it is authoritative over anything a callback claims,
// for both signature reconciliation and crediting.
type Transaction struct {
	ID          uuid.UUID         `json:"id"`
	RefID       string            `json:"ref_id"`
	UserID      string            `json:"user_id"` // Telegram chat ID of the buyer
	Amount      int64             `json:"amount"`  // In smallest currency unit (IDR)
	ItemType    ItemType          `json:"item_type"`
	ProductName string            `json:"product_name,omitempty"` // set for PRODUCT orders
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	ProcessedAt *time.Time        `json:"processed_at,omitempty"`
}

// IsTerminal returns true if the transaction is in a final state.
// Terminal transactions must never transition again or trigger side effects.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusSuccess ||
		t.Status == TransactionStatusFailed ||
		t.Status == TransactionStatusExpired
}

// ValidReference reports whether ref matches one of the reference-id shapes
// the order flow generates. Callbacks carrying anything else are rejected
// before any state is read.
func ValidReference(ref string) bool {
	if ref == "" {
		return false
	}
	return strings.HasPrefix(ref, RefPrefixProduct) || strings.HasPrefix(ref, RefPrefixTopup)
}
