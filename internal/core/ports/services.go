package ports

import (
	"context"
	"time"
)

// Provider adapts one payment-provider integration: which body fields carry
// the reference, amount and status, and how its signature scheme works.
// Field lists are explicit and provider-scoped; there is no global fallback
// chain shared between integrations.
type Provider interface {
	// Name identifies the integration in logs.
	Name() string

	// ExtractReference returns the first non-empty reference candidate, or
	// "" when none of the provider's accepted fields is present.
	ExtractReference(fields map[string]string) string

	// ExtractAmount returns the first positive amount candidate. ok is false
	// when no accepted field parses to a positive value.
	ExtractAmount(fields map[string]string) (amount int64, ok bool)

	// ExtractStatus returns the provider's status string, lowercased.
	ExtractStatus(fields map[string]string) string

	// ExtractSignature returns the provided signature, "" when absent.
	ExtractSignature(fields map[string]string) string

	// VerifySignature reports whether provided authenticates (refID, amount)
	// under this provider's scheme. Schemes that do not bind the amount
	// ignore it. Never panics, never errors; constant-time compare inside.
	VerifySignature(refID string, amount int64, provided string) bool

	// AmountBound reports whether the scheme binds the amount into the
	// signature, which enables the claimed-amount reverification path.
	AmountBound() bool
}

// CallbackService resolves one decoded provider callback. A non-nil error
// means the callback was structurally invalid and must be rejected with a
// client-error status before any state was touched; every other outcome —
// including signature rejections, stale references and internal failures —
// returns nil so the transport always acknowledges with a success status.
type CallbackService interface {
	Resolve(ctx context.Context, fields map[string]string) error
}

// Notifier delivers a human-readable outcome message to a buyer.
// Best-effort: callers log failures and move on.
type Notifier interface {
	Send(ctx context.Context, userID string, text string) error
}

// ResolvedCache is a best-effort fast path recording terminal outcomes so
// redundant redeliveries can short-circuit before hitting the database. The
// status CAS remains the source of truth; cache errors are never fatal.
type ResolvedCache interface {
	// Get returns the recorded terminal status for refID, "" when unknown.
	Get(ctx context.Context, refID string) (string, error)
	// Set records refID's terminal status with a TTL.
	Set(ctx context.Context, refID string, status string, ttl time.Duration) error
}
