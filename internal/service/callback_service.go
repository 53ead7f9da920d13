package service

import (
	"context"
	"fmt"
	"time"

	"payment-callback-gateway/internal/core/domain"
	"payment-callback-gateway/internal/core/ports"
	"payment-callback-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// resolvedTTL bounds how long a terminal outcome stays in the fast-path
// cache. Provider redelivery stops well within this window.
const resolvedTTL = 24 * time.Hour

// ResolutionService resolves provider callbacks for one integration:
// verify signature, reconcile the claimed amount against the trusted stored
// amount, transition status exactly once, dispatch delivery, notify buyer.
type ResolutionService struct {
	provider    ports.Provider
	txRepo      ports.TransactionRepository
	userRepo    ports.UserRepository
	productRepo ports.ProductRepository
	resolved    ports.ResolvedCache // nil = fast path disabled
	notifier    ports.Notifier
	log         zerolog.Logger
}

// NewResolutionService creates a resolution engine bound to one provider
// adapter. All persistence and notification handles are injected; the
// engine owns only the transition decision.
func NewResolutionService(
	provider ports.Provider,
	txRepo ports.TransactionRepository,
	userRepo ports.UserRepository,
	productRepo ports.ProductRepository,
	resolved ports.ResolvedCache,
	notifier ports.Notifier,
	log zerolog.Logger,
) *ResolutionService {
	return &ResolutionService{
		provider:    provider,
		txRepo:      txRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		resolved:    resolved,
		notifier:    notifier,
		log:         log,
	}
}

// Resolve processes one decoded callback. A non-nil return means the
// callback was structurally invalid (rejected before any read or write);
// every other path returns nil so the provider receives its acknowledgment
// and stops redelivering. Internal failures are logged, never surfaced.
func (s *ResolutionService) Resolve(ctx context.Context, fields map[string]string) error {
	ref := s.provider.ExtractReference(fields)
	if !domain.ValidReference(ref) {
		return apperror.ErrMissingReference()
	}
	outcome := s.provider.ExtractStatus(fields)
	if outcome == "" {
		return apperror.ErrMissingFields("status")
	}

	log := s.log.With().
		Str("provider", s.provider.Name()).
		Str("ref_id", ref).
		Str("callback_status", outcome).
		Logger()

	// Fast path: refs already recorded as terminal skip the DB entirely.
	// Best-effort only — the status CAS below is the real guard.
	if s.resolved != nil {
		st, err := s.resolved.Get(ctx, ref)
		if err != nil {
			log.Warn().Err(err).Msg("resolved cache check failed, falling through to DB")
		} else if st != "" {
			log.Info().Str("status", st).Msg("callback for resolved transaction, ignored")
			return nil
		}
	}

	tx, err := s.txRepo.GetByReference(ctx, ref)
	if err != nil {
		log.Error().Err(err).Msg("transaction lookup failed, callback acknowledged without processing")
		return nil
	}
	if tx == nil {
		log.Info().Msg("callback for unknown transaction, ignored")
		return nil
	}
	if tx.IsTerminal() {
		log.Info().Str("status", string(tx.Status)).Msg("transaction already resolved, ignored")
		s.markResolved(ctx, log, ref, tx.Status)
		return nil
	}

	claimed, hasClaimed := s.provider.ExtractAmount(fields)
	signature := s.provider.ExtractSignature(fields)

	// Verify against the trusted stored amount first. A signature that only
	// matches the claimed amount is authentic but mismatched: it must not be
	// dropped as a forgery, it must drive the reconciliation-failure path.
	// Crediting always uses the stored amount, so a claimed-amount signature
	// can never change what is credited.
	authentic := s.provider.VerifySignature(ref, tx.Amount, signature)
	if !authentic && s.provider.AmountBound() && hasClaimed && claimed != tx.Amount {
		authentic = s.provider.VerifySignature(ref, claimed, signature)
	}
	if !authentic {
		log.Warn().Msg("invalid callback signature, no state mutated")
		return nil
	}
	if lp, ok := s.provider.(*LegacyProvider); ok && lp.SignatureBypassed(signature) {
		log.Warn().Msg("unsigned callback accepted under legacy leniency")
	}

	switch outcome {
	case OutcomeSuccess:
		if !hasClaimed || claimed != tx.Amount {
			s.failAmountMismatch(ctx, log, tx, claimed)
			return nil
		}
		s.resolveSuccess(ctx, log, tx)
	case OutcomeFailed:
		s.resolveTerminal(ctx, log, tx, domain.TransactionStatusFailed)
	case OutcomeExpired:
		s.resolveTerminal(ctx, log, tx, domain.TransactionStatusExpired)
	default:
		log.Warn().Msg("unrecognized callback status, ignored")
	}
	return nil
}

// failAmountMismatch handles an authentic success callback whose claimed
// amount disagrees with the trusted stored amount: the transaction fails,
// it is never credited.
func (s *ResolutionService) failAmountMismatch(ctx context.Context, log zerolog.Logger, tx *domain.Transaction, claimed int64) {
	log.Warn().
		Int64("stored_amount", tx.Amount).
		Int64("claimed_amount", claimed).
		Msg("amount mismatch, failing transaction")

	matched, err := s.txRepo.TransitionStatus(ctx, tx.RefID, domain.TransactionStatusPending, domain.TransactionStatusFailed)
	if err != nil {
		log.Error().Err(err).Msg("mismatch transition failed")
		return
	}
	if !matched {
		log.Info().Msg("mismatch transition lost the race, no-op")
		return
	}
	s.markResolved(ctx, log, tx.RefID, domain.TransactionStatusFailed)
	s.notify(ctx, log, tx.UserID, msgAmountMismatch(tx, claimed))
}

// resolveSuccess applies the PENDING→SUCCESS transition and, only if this
// call won the transition, performs delivery. Delivery is not in the same
// atomic unit as the transition: a failure after the CAS leaves a resolved
// but undelivered transaction that needs manual reconciliation, which is
// logged as such rather than masked.
func (s *ResolutionService) resolveSuccess(ctx context.Context, log zerolog.Logger, tx *domain.Transaction) {
	matched, err := s.txRepo.TransitionStatus(ctx, tx.RefID, domain.TransactionStatusPending, domain.TransactionStatusSuccess)
	if err != nil {
		log.Error().Err(err).Msg("success transition failed, callback acknowledged without delivery")
		return
	}
	if !matched {
		log.Info().Msg("transition already applied by a concurrent callback, no-op")
		return
	}
	log.Info().Msg("transaction resolved as SUCCESS")
	s.markResolved(ctx, log, tx.RefID, domain.TransactionStatusSuccess)

	switch tx.ItemType {
	case domain.ItemTypeTopup:
		s.deliverTopup(ctx, log, tx)
	case domain.ItemTypeProduct:
		s.deliverProduct(ctx, log, tx)
	default:
		log.Error().Str("item_type", string(tx.ItemType)).Msg("unknown item type, manual reconciliation required")
	}
}

// resolveTerminal applies a failed/expired outcome and tells the buyer.
func (s *ResolutionService) resolveTerminal(ctx context.Context, log zerolog.Logger, tx *domain.Transaction, next domain.TransactionStatus) {
	matched, err := s.txRepo.TransitionStatus(ctx, tx.RefID, domain.TransactionStatusPending, next)
	if err != nil {
		log.Error().Err(err).Str("next", string(next)).Msg("terminal transition failed")
		return
	}
	if !matched {
		log.Info().Str("next", string(next)).Msg("terminal transition lost the race, no-op")
		return
	}
	log.Info().Str("status", string(next)).Msg("transaction resolved")
	s.markResolved(ctx, log, tx.RefID, next)
	s.notify(ctx, log, tx.UserID, msgPaymentNotCompleted(tx, next))
}

func (s *ResolutionService) deliverTopup(ctx context.Context, log zerolog.Logger, tx *domain.Transaction) {
	newBalance, err := s.userRepo.CreditBalance(ctx, tx.UserID, tx.Amount)
	if err != nil {
		log.Error().Err(err).
			Str("user_id", tx.UserID).
			Int64("amount", tx.Amount).
			Msg("balance credit failed after status transition, manual reconciliation required")
		return
	}
	log.Info().
		Str("user_id", tx.UserID).
		Int64("amount", tx.Amount).
		Int64("new_balance", newBalance).
		Msg("balance credited")
	s.notify(ctx, log, tx.UserID, msgTopupSuccess(tx.Amount, newBalance))
}

func (s *ResolutionService) deliverProduct(ctx context.Context, log zerolog.Logger, tx *domain.Transaction) {
	product, err := s.productRepo.GetByName(ctx, tx.ProductName)
	if err != nil {
		log.Error().Err(err).Str("product", tx.ProductName).Msg("product lookup failed after status transition, manual reconciliation required")
		return
	}
	if product == nil {
		log.Error().Str("product", tx.ProductName).Msg("product missing at delivery time")
		s.notify(ctx, log, tx.UserID, msgProductMissing(tx))
		return
	}

	content, ok, err := s.productRepo.PopContent(ctx, product.ID)
	if err != nil {
		log.Error().Err(err).Str("product", tx.ProductName).Msg("content pop failed after status transition, manual reconciliation required")
		return
	}
	if !ok {
		// Payment already settled externally; the transaction stays SUCCESS
		// and the stock shortfall is surfaced as an operational alert.
		log.Warn().Str("product", tx.ProductName).Msg("product out of stock at delivery time")
		s.notify(ctx, log, tx.UserID, msgOutOfStock(tx))
		return
	}

	if err := s.userRepo.IncrementTransactionCount(ctx, tx.UserID); err != nil {
		log.Warn().Err(err).Str("user_id", tx.UserID).Msg("transaction counter increment failed")
	}
	log.Info().Str("product", tx.ProductName).Str("user_id", tx.UserID).Msg("product delivered")
	s.notify(ctx, log, tx.UserID, msgProductDelivered(product.Name, content))
}

// markResolved records a terminal outcome in the fast-path cache.
func (s *ResolutionService) markResolved(ctx context.Context, log zerolog.Logger, ref string, status domain.TransactionStatus) {
	if s.resolved == nil {
		return
	}
	if err := s.resolved.Set(ctx, ref, string(status), resolvedTTL); err != nil {
		log.Warn().Err(err).Msg("failed to record resolved status in cache")
	}
}

// notify delivers the outcome message, best-effort. Exactly one outcome
// notification is attempted per resolved transaction; a failure here is
// logged and never re-processed.
func (s *ResolutionService) notify(ctx context.Context, log zerolog.Logger, userID, text string) {
	if err := s.notifier.Send(ctx, userID, text); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("buyer notification failed")
	}
}

// ---- Buyer-facing messages ----

func msgTopupSuccess(amount, newBalance int64) string {
	return fmt.Sprintf("Top-up successful! Rp %d has been added to your balance.\nCurrent balance: Rp %d.", amount, newBalance)
}

func msgProductDelivered(productName, content string) string {
	return fmt.Sprintf("Payment successful! Your product has been delivered.\n\nProduct: %s\nYour content:\n`%s`", productName, content)
}

func msgOutOfStock(tx *domain.Transaction) string {
	return fmt.Sprintf("Payment received, but the product you bought ran out of stock. Please contact the admin. (Ref: %s)", tx.RefID)
}

func msgProductMissing(tx *domain.Transaction) string {
	return fmt.Sprintf("Payment received, but product %q could not be found for delivery. Please contact the admin. (Ref: %s)", tx.ProductName, tx.RefID)
}

func msgAmountMismatch(tx *domain.Transaction, claimed int64) string {
	return fmt.Sprintf("Payment failed: amount mismatch (expected Rp %d, received Rp %d). Please contact the admin. (Ref: %s)", tx.Amount, claimed, tx.RefID)
}

func msgPaymentNotCompleted(tx *domain.Transaction, status domain.TransactionStatus) string {
	return fmt.Sprintf("Your payment was not completed: status %s for Rp %d. (Ref: %s)", status, tx.Amount, tx.RefID)
}
