package service

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // MD5 is the legacy provider's wire contract
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// minLegacySignatureLen is the threshold below which the legacy provider's
// callbacks are treated as unsigned. The provider omits the signature on
// some statuses, so shorter values bypass verification. Bypasses are logged
// by the engine so they stay visible.
const minLegacySignatureLen = 5

// LegacyMD5Scheme implements the legacy provider's signature:
// MD5(secret ‖ refID), lowercase hex. The amount is not bound.
type LegacyMD5Scheme struct {
	secret string
}

// NewLegacyMD5Scheme creates the legacy signature scheme.
func NewLegacyMD5Scheme(secret string) *LegacyMD5Scheme {
	return &LegacyMD5Scheme{secret: secret}
}

// Sign computes the expected signature for refID.
func (s *LegacyMD5Scheme) Sign(refID string) string {
	sum := md5.Sum([]byte(s.secret + refID)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// Verify checks provided against the expected digest. An absent or
// too-short signature bypasses verification (accepted).
// Uses constant-time comparison to prevent timing attacks.
func (s *LegacyMD5Scheme) Verify(refID string, provided string) bool {
	if s.Bypassed(provided) {
		return true
	}
	expected := s.Sign(refID)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// Bypassed reports whether provided falls under the unsigned-callback
// leniency.
func (s *LegacyMD5Scheme) Bypassed(provided string) bool {
	return len(provided) < minLegacySignatureLen
}

// VioletHMACScheme implements VioletPay's keyed signature:
// HMAC-SHA256(secret, refID ‖ apiKey ‖ amount), lowercase hex.
type VioletHMACScheme struct {
	secret string
	apiKey string
}

// NewVioletHMACScheme creates the VioletPay signature scheme.
func NewVioletHMACScheme(secret, apiKey string) *VioletHMACScheme {
	return &VioletHMACScheme{secret: secret, apiKey: apiKey}
}

// Sign computes the expected signature for (refID, amount).
func (s *VioletHMACScheme) Sign(refID string, amount int64) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(refID + s.apiKey + strconv.FormatInt(amount, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks provided against the expected digest for (refID, amount).
// Uses constant-time comparison to prevent timing attacks.
func (s *VioletHMACScheme) Verify(refID string, amount int64, provided string) bool {
	expected := s.Sign(refID, amount)
	return hmac.Equal([]byte(expected), []byte(provided))
}
