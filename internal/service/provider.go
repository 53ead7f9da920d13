package service

import (
	"strconv"
	"strings"
)

// Accepted field names per integration, in priority order. These replace the
// global fallback chains the old handlers shared: each provider enumerates
// exactly the fields its callbacks are known to carry, so an unrelated field
// can never be misread as an amount.
var (
	legacyRefFields    = []string{"ref_id", "ref_kode", "ref"}
	legacyAmountFields = []string{
		"total", "nominal", "jumlah", "amount",
		"total_amount", "paid_amount", "refNominal", "harga_bayar",
	}

	violetRefFields    = []string{"ref_kode"}
	violetAmountFields = []string{"nominal"}
)

const (
	statusField    = "status"
	signatureField = "signature"
)

// Normalized callback outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeExpired = "expired"
)

// LegacyProvider adapts the legacy integration: loose field aliases and the
// unkeyed MD5 scheme with its unsigned-callback leniency.
type LegacyProvider struct {
	scheme *LegacyMD5Scheme
}

// NewLegacyProvider creates the legacy provider adapter.
func NewLegacyProvider(secret string) *LegacyProvider {
	return &LegacyProvider{scheme: NewLegacyMD5Scheme(secret)}
}

func (p *LegacyProvider) Name() string { return "legacy" }

func (p *LegacyProvider) ExtractReference(fields map[string]string) string {
	return firstNonEmpty(fields, legacyRefFields)
}

func (p *LegacyProvider) ExtractAmount(fields map[string]string) (int64, bool) {
	return firstPositiveAmount(fields, legacyAmountFields)
}

func (p *LegacyProvider) ExtractStatus(fields map[string]string) string {
	return strings.ToLower(fields[statusField])
}

func (p *LegacyProvider) ExtractSignature(fields map[string]string) string {
	return fields[signatureField]
}

// VerifySignature ignores the amount; the legacy scheme does not bind it.
func (p *LegacyProvider) VerifySignature(refID string, _ int64, provided string) bool {
	return p.scheme.Verify(refID, provided)
}

func (p *LegacyProvider) AmountBound() bool { return false }

// SignatureBypassed exposes the leniency check so the engine can log it.
func (p *LegacyProvider) SignatureBypassed(provided string) bool {
	return p.scheme.Bypassed(provided)
}

// VioletProvider adapts the VioletPay integration: strict field names and
// the keyed, amount-bound HMAC scheme.
type VioletProvider struct {
	scheme *VioletHMACScheme
}

// NewVioletProvider creates the VioletPay provider adapter.
func NewVioletProvider(secret, apiKey string) *VioletProvider {
	return &VioletProvider{scheme: NewVioletHMACScheme(secret, apiKey)}
}

func (p *VioletProvider) Name() string { return "violetpay" }

func (p *VioletProvider) ExtractReference(fields map[string]string) string {
	return firstNonEmpty(fields, violetRefFields)
}

func (p *VioletProvider) ExtractAmount(fields map[string]string) (int64, bool) {
	return firstPositiveAmount(fields, violetAmountFields)
}

func (p *VioletProvider) ExtractStatus(fields map[string]string) string {
	return strings.ToLower(fields[statusField])
}

func (p *VioletProvider) ExtractSignature(fields map[string]string) string {
	return fields[signatureField]
}

func (p *VioletProvider) VerifySignature(refID string, amount int64, provided string) bool {
	return p.scheme.Verify(refID, amount, provided)
}

func (p *VioletProvider) AmountBound() bool { return true }

func firstNonEmpty(fields map[string]string, candidates []string) string {
	for _, key := range candidates {
		if v := strings.TrimSpace(fields[key]); v != "" {
			return v
		}
	}
	return ""
}

func firstPositiveAmount(fields map[string]string, candidates []string) (int64, bool) {
	for _, key := range candidates {
		v := strings.TrimSpace(fields[key])
		if v == "" {
			continue
		}
		if amount, ok := parseAmount(v); ok {
			return amount, true
		}
	}
	return 0, false
}

// parseAmount accepts integer amounts, tolerating a decimal rendering like
// "10000.00" that some providers emit. Non-positive values are rejected.
func parseAmount(s string) (int64, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > 0 {
			return n, true
		}
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int64(f), true
}
