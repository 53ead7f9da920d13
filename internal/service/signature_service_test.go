package service

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func legacyDigest(secret, refID string) string {
	sum := md5.Sum([]byte(secret + refID)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

func violetDigest(secret, apiKey, refID string, amount string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(refID + apiKey + amount))
	return hex.EncodeToString(mac.Sum(nil))
}

// ==================== LegacyMD5Scheme Tests ====================

func TestLegacyMD5Scheme_Sign(t *testing.T) {
	s := NewLegacyMD5Scheme("topsecret")
	assert.Equal(t, legacyDigest("topsecret", "TOPUP-001"), s.Sign("TOPUP-001"))
}

func TestLegacyMD5Scheme_Verify(t *testing.T) {
	s := NewLegacyMD5Scheme("topsecret")

	tests := []struct {
		name     string
		refID    string
		provided string
		want     bool
	}{
		{"valid signature", "TOPUP-001", legacyDigest("topsecret", "TOPUP-001"), true},
		{"wrong ref", "TOPUP-002", legacyDigest("topsecret", "TOPUP-001"), false},
		{"wrong secret", "TOPUP-001", legacyDigest("other", "TOPUP-001"), false},
		{"garbage of full length", "TOPUP-001", "definitely-not-a-digest-but-long", false},
		{"empty signature bypasses", "TOPUP-001", "", true},
		{"short signature bypasses", "TOPUP-001", "abcd", true},
		{"five chars does not bypass", "TOPUP-001", "abcde", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Verify(tt.refID, tt.provided))
		})
	}
}

func TestLegacyMD5Scheme_Bypassed(t *testing.T) {
	s := NewLegacyMD5Scheme("topsecret")
	assert.True(t, s.Bypassed(""))
	assert.True(t, s.Bypassed("abcd"))
	assert.False(t, s.Bypassed("abcde"))
	assert.False(t, s.Bypassed(legacyDigest("topsecret", "TOPUP-001")))
}

// ==================== VioletHMACScheme Tests ====================

func TestVioletHMACScheme_Sign(t *testing.T) {
	s := NewVioletHMACScheme("secret", "apikey")
	assert.Equal(t, violetDigest("secret", "apikey", "PROD-001", "10000"), s.Sign("PROD-001", 10000))
}

func TestVioletHMACScheme_Verify(t *testing.T) {
	s := NewVioletHMACScheme("secret", "apikey")
	valid := violetDigest("secret", "apikey", "PROD-001", "10000")

	tests := []struct {
		name     string
		refID    string
		amount   int64
		provided string
		want     bool
	}{
		{"valid signature", "PROD-001", 10000, valid, true},
		{"wrong amount", "PROD-001", 9999, valid, false},
		{"wrong ref", "PROD-002", 10000, valid, false},
		{"wrong api key", "PROD-001", 10000, violetDigest("secret", "other", "PROD-001", "10000"), false},
		{"empty signature is rejected, never bypassed", "PROD-001", 10000, "", false},
		{"short garbage is rejected", "PROD-001", 10000, "abcd", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Verify(tt.refID, tt.amount, tt.provided))
		})
	}
}
