package integration

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"payment-callback-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentCallbacks_SingleCredit fires many identical success
// callbacks for one transaction in parallel. The status compare-and-swap
// must let exactly one of them credit the balance.
func TestConcurrentCallbacks_SingleCredit(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.seedUser("2001", 0)
	app.seedTransaction("TOPUP-CONC", "2001", 10000, domain.ItemTypeTopup, "")

	form := url.Values{
		"ref_id":    {"TOPUP-CONC"},
		"total":     {"10000"},
		"status":    {"success"},
		"signature": {legacySignature("TOPUP-CONC")},
	}
	payload := form.Encode()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			resp, err := http.Post(app.server.URL+"/callback/payment",
				"application/x-www-form-urlencoded", strings.NewReader(payload))
			if err == nil {
				resp.Body.Close()
				assert.Equal(t, 200, resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	u, _ := app.userRepo.GetByUserID(context.Background(), "2001")
	assert.Equal(t, int64(10000), u.Balance, "balance must be credited exactly once")
	assert.Equal(t, int64(1), app.userRepo.credits(), "exactly one callback may win the transition")
	assert.Equal(t, domain.TransactionStatusSuccess, app.txRepo.get("TOPUP-CONC").Status)
	assert.Len(t, app.notifier.sent(), 1)
}

// TestConcurrentCallbacks_DistinctContentUnits delivers two different
// product orders concurrently and checks that each buyer receives a
// distinct content unit.
func TestConcurrentCallbacks_DistinctContentUnits(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	productID := uuid.New()
	app.products.put(&domain.Product{
		ID:       productID,
		Name:     "VPN Account",
		Contents: []string{"vpn-1:pw", "vpn-2:pw"},
		Stock:    2,
	})
	app.seedUser("3001", 0)
	app.seedUser("3002", 0)
	app.seedTransaction("PROD-A1", "3001", 15000, domain.ItemTypeProduct, "VPN Account")
	app.seedTransaction("PROD-A2", "3002", 15000, domain.ItemTypeProduct, "VPN Account")

	refs := []string{"PROD-A1", "PROD-A2"}
	var wg sync.WaitGroup
	wg.Add(len(refs))
	for _, ref := range refs {
		go func(ref string) {
			defer wg.Done()
			form := url.Values{
				"ref_id":    {ref},
				"total":     {"15000"},
				"status":    {"success"},
				"signature": {legacySignature(ref)},
			}
			resp, err := http.Post(app.server.URL+"/callback/payment",
				"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
			if err == nil {
				resp.Body.Close()
			}
		}(ref)
	}
	wg.Wait()

	p, _ := app.products.GetByName(context.Background(), "VPN Account")
	require.NotNil(t, p)
	assert.Empty(t, p.Contents, "both units must have been handed out")
	assert.Equal(t, int64(0), p.Stock)

	messages := app.notifier.sent()
	require.Len(t, messages, 2)
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, "vpn-1:pw")
	assert.Contains(t, joined, "vpn-2:pw")
}
