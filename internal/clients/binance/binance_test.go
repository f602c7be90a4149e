package binance

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fastprodman/storefront/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historyOK = `{
	"code": "000000",
	"message": "success",
	"data": [
		{"orderType": "C2C", "transactionId": "M_P_71505104267788288", "amount": "25.5", "currency": "USDT"},
		{"orderType": "PAY", "orderId": 123456789012345678, "transactionId": "P_A1", "amount": "10", "currency": "USDT"},
		{"orderType": "PAY", "orderId": "999", "amount": 3.25, "currency": "USDT"}
	],
	"success": true
}`

func newVerifier(t *testing.T, handler http.HandlerFunc) *Verifier {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(config.BinanceConfig{
		APIKey:     "key",
		SecretKey:  "secret",
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		RecvWindow: 10 * time.Second,
		ClockSkew:  3 * time.Second,
	})
}

func serve(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestVerify_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		reference string
		expected  string
		want      bool
	}{
		{name: "numeric_order_id_exact_amount", body: historyOK, reference: "123456789012345678", expected: "10", want: true},
		{name: "transaction_id_overpaid", body: historyOK, reference: "M_P_71505104267788288", expected: "20", want: true},
		{name: "numeric_amount_field", body: historyOK, reference: "999", expected: "3.25", want: true},
		{name: "underpaid", body: historyOK, reference: "123456789012345678", expected: "10.01", want: false},
		{name: "unknown_reference", body: historyOK, reference: "42", expected: "1", want: false},
		{name: "error_code", body: `{"code":"-1021","message":"Timestamp outside recvWindow"}`, reference: "999", expected: "1", want: false},
		{name: "garbage_body", body: `<html>oops</html>`, reference: "999", expected: "1", want: false},
		{name: "success_without_data", body: `{"code":"000000"}`, reference: "999", expected: "1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := newVerifier(t, serve(tt.body))
			got := v.Verify(t.Context(), tt.reference, decimal.RequireFromString(tt.expected))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerify_SignsRequest(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1_700_000_000_000)

	var seen atomic.Pointer[http.Request]
	v := newVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Clone(r.Context()))
		serve(historyOK)(w, r)
	})
	v.now = func() time.Time { return now }

	require.True(t, v.Verify(t.Context(), "P_A1", decimal.NewFromInt(10)))

	r := seen.Load()
	require.NotNil(t, r)
	assert.Equal(t, historyPath, r.URL.Path)
	assert.Equal(t, "key", r.Header.Get("X-MBX-APIKEY"))

	q := r.URL.Query()
	assert.Equal(t, strconv.FormatInt(now.Add(-3*time.Second).UnixMilli(), 10), q.Get("timestamp"))
	assert.Equal(t, "10000", q.Get("recvWindow"))

	payload := "timestamp=" + q.Get("timestamp") + "&recvWindow=10000"
	assert.Equal(t, Sign("secret", payload), q.Get("signature"))
}

func TestVerify_FailsClosed(t *testing.T) {
	t.Parallel()

	t.Run("missing_credentials", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		v := newVerifier(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			serve(historyOK)(w, r)
		})
		v.cfg.SecretKey = ""

		assert.False(t, v.Verify(t.Context(), "P_A1", decimal.NewFromInt(1)))
		assert.Zero(t, calls.Load())
	})

	t.Run("server_error", func(t *testing.T) {
		t.Parallel()

		v := newVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "down", http.StatusBadGateway)
		})
		assert.False(t, v.Verify(t.Context(), "P_A1", decimal.NewFromInt(1)))
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		v := newVerifier(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)
		v.cfg.Timeout = 100 * time.Millisecond
		v.client.Timeout = 100 * time.Millisecond

		start := time.Now()
		assert.False(t, v.Verify(t.Context(), "P_A1", decimal.NewFromInt(1)))
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}

func TestSign_KnownVector(t *testing.T) {
	t.Parallel()

	// Example from the Binance signed endpoint documentation.
	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"
	payload := "symbol=LTCBTC&side=BUY&type=LIMIT&timeInForce=GTC&quantity=1&price=0.1&recvWindow=5000&timestamp=1499827319559"

	assert.Equal(t, "c8db56825ae71d6d79447849e617115f4a920fa2acdcab2b053c4b2838bd6b71", Sign(secret, payload))
}

func TestNew_NonPositiveTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	for _, timeout := range []time.Duration{0, -time.Second} {
		v := New(config.BinanceConfig{Timeout: timeout})

		assert.Equal(t, defaultTimeout, v.cfg.Timeout)
		assert.Equal(t, defaultTimeout, v.client.Timeout)
	}

	v := New(config.BinanceConfig{Timeout: 3 * time.Second})
	assert.Equal(t, 3*time.Second, v.client.Timeout)
}
