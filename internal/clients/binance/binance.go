// Package binance verifies Binance Pay transfers against the account's pay history.
package binance

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fastprodman/storefront/internal/config"
	"github.com/fastprodman/storefront/internal/infra/logging"
	"github.com/shopspring/decimal"
)

const (
	historyPath = "/sapi/v1/pay/transactions"
	successCode = "000000"
	maxBody     = 4 << 20
)

type Verifier struct {
	cfg    config.BinanceConfig
	client *http.Client
	now    func() time.Time
}

// defaultTimeout bounds provider calls when the configured timeout is not positive.
const defaultTimeout = 10 * time.Second

func New(cfg config.BinanceConfig) *Verifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Verifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}
}

// Verify reports whether the pay history holds a transfer identified by reference
// (as order id or transaction id) for at least expected. Any failure yields false.
func (v *Verifier) Verify(ctx context.Context, reference string, expected decimal.Decimal) bool {
	log := logging.FromContext(ctx).With("reference", reference, "expected", expected.String())

	if v.cfg.APIKey == "" || v.cfg.SecretKey == "" {
		log.Warn("binance credentials missing, cannot verify")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	history, err := v.fetchHistory(ctx)
	if err != nil {
		log.Warn("binance history request failed", "error", err)
		return false
	}

	if history.Code != successCode {
		log.Warn("binance history rejected", "code", history.Code, "message", history.Message)
		return false
	}

	for _, tx := range history.Data {
		if string(tx.OrderID) != reference && string(tx.TransactionID) != reference {
			continue
		}

		log.Info("binance transfer found", "amount", tx.Amount.String(), "currency", tx.Currency)

		return tx.Amount.GreaterThanOrEqual(expected)
	}

	log.Info("binance transfer not found", "checked", len(history.Data))

	return false
}

func (v *Verifier) fetchHistory(ctx context.Context) (historyResponse, error) {
	var out historyResponse

	query := v.signedQuery()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(v.cfg.BaseURL, "/")+historyPath+"?"+query, nil)
	if err != nil {
		return out, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", v.cfg.APIKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return out, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	err = json.Unmarshal(body, &out)
	if err != nil {
		return out, fmt.Errorf("decode history: %w", err)
	}

	return out, nil
}

// signedQuery backdates the timestamp by ClockSkew so that a local clock running
// slightly ahead of Binance does not get the request rejected.
func (v *Verifier) signedQuery() string {
	ts := v.now().Add(-v.cfg.ClockSkew).UnixMilli()

	q := "timestamp=" + strconv.FormatInt(ts, 10) +
		"&recvWindow=" + strconv.FormatInt(v.cfg.RecvWindow.Milliseconds(), 10)

	return q + "&signature=" + url.QueryEscape(Sign(v.cfg.SecretKey, q))
}

// Sign returns the hex HMAC-SHA256 of payload.
func Sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))

	return hex.EncodeToString(mac.Sum(nil))
}

type historyResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Data    []transaction `json:"data"`
}

type transaction struct {
	OrderID       idString        `json:"orderId"`
	TransactionID idString        `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// idString accepts both JSON strings and numbers.
type idString string

func (s *idString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var str string

		err := json.Unmarshal(b, &str)
		if err != nil {
			return err
		}
		*s = idString(str)

		return nil
	}

	var n json.Number

	err := json.Unmarshal(b, &n)
	if err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*s = idString(n.String())

	return nil
}
