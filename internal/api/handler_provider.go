package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fastprodman/storefront/internal/infra/logging"
	"github.com/fastprodman/storefront/internal/repos/notifications"
	"github.com/fastprodman/storefront/internal/repos/orders"
	"github.com/fastprodman/storefront/internal/repos/products"
	"github.com/fastprodman/storefront/internal/repos/purchases"
	stockrepo "github.com/fastprodman/storefront/internal/repos/stock"
	"github.com/fastprodman/storefront/internal/repos/users"
	"github.com/fastprodman/storefront/internal/services/balance"
	"github.com/fastprodman/storefront/internal/services/purchase"
	stocksvc "github.com/fastprodman/storefront/internal/services/stock"
	"github.com/fastprodman/storefront/internal/services/topup"
	"github.com/shopspring/decimal"
)

type PurchaseService interface {
	Purchase(ctx context.Context, req purchase.Request) (purchase.Result, error)
	Deliver(ctx context.Context, purchaseID int64, details string) error
	ListAll(ctx context.Context) ([]purchases.Purchase, error)
	ListRecent(ctx context.Context, userID string) ([]purchases.Purchase, error)
}

type TopUpService interface {
	Submit(ctx context.Context, s topup.Submission) (topup.SubmitResult, error)
	Approve(ctx context.Context, orderID string) (decimal.Decimal, error)
	Reject(ctx context.Context, orderID string) error
	List(ctx context.Context) ([]orders.Order, error)
}

type StockService interface {
	ListProducts(ctx context.Context) ([]products.Product, error)
	ListUnsold(ctx context.Context, productID string) ([]string, error)
	Add(ctx context.Context, productID string, lines []string) (int, error)
	Replace(ctx context.Context, productID string, lines []string) error
}

type BalanceService interface {
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	Stats(ctx context.Context, userID string) (balance.Stats, error)
	EnsureUser(ctx context.Context, u users.User) (users.User, error)
	ListUsers(ctx context.Context) ([]users.User, error)
	Adjust(ctx context.Context, adj balance.Adjustment) (decimal.Decimal, error)
}

type NotificationService interface {
	List(ctx context.Context, userID string) ([]notifications.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	Clear(ctx context.Context, userID string) error
}

type Services struct {
	Purchases     PurchaseService
	TopUps        TopUpService
	Stock         StockService
	Balance       BalanceService
	Notifications NotificationService
}

// HandlerProvider wraps the services and exposes HTTP handlers.
type HandlerProvider struct {
	purchases     PurchaseService
	topups        TopUpService
	stock         StockService
	balance       BalanceService
	notifications NotificationService
}

// NewHandler returns a new Handler provider.
func NewHandler(s Services) *HandlerProvider {
	return &HandlerProvider{
		purchases:     s.Purchases,
		topups:        s.TopUps,
		stock:         s.Stock,
		balance:       s.Balance,
		notifications: s.Notifications,
	}
}

// --- Helpers ---

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("empty body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}

		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// money renders amounts as JSON numbers with two fractional digits.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// User-facing texts shown by the storefront as-is.
const (
	msgInsufficientBalance = "رصيدك غير كافٍ لإتمام عملية الشراء."
	msgInsufficientStock   = "عذراً، لا يوجد مخزون كافٍ متبقي لهذا المنتج حالياً."
	msgDuplicateReference  = "عذراً، رقم الطلب هذا (Order ID) تم استخدامه مسبقاً لشحن الرصيد."
	msgVerificationFailed  = "لم يتم العثور على هذه العملية في Binance أو أن المبلغ غير متطابق. تأكد من رقم الطلب (Order ID)."
)

// fail maps service errors to status codes. Unknown errors are logged and hidden.
func (h *HandlerProvider) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, products.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, users.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, orders.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, purchases.ErrPurchaseNotFound):
		writeError(w, http.StatusNotFound, "Purchase not found")

	case errors.Is(err, users.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, msgInsufficientBalance)
	case errors.Is(err, stockrepo.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, msgInsufficientStock)
	case errors.Is(err, orders.ErrDuplicateReference):
		writeError(w, http.StatusBadRequest, msgDuplicateReference)
	case errors.Is(err, topup.ErrVerificationFailed):
		writeError(w, http.StatusBadRequest, msgVerificationFailed)

	case errors.Is(err, orders.ErrOrderNotPending):
		writeError(w, http.StatusConflict, "Order is not pending")
	case errors.Is(err, purchases.ErrPurchaseNotPending):
		writeError(w, http.StatusConflict, "Purchase is not awaiting delivery")

	case errors.Is(err, purchase.ErrInvalidQuantity),
		errors.Is(err, topup.ErrInvalidOrder),
		errors.Is(err, balance.ErrInvalidAmount),
		errors.Is(err, balance.ErrInvalidAction),
		errors.Is(err, balance.ErrMissingUserID),
		errors.Is(err, stocksvc.ErrNoStockItems):
		writeError(w, http.StatusBadRequest, err.Error())

	default:
		logging.FromContext(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
