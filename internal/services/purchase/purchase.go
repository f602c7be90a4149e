package purchase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fastprodman/storefront/internal/infra/logging"
	"github.com/fastprodman/storefront/internal/infra/pgutils"
	"github.com/fastprodman/storefront/internal/repos/notifications"
	"github.com/fastprodman/storefront/internal/repos/products"
	pgproducts "github.com/fastprodman/storefront/internal/repos/products/postgres"
	"github.com/fastprodman/storefront/internal/repos/purchases"
	pgpurchases "github.com/fastprodman/storefront/internal/repos/purchases/postgres"
	"github.com/fastprodman/storefront/internal/repos/stock"
	pgstock "github.com/fastprodman/storefront/internal/repos/stock/postgres"
	"github.com/fastprodman/storefront/internal/repos/transactions"
	pgtransactions "github.com/fastprodman/storefront/internal/repos/transactions/postgres"
	"github.com/fastprodman/storefront/internal/repos/users"
	pgusers "github.com/fastprodman/storefront/internal/repos/users/postgres"
	"github.com/shopspring/decimal"
)

// PendingDetails is stored as order details until an admin delivers a non-instant purchase.
const PendingDetails = "جاري معالجة الطلب..."

const recentLimit = 5

var ErrInvalidQuantity = errors.New("invalid quantity")

type Notifier interface {
	Send(ctx context.Context, userID, title, message string, typ notifications.Type)
}

type Request struct {
	UserID       string
	Username     string
	ProductID    string
	ProductTitle string
	// ClientPrice is what the storefront displayed. It is never charged.
	ClientPrice decimal.Decimal
	Quantity    int
}

type Result struct {
	PurchaseID int64
	Total      decimal.Decimal
	NewBalance decimal.Decimal
	// Delivered holds the claimed stock contents joined by newlines; empty for non-instant products.
	Delivered string
	Instant   bool
}

type Manager struct {
	db          *sql.DB
	users       users.Users
	products    products.Products
	stock       stock.Stock
	purchases   purchases.Purchases
	txns        transactions.Transactions
	notifier    Notifier
	maxQuantity int
}

func New(db *sql.DB, notifier Notifier, maxQuantity int) *Manager {
	return &Manager{
		db:          db,
		users:       pgusers.New(db),
		products:    pgproducts.New(db),
		stock:       pgstock.New(db),
		purchases:   pgpurchases.New(db),
		txns:        pgtransactions.New(db),
		notifier:    notifier,
		maxQuantity: maxQuantity,
	}
}

// NormalizeQuantity maps a missing quantity to 1 and rejects values outside [1, max].
func NormalizeQuantity(qty, maxQuantity int) (int, error) {
	if qty == 0 {
		return 1, nil
	}

	if qty < 0 || qty > maxQuantity {
		return 0, fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidQuantity, qty, maxQuantity)
	}

	return qty, nil
}

// Purchase runs the whole sale in a single DB transaction:
//
// 1) Lock the product row. Claims for one product queue here.
// 2) Lock the user row and check the balance against price × quantity.
// 3) Claim stock for instant-delivery products.
// 4) Debit the balance.
// 5) Insert the purchase and its ledger entry.
//
// The notification is sent after commit.
func (m *Manager) Purchase(ctx context.Context, req Request) (Result, error) {
	qty, err := NormalizeQuantity(req.Quantity, m.maxQuantity)
	if err != nil {
		return Result{}, err
	}

	var (
		res     Result
		product products.Product
	)

	err = pgutils.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		var err error

		// 1) Product
		product, err = m.products.Lock(tx, req.ProductID)
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}

		// 2) User balance
		balance, err := m.users.LockAndGetBalance(tx, req.UserID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		total := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		if balance.LessThan(total) {
			return fmt.Errorf("pre-check decrease: %w", users.ErrInsufficientFunds)
		}

		// 3) Stock
		status := purchases.StatusProcessing
		details := PendingDetails

		if product.InstantDelivery {
			contents, err := m.stock.Claim(tx, product.ID, qty)
			if err != nil {
				return fmt.Errorf("claim stock: %w", err)
			}

			status = purchases.StatusCompleted
			details = strings.Join(contents, "\n")
			res.Delivered = details
		}

		// 4) Debit
		err = m.users.DecreaseBalance(tx, req.UserID, total)
		if err != nil {
			return fmt.Errorf("decrease balance: %w", err)
		}

		// 5) Records
		purchaseID, err := m.purchases.Insert(tx, purchases.Purchase{
			DiscordID:    req.UserID,
			Username:     req.Username,
			ProductID:    product.ID,
			ProductTitle: product.Title,
			Price:        total,
			Quantity:     qty,
			Status:       status,
			OrderDetails: details,
		})
		if err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}

		err = m.txns.Insert(tx, transactions.Transaction{
			ID:     transactions.ID(transactions.KindPurchase, strconv.FormatInt(purchaseID, 10)),
			UserID: req.UserID,
			Kind:   transactions.KindPurchase,
			Amount: total.Neg(),
		})
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		res.PurchaseID = purchaseID
		res.Total = total
		res.NewBalance = balance.Sub(total)
		res.Instant = product.InstantDelivery

		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("purchase: %w", err)
	}

	log := logging.FromContext(ctx)
	if !req.ClientPrice.IsZero() && !req.ClientPrice.Equal(product.Price) && !req.ClientPrice.Equal(res.Total) {
		log.Debug("client price differs from catalog price",
			"product_id", product.ID, "client_price", req.ClientPrice.String(), "price", product.Price.String())
	}
	log.Info("purchase completed",
		"purchase_id", res.PurchaseID, "user_id", req.UserID, "product_id", product.ID,
		"quantity", qty, "total", res.Total.StringFixed(2))

	m.notifyPurchase(ctx, req.UserID, product.Title, res)

	return res, nil
}

func (m *Manager) notifyPurchase(ctx context.Context, userID, title string, res Result) {
	if res.Instant {
		m.notifier.Send(ctx, userID, "تمت عملية الشراء بنجاح 🚀",
			fmt.Sprintf("تم شراء منتج \"%s\" بنجاح بقيمة $%s. تسليم فوري: \n%s", title, res.Total.StringFixed(2), res.Delivered),
			notifications.TypeSuccess)

		return
	}

	m.notifier.Send(ctx, userID, "تم استلام طلبك بنجاح",
		fmt.Sprintf("تم شراء منتج \"%s\" بنجاح بقيمة $%s. سيتم معالجة طلبك قريباً.", title, res.Total.StringFixed(2)),
		notifications.TypeSuccess)
}
