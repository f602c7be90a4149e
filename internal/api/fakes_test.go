package api

import (
	"context"

	"github.com/fastprodman/storefront/internal/repos/notifications"
	"github.com/fastprodman/storefront/internal/repos/orders"
	"github.com/fastprodman/storefront/internal/repos/products"
	"github.com/fastprodman/storefront/internal/repos/purchases"
	"github.com/fastprodman/storefront/internal/repos/users"
	"github.com/fastprodman/storefront/internal/services/balance"
	"github.com/fastprodman/storefront/internal/services/purchase"
	"github.com/fastprodman/storefront/internal/services/topup"
	"github.com/shopspring/decimal"
)

type fakePurchases struct {
	lastReq     purchase.Request
	purchaseRes purchase.Result
	purchaseErr error

	deliveredID      int64
	deliveredDetails string
	deliverErr       error

	list []purchases.Purchase
}

func (f *fakePurchases) Purchase(_ context.Context, req purchase.Request) (purchase.Result, error) {
	f.lastReq = req
	return f.purchaseRes, f.purchaseErr
}

func (f *fakePurchases) Deliver(_ context.Context, id int64, details string) error {
	f.deliveredID = id
	f.deliveredDetails = details

	return f.deliverErr
}

func (f *fakePurchases) ListAll(context.Context) ([]purchases.Purchase, error) {
	return f.list, nil
}

func (f *fakePurchases) ListRecent(context.Context, string) ([]purchases.Purchase, error) {
	return f.list, nil
}

type fakeTopUps struct {
	lastSubmission topup.Submission
	submitRes      topup.SubmitResult
	submitErr      error

	approved   decimal.Decimal
	approveErr error
	rejectErr  error

	list []orders.Order
}

func (f *fakeTopUps) Submit(_ context.Context, s topup.Submission) (topup.SubmitResult, error) {
	f.lastSubmission = s
	return f.submitRes, f.submitErr
}

func (f *fakeTopUps) Approve(context.Context, string) (decimal.Decimal, error) {
	return f.approved, f.approveErr
}

func (f *fakeTopUps) Reject(context.Context, string) error {
	return f.rejectErr
}

func (f *fakeTopUps) List(context.Context) ([]orders.Order, error) {
	return f.list, nil
}

type fakeStock struct {
	products []products.Product
	unsold   []string

	lastProduct string
	lastLines   []string
	added       int
	err         error
}

func (f *fakeStock) ListProducts(context.Context) ([]products.Product, error) {
	return f.products, f.err
}

func (f *fakeStock) ListUnsold(_ context.Context, productID string) ([]string, error) {
	f.lastProduct = productID
	return f.unsold, f.err
}

func (f *fakeStock) Add(_ context.Context, productID string, lines []string) (int, error) {
	f.lastProduct = productID
	f.lastLines = lines

	return f.added, f.err
}

func (f *fakeStock) Replace(_ context.Context, productID string, lines []string) error {
	f.lastProduct = productID
	f.lastLines = lines

	return f.err
}

type fakeBalance struct {
	balance decimal.Decimal
	stats   balance.Stats
	users   []users.User
	err     error

	lastUser       users.User
	lastAdjustment balance.Adjustment
}

func (f *fakeBalance) GetBalance(context.Context, string) (decimal.Decimal, error) {
	return f.balance, f.err
}

func (f *fakeBalance) Stats(context.Context, string) (balance.Stats, error) {
	return f.stats, f.err
}

func (f *fakeBalance) EnsureUser(_ context.Context, u users.User) (users.User, error) {
	f.lastUser = u
	if f.err != nil {
		return users.User{}, f.err
	}

	u.Balance = f.balance

	return u, nil
}

func (f *fakeBalance) ListUsers(context.Context) ([]users.User, error) {
	return f.users, f.err
}

func (f *fakeBalance) Adjust(_ context.Context, adj balance.Adjustment) (decimal.Decimal, error) {
	f.lastAdjustment = adj
	return f.balance, f.err
}

type fakeNotifications struct {
	list    []notifications.Notification
	cleared string
	read    string
}

func (f *fakeNotifications) List(context.Context, string) ([]notifications.Notification, error) {
	return f.list, nil
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, userID string) error {
	f.read = userID
	return nil
}

func (f *fakeNotifications) Clear(_ context.Context, userID string) error {
	f.cleared = userID
	return nil
}

type fakes struct {
	purchases     *fakePurchases
	topups        *fakeTopUps
	stock         *fakeStock
	balance       *fakeBalance
	notifications *fakeNotifications
}

func newFakes() *fakes {
	return &fakes{
		purchases:     &fakePurchases{},
		topups:        &fakeTopUps{},
		stock:         &fakeStock{},
		balance:       &fakeBalance{},
		notifications: &fakeNotifications{},
	}
}

func (f *fakes) services() Services {
	return Services{
		Purchases:     f.purchases,
		TopUps:        f.topups,
		Stock:         f.stock,
		Balance:       f.balance,
		Notifications: f.notifications,
	}
}
