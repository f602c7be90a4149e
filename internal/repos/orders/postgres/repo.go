package orders

import (
	"database/sql"

	"github.com/fastprodman/storefront/internal/repos/orders"
)

var _ orders.Orders = (*ordersRepo)(nil)

const referenceConstraint = "topup_orders_verified_reference_key"

const orderColumns = `
	id, discord_id, username, amount, local_amount, COALESCE(sender_number, ''),
	carrier, status, created_at, decided_at
`

type ordersRepo struct{ db *sql.DB }

func New(db *sql.DB) *ordersRepo {
	return &ordersRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (orders.Order, error) {
	var (
		o         orders.Order
		decidedAt sql.NullTime
	)

	err := row.Scan(&o.ID, &o.DiscordID, &o.Username, &o.Amount, &o.LocalAmount, &o.SenderNumber,
		&o.Carrier, &o.Status, &o.CreatedAt, &decidedAt)
	if err != nil {
		return orders.Order{}, err
	}

	if decidedAt.Valid {
		o.DecidedAt = &decidedAt.Time
	}

	return o, nil
}
