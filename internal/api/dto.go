package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fastprodman/storefront/internal/repos/notifications"
	"github.com/fastprodman/storefront/internal/repos/orders"
	"github.com/fastprodman/storefront/internal/repos/products"
	"github.com/fastprodman/storefront/internal/repos/purchases"
	"github.com/fastprodman/storefront/internal/repos/users"
)

// textOrNumber accepts a JSON string or number, keeping the literal digits.
// Payment references are long numeric ids that do not survive float64.
type textOrNumber string

func (t *textOrNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = ""
		return nil
	}

	var s string
	if len(b) > 0 && b[0] == '"' {
		err := json.Unmarshal(b, &s)
		if err != nil {
			return err
		}
		*t = textOrNumber(s)

		return nil
	}

	var n json.Number

	err := json.Unmarshal(b, &n)
	if err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*t = textOrNumber(n)

	return nil
}

type productDTO struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Category        string      `json:"category"`
	Price           json.Number `json:"price"`
	Image           string      `json:"image,omitempty"`
	Description     string      `json:"description,omitempty"`
	Badge           string      `json:"badge,omitempty"`
	InstantDelivery bool        `json:"instant_delivery"`
	StockCount      int         `json:"stock_count"`
}

func toProductDTO(p products.Product) productDTO {
	return productDTO{
		ID:              p.ID,
		Title:           p.Title,
		Category:        p.Category,
		Price:           money(p.Price),
		Image:           p.Image,
		Description:     p.Description,
		Badge:           p.Badge,
		InstantDelivery: p.InstantDelivery,
		StockCount:      p.StockCount,
	}
}

type purchaseDTO struct {
	ID           int64       `json:"id"`
	DiscordID    string      `json:"discord_id"`
	Username     string      `json:"username"`
	ProductID    string      `json:"product_id"`
	ProductTitle string      `json:"product_title"`
	Price        json.Number `json:"price"`
	Quantity     int         `json:"quantity"`
	Status       string      `json:"status"`
	OrderDetails string      `json:"order_details"`
	CreatedAt    time.Time   `json:"created_at"`
	DeliveredAt  *time.Time  `json:"delivered_at,omitempty"`
}

func toPurchaseDTO(p purchases.Purchase) purchaseDTO {
	return purchaseDTO{
		ID:           p.ID,
		DiscordID:    p.DiscordID,
		Username:     p.Username,
		ProductID:    p.ProductID,
		ProductTitle: p.ProductTitle,
		Price:        money(p.Price),
		Quantity:     p.Quantity,
		Status:       string(p.Status),
		OrderDetails: p.OrderDetails,
		CreatedAt:    p.CreatedAt,
		DeliveredAt:  p.DeliveredAt,
	}
}

type orderDTO struct {
	ID           string       `json:"id"`
	DiscordID    string       `json:"discord_id"`
	Username     string       `json:"username"`
	Amount       json.Number  `json:"amount"`
	LocalAmount  *json.Number `json:"local_amount"`
	SenderNumber string       `json:"sender_number"`
	Carrier      string       `json:"carrier"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	DecidedAt    *time.Time   `json:"decided_at,omitempty"`
}

func toOrderDTO(o orders.Order) orderDTO {
	out := orderDTO{
		ID:           o.ID,
		DiscordID:    o.DiscordID,
		Username:     o.Username,
		Amount:       money(o.Amount),
		SenderNumber: o.SenderNumber,
		Carrier:      o.Carrier,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		DecidedAt:    o.DecidedAt,
	}

	if o.LocalAmount.Valid {
		la := money(o.LocalAmount.Decimal)
		out.LocalAmount = &la
	}

	return out
}

type userDTO struct {
	DiscordID string      `json:"discord_id"`
	Username  string      `json:"username"`
	Email     string      `json:"email,omitempty"`
	Avatar    string      `json:"avatar,omitempty"`
	Balance   json.Number `json:"balance"`
	CreatedAt time.Time   `json:"created_at"`
}

func toUserDTO(u users.User) userDTO {
	return userDTO{
		DiscordID: u.DiscordID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Balance:   money(u.Balance),
		CreatedAt: u.CreatedAt,
	}
}

type notificationDTO struct {
	ID        int64     `json:"id"`
	DiscordID string    `json:"discord_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationDTO(n notifications.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		DiscordID: n.DiscordID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}

	return out
}
