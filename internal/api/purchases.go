package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fastprodman/storefront/internal/services/purchase"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type purchaseRequest struct {
	DiscordID    string       `json:"discord_id"`
	Username     string       `json:"username"`
	ProductID    string       `json:"product_id"`
	ProductTitle string       `json:"product_title"`
	Price        textOrNumber `json:"price"`
	Quantity     textOrNumber `json:"quantity"`
}

type purchaseResponse struct {
	Message        string  `json:"message"`
	NewBalance     any     `json:"newBalance"`
	DeliveredItems *string `json:"deliveredItems,omitempty"`
}

type deliverRequest struct {
	OrderDetails string `json:"order_details"`
}

// PurchaseHandler handles POST /api/purchases
func (h *HandlerProvider) PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.DiscordID == "" || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "discord_id and product_id are required")
		return
	}

	qty := 0
	if s := strings.TrimSpace(string(req.Quantity)); s != "" {
		qty, err = strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid quantity")
			return
		}
	}

	// The displayed price is informational only; a malformed one is ignored.
	clientPrice, _ := decimal.NewFromString(strings.TrimSpace(string(req.Price)))

	res, err := h.purchases.Purchase(r.Context(), purchase.Request{
		UserID:       req.DiscordID,
		Username:     req.Username,
		ProductID:    req.ProductID,
		ProductTitle: req.ProductTitle,
		ClientPrice:  clientPrice,
		Quantity:     qty,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := purchaseResponse{
		Message:    "Purchase successful",
		NewBalance: money(res.NewBalance),
	}
	if res.Instant {
		resp.DeliveredItems = &res.Delivered
	}

	writeJSON(w, http.StatusOK, resp)
}

// UserPurchasesHandler handles GET /api/user/purchases/{id}
func (h *HandlerProvider) UserPurchasesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.purchases.ListRecent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSlice(list, toPurchaseDTO))
}

// AdminPurchasesHandler handles GET /api/admin/purchases
func (h *HandlerProvider) AdminPurchasesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.purchases.ListAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSlice(list, toPurchaseDTO))
}

// DeliverPurchaseHandler handles POST /api/admin/purchases/{id}/deliver
func (h *HandlerProvider) DeliverPurchaseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}

	var req deliverRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.OrderDetails) == "" {
		writeError(w, http.StatusBadRequest, "order_details is required")
		return
	}

	err = h.purchases.Deliver(r.Context(), id, req.OrderDetails)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeMessage(w, "Purchase delivered successfully")
}
