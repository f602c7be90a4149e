package api

import (
	"net/http"
	"strings"

	"github.com/fastprodman/storefront/internal/services/topup"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type orderRequest struct {
	UserID       string       `json:"userId"`
	Username     string       `json:"username"`
	Amount       textOrNumber `json:"amount"`
	LocalAmount  textOrNumber `json:"localAmount"`
	SenderNumber textOrNumber `json:"senderNumber"`
	Carrier      string       `json:"carrier"`
}

// CreateOrderHandler handles POST /api/orders
func (h *HandlerProvider) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req orderRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(string(req.Amount)))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	var local decimal.NullDecimal
	if s := strings.TrimSpace(string(req.LocalAmount)); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid localAmount")
			return
		}

		local = decimal.NewNullDecimal(d)
	}

	res, err := h.topups.Submit(r.Context(), topup.Submission{
		UserID:      req.UserID,
		Username:    req.Username,
		Amount:      amount,
		LocalAmount: local,
		Reference:   string(req.SenderNumber),
		Carrier:     req.Carrier,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	msg := "Order created"
	if res.AutoApproved {
		msg = "Order created and auto-approved"
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      msg,
		"orderId":      res.OrderID,
		"autoApproved": res.AutoApproved,
	})
}

// AdminOrdersHandler handles GET /api/admin/orders
func (h *HandlerProvider) AdminOrdersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.topups.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSlice(list, toOrderDTO))
}

// ApproveOrderHandler handles POST /api/admin/orders/{id}/approve
func (h *HandlerProvider) ApproveOrderHandler(w http.ResponseWriter, r *http.Request) {
	added, err := h.topups.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Success",
		"added":   money(added),
	})
}

// RejectOrderHandler handles POST /api/admin/orders/{id}/reject
func (h *HandlerProvider) RejectOrderHandler(w http.ResponseWriter, r *http.Request) {
	err := h.topups.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeMessage(w, "Order rejected")
}
