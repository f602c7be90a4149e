package api

import (
	"net/http"
	"strings"

	"github.com/fastprodman/storefront/internal/repos/users"
	"github.com/fastprodman/storefront/internal/services/balance"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type authRequest struct {
	ID       textOrNumber `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Avatar   string       `json:"avatar"`
}

type updateBalanceRequest struct {
	DiscordID textOrNumber `json:"discord_id"`
	Amount    textOrNumber `json:"amount"`
	Action    string       `json:"action"`
}

type userSummary struct {
	DiscordID string `json:"discord_id"`
	Username  string `json:"username"`
	Balance   any    `json:"balance"`
	Avatar    string `json:"avatar"`
}

// GetBalanceHandler handles GET /api/user/balance/{id}
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	bal, err := h.balance.GetBalance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balance": money(bal)})
}

// GetStatsHandler handles GET /api/user/stats/{id}
func (h *HandlerProvider) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	st, err := h.balance.Stats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"balance":       money(st.Balance),
		"total_orders":  st.TotalOrders,
		"total_reviews": st.TotalReviews,
		"status":        st.Status,
	})
}

// AuthDiscordHandler handles POST /api/auth/discord
func (h *HandlerProvider) AuthDiscordHandler(w http.ResponseWriter, r *http.Request) {
	var req authRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.balance.EnsureUser(r.Context(), users.User{
		DiscordID: strings.TrimSpace(string(req.ID)),
		Username:  req.Username,
		Email:     req.Email,
		Avatar:    req.Avatar,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(u)})
}

// AllUsersHandler handles GET /api/admin/all-users
func (h *HandlerProvider) AllUsersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.balance.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSlice(list, func(u users.User) userSummary {
		return userSummary{
			DiscordID: u.DiscordID,
			Username:  u.Username,
			Balance:   money(u.Balance),
			Avatar:    u.Avatar,
		}
	}))
}

// UpdateBalanceHandler handles POST /api/admin/users/update-balance
func (h *HandlerProvider) UpdateBalanceHandler(w http.ResponseWriter, r *http.Request) {
	var req updateBalanceRequest

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

	bal, err := h.balance.Adjust(r.Context(), balance.Adjustment{
		UserID: strings.TrimSpace(string(req.DiscordID)),
		Amount: amount,
		Action: balance.Action(strings.ToLower(strings.TrimSpace(req.Action))),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Balance updated successfully",
		"balance": money(bal),
	})
}
