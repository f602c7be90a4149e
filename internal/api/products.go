package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type stockRequest struct {
	StockItems []string `json:"stockItems"`
}

// ListProductsHandler handles GET /api/products
func (h *HandlerProvider) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.stock.ListProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapSlice(list, toProductDTO))
}

// GetStockHandler handles GET /api/products/{id}/stock
func (h *HandlerProvider) GetStockHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.stock.ListUnsold(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if items == nil {
		items = []string{}
	}

	writeJSON(w, http.StatusOK, items)
}

// AddStockHandler handles POST /api/products/{id}/stock
func (h *HandlerProvider) AddStockHandler(w http.ResponseWriter, r *http.Request) {
	lines, ok := decodeStockLines(w, r, true)
	if !ok {
		return
	}

	n, err := h.stock.Add(r.Context(), chi.URLParam(r, "id"), lines)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Stock added successfully",
		"count":   n,
	})
}

// ReplaceStockHandler handles PUT /api/products/{id}/stock
func (h *HandlerProvider) ReplaceStockHandler(w http.ResponseWriter, r *http.Request) {
	// A missing list clears the unsold stock.
	lines, ok := decodeStockLines(w, r, false)
	if !ok {
		return
	}

	err := h.stock.Replace(r.Context(), chi.URLParam(r, "id"), lines)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeMessage(w, "Stock updated successfully")
}

func decodeStockLines(w http.ResponseWriter, r *http.Request, required bool) ([]string, bool) {
	var req stockRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		if errors.Is(err, errEmptyBody) {
			writeError(w, http.StatusBadRequest, "empty body")
			return nil, false
		}

		writeError(w, http.StatusBadRequest, "invalid JSON body")

		return nil, false
	}

	if required && req.StockItems == nil {
		writeError(w, http.StatusBadRequest, "stockItems is required")
		return nil, false
	}

	// Pasted text sometimes arrives as a single element with embedded newlines.
	var lines []string
	for _, item := range req.StockItems {
		lines = append(lines, strings.Split(strings.ReplaceAll(item, "\r\n", "\n"), "\n")...)
	}

	return lines, true
}
