package api

import (
	"net/http"

	"github.com/fastprodman/storefront/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter registers every storefront endpoint on a chi router.
func NewRouter(h *HandlerProvider, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProductsHandler)
		r.Route("/products/{id}/stock", func(r chi.Router) {
			r.Get("/", h.GetStockHandler)
			r.Post("/", h.AddStockHandler)
			r.Put("/", h.ReplaceStockHandler)
		})

		r.Post("/purchases", h.PurchaseHandler)
		r.Post("/orders", h.CreateOrderHandler)
		r.Post("/auth/discord", h.AuthDiscordHandler)

		r.Route("/user", func(r chi.Router) {
			r.Get("/balance/{id}", h.GetBalanceHandler)
			r.Get("/stats/{id}", h.GetStatsHandler)
			r.Get("/purchases/{id}", h.UserPurchasesHandler)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/{userId}", h.ListNotificationsHandler)
			r.Post("/read-all/{userId}", h.ReadAllNotificationsHandler)
			r.Delete("/clear/{userId}", h.ClearNotificationsHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/orders", h.AdminOrdersHandler)
			r.Post("/orders/{id}/approve", h.ApproveOrderHandler)
			r.Post("/orders/{id}/reject", h.RejectOrderHandler)
			r.Get("/purchases", h.AdminPurchasesHandler)
			r.Post("/purchases/{id}/deliver", h.DeliverPurchaseHandler)
			r.Get("/all-users", h.AllUsersHandler)
			r.Post("/users/update-balance", h.UpdateBalanceHandler)
		})
	})

	// The storefront pages are plain files served next to the API.
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
