package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/goodfood/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса GOODFOOD.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	if len(h.allowedOrigins) > 0 {
		r.Use(custommiddleware.CORS(h.allowedOrigins))
	}
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/plans", h.ListPlans)
		r.Get("/plans/{id}", h.GetPlan)

		r.Group(func(r chi.Router) {
			r.Use(h.sessionMiddleware.Middleware)

			r.Route("/session", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Post("/navigate", h.Navigate)
				r.Post("/order", h.RequestOrder)
				r.Post("/auth-modal", h.OpenAuth)
				r.Delete("/auth-modal", h.CloseAuth)
			})

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", h.Login)
				r.Post("/register", h.Register)
				r.Post("/logout", h.Logout)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/quote", h.Quote)
				r.Post("/", h.SubmitCheckout)
				r.Delete("/", h.CancelCheckout)
				r.Post("/confirm", h.ConfirmOrder)
				r.Post("/done", h.FinishCheckout)
			})

			r.Get("/account", h.GetAccount)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
