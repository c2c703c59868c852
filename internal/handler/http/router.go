package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(withdrawals *WithdrawalHandler, admin *AdminHandler, authToken string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Auth(authToken))

		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", withdrawals.Create)
			r.Get("/", withdrawals.List)
			r.Post("/quote", withdrawals.Quote)
			r.Post("/sync", withdrawals.Sync)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", withdrawals.Get)
				r.Post("/approve", withdrawals.Approve)
				r.Post("/authorize", withdrawals.Authorize)
				r.Post("/resend-otp", withdrawals.ResendOTP)
				r.Post("/decline", withdrawals.Decline)
				r.Post("/reverse", withdrawals.Reverse)
				r.Post("/refresh", withdrawals.Refresh)
			})
		})

		r.Get("/savings", admin.ListSavings)
		r.Get("/savings/{id}/transactions", admin.ListTransactions)
		r.Get("/transactions/{id}", admin.GetTransaction)

		r.Post("/contributions", admin.RecordContribution)
		r.Get("/settings/fees", admin.GetFeeSettings)
		r.Put("/settings/fees", admin.UpdateFeeSettings)
		if admin.banks != nil {
			r.Get("/banks", admin.ListBanks)
		}
	})

	return r
}
