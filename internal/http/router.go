package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/batchpos/internal/http/auth"
	"github.com/MrJamesThe3rd/batchpos/internal/http/batch"
	"github.com/MrJamesThe3rd/batchpos/internal/http/dashboard"
	"github.com/MrJamesThe3rd/batchpos/internal/http/importcsv"
	"github.com/MrJamesThe3rd/batchpos/internal/http/product"
	"github.com/MrJamesThe3rd/batchpos/internal/http/transaction"
)

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables bearer token checks on /api/v1 when non-empty.
	JWTSecret string
}

func New(
	opts Options,
	productsV1 *product.Handler,
	importV1 *importcsv.Handler,
	transactionsV1 *transaction.Handler,
	batchesV1 *batch.Handler,
	dashboardV1 *dashboard.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(auth.Middleware([]byte(opts.JWTSecret)))
		}

		r.Route("/products", func(r chi.Router) {
			r.Route("/import", func(r chi.Router) {
				r.Use(middleware.AllowContentType("multipart/form-data"))
				importV1.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				productsV1.Routes(r)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/batches", batchesV1.Routes)
		r.Route("/dashboard", dashboardV1.Routes)
	})

	return router
}
