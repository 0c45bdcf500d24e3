package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", handler.Root)
		r.Get("/products", handler.ListProducts)
		r.Get("/products/category/{category}", handler.ListByCategory)
		r.Get("/products/{id}", handler.GetProduct)
	})
	return r
}
