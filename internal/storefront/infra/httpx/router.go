package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/karma-storefront/internal/storefront/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMeta)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Healthz)

	r.Get("/products", handler.Browse)
	r.Get("/products/category/{category}", handler.BrowseRemote)

	r.Post("/sessions", handler.CreateSession)
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Use(middlewares.AttachSessionID)
		r.Delete("/", handler.EndSession)
		r.Get("/cart", handler.GetCart)
		r.Delete("/cart", handler.ClearCart)
		r.Post("/cart/items", handler.AddItem)
		r.Put("/cart/items/{pid}", handler.SetQuantity)
		r.Delete("/cart/items/{pid}", handler.RemoveItem)
		r.Get("/karma-history", handler.KarmaHistory)
	})
	return r
}
