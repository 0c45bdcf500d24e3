package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/jcmexdev/karma-storefront/internal/storefront/core/ports"
)

// Handler serves the product source API from any ports.ProductSource.
type Handler struct {
	source ports.ProductSource
}

func NewHandler(source ports.ProductSource) *Handler {
	return &Handler{source: source}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Root answers GET /api/ with the service banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Ethical Shopping Karma API"})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.source.ListProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.source.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.source.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ports.ErrProductNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Product not found"})
		return
	}
	slog.ErrorContext(r.Context(), "catalog read failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
