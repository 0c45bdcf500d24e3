package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/jcmexdev/karma-storefront/internal/pkg/errx"
	"github.com/jcmexdev/karma-storefront/internal/storefront/app"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/cart"
	"github.com/jcmexdev/karma-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/karma-storefront/internal/storefront/session"
)

// Handler exposes the storefront service over HTTP.
type Handler struct {
	store *app.Storefront
}

func NewHandler(store *app.Storefront) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Browse lists the catalog, filtered locally by the optional ?category=.
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Browse(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCatalog(c))
}

// BrowseRemote lists a category as filtered by the product source.
func (h *Handler) BrowseRemote(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.BrowseRemote(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(products))
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	view := h.store.StartSession(r.Context())
	writeJSON(w, http.StatusCreated, mapCart(&view))
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.EndSession(r.Context(), chi.URLParam(r, "sid")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r)(h.store.Cart(r.Context(), chi.URLParam(r, "sid")))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r)(h.store.ClearCart(r.Context(), chi.URLParam(r, "sid")))
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), false)
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "product_id is required", false)
		return
	}
	h.respondCart(w, r)(h.store.AddToCart(r.Context(), chi.URLParam(r, "sid"), req.ProductID))
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), false)
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity is required", false)
		return
	}
	h.respondCart(w, r)(h.store.SetQuantity(r.Context(), chi.URLParam(r, "sid"), chi.URLParam(r, "pid"), *req.Quantity))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r)(h.store.RemoveFromCart(r.Context(), chi.URLParam(r, "sid"), chi.URLParam(r, "pid")))
}

func (h *Handler) KarmaHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.KarmaHistory(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapHistory(entries))
}

func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request) func(*app.CartView, error) {
	return func(view *app.CartView, err error) {
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, mapCart(view))
	}
}

// fail maps domain errors to HTTP responses. Unknown errors are logged and
// reported as a generic 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *errx.AppError
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", "session does not exist or has expired", false)
	case errors.Is(err, ports.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", "product not found", false)
	case errors.Is(err, cart.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not be negative", false)
	case errors.As(err, &appErr):
		slog.WarnContext(r.Context(), "request failed", "path", r.URL.Path, "code", appErr.Code, "error", err)
		writeError(w, appErr.Status, appErr.Code, appErr.Message, appErr.Retryable)
	case r.Context().Err() != nil:
		// the shopper went away; nobody reads this response
		slog.InfoContext(r.Context(), "request abandoned by client", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "request_cancelled", "", false)
	default:
		slog.ErrorContext(r.Context(), "unexpected error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, errx.CodeInternal, errx.SystemErrorMessage, false)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string, retryable bool) {
	writeJSON(w, status, ErrorResponse{
		Error:     code,
		Message:   msg,
		Retryable: retryable,
	})
}
