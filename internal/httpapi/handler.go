// Package httpapi exposes the cart engine over HTTP for the surrounding
// application. Handlers translate between JSON DTOs and the service's
// operations; all cart semantics live below this layer.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/polygon-agro/marketplace-cart/internal/cart"
	"github.com/polygon-agro/marketplace-cart/internal/client"
	"github.com/polygon-agro/marketplace-cart/internal/domain"
	"github.com/polygon-agro/marketplace-cart/internal/order"
	"github.com/polygon-agro/marketplace-cart/internal/service"
)

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// Routes mounts the cart endpoints on a chi router.
func (h *CartHandler) Routes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Put("/items/{item_id}", h.UpdateQuantity)
		r.Delete("/items/{item_id}", h.RemoveItem)
		r.Patch("/summary", h.PatchSummary)
	})
	r.Post("/checkout", h.Checkout)
}

type UpdateQuantityRequestDTO struct {
	Quantity float64 `json:"quantity"`
	ItemType string  `json:"itemType"`
}

type CheckoutRequestDTO struct {
	PaymentMethod string                 `json:"paymentMethod"`
	Checkout      domain.CheckoutDetails `json:"checkout"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	token := getAuthToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	view, err := h.svc.GetCart(r.Context(), getUserID(r.Context()), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	token := getAuthToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	itemID := chi.URLParam(r, "item_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
		return
	}

	err := h.svc.UpdateQuantity(r.Context(), getUserID(r.Context()), token, itemID, req.Quantity, domain.ItemType(req.ItemType))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.svc.View(getUserID(r.Context())))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	token := getAuthToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	itemID := chi.URLParam(r, "item_id")
	itemType := domain.ItemType(r.URL.Query().Get("type"))
	if itemType == "" {
		itemType = domain.ItemTypeAdditional
	}

	err := h.svc.RemoveItem(r.Context(), getUserID(r.Context()), token, itemID, itemType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.svc.View(getUserID(r.Context())))
}

func (h *CartHandler) PatchSummary(w http.ResponseWriter, r *http.Request) {
	var patch domain.SummaryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	h.svc.PatchSummary(getUserID(r.Context()), patch)
	respondJSON(w, http.StatusOK, h.svc.View(getUserID(r.Context())))
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	token := getAuthToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.svc.Checkout(r.Context(), getUserID(r.Context()), token, domain.PaymentMethod(req.PaymentMethod), req.Checkout)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if !result.Validation.IsValid {
		respondJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// handleServiceError maps engine errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, client.ErrMissingAuthToken) || errors.Is(err, order.ErrMissingAuthToken):
		respondError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, cart.ErrPackageQuantityFixed):
		respondError(w, http.StatusUnprocessableEntity, "package_quantity_fixed", err.Error())
	case errors.Is(err, order.ErrOrderRejected):
		respondError(w, http.StatusUnprocessableEntity, "order_rejected", err.Error())
	case errors.Is(err, order.ErrNoResponse):
		respondError(w, http.StatusGatewayTimeout, "no_response", err.Error())
	case errors.Is(err, order.ErrSubmissionFailed):
		respondError(w, http.StatusBadGateway, "submission_failed", err.Error())
	default:
		respondError(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}
