package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polygon-agro/marketplace-cart/internal/cache"
	"github.com/polygon-agro/marketplace-cart/internal/client"
	"github.com/polygon-agro/marketplace-cart/internal/domain"
	"github.com/polygon-agro/marketplace-cart/internal/order"
	"github.com/polygon-agro/marketplace-cart/internal/service"
)

const cartPayload = `{
	"cartId": "cart-77",
	"packages": [{"id":"pkg-1","cartItemId":"line-9","name":"Family Pack","price":4500,"lines":[{"id":"pl-1","name":"Potatoes","quantity":2}]}],
	"additionalItems": [{"name":"vegetables","items":[
		{"id":"item-1","cartItemId":"line-1","unit":"g","quantity":56,"price":615.44,"discount":112},
		{"id":"item-2","cartItemId":"line-2","unit":"kg","quantity":2,"price":240}
	]}],
	"summary": {"grandTotal": 4980, "couponDiscount": 20}
}`

const cartPayloadB = `{
	"cartId": "cart-88",
	"additionalItems": [{"name":"fruits","items":[
		{"id":"item-9","cartItemId":"line-90","unit":"unit","quantity":4,"price":120}
	]}],
	"summary": {"grandTotal": 480}
}`

// fakeBackend serves the cart API and the order endpoint for handler
// tests. Carts are keyed by bearer token.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer token-b" {
			w.Write([]byte(cartPayloadB))
			return
		}
		w.Write([]byte(cartPayload))
	})
	mux.HandleFunc("PUT /cart/items/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("DELETE /cart/items/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"orderId":"ord-1"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// missCache misses on every read so handler tests always exercise the
// fetch path.
type missCache struct{}

func (missCache) Get(context.Context, string) (*domain.FetchedCart, error) {
	return nil, cache.ErrCacheMiss
}
func (missCache) Set(context.Context, string, *domain.FetchedCart) error { return nil }
func (missCache) Delete(context.Context, string) error                   { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	backend := fakeBackend(t)

	api := client.NewCartAPI(backend.Client(), backend.URL)
	submitter := order.NewSubmitter(backend.Client(), backend.URL+"/orders")
	svc := service.NewCartService(api, missCache{}, submitter)

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(AuthMiddleware)
	r.Route("/api/v1", NewCartHandler(svc).Routes)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body []byte, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if authed {
		req.Header.Set("Authorization", "Bearer token-1")
		req.Header.Set("X-User-ID", "user-1")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetCart_ReturnsUnifiedView(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.CartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "cart-77", view.CartID)
	assert.Len(t, view.Items, 3)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func doRequestAs(t *testing.T, h http.Handler, method, path string, body []byte, userID, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-User-ID", userID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetCart_SeparateCartsPerUser(t *testing.T) {
	router := newTestRouter(t)

	recA := doRequestAs(t, router, http.MethodGet, "/api/v1/cart", nil, "user-a", "token-a")
	require.Equal(t, http.StatusOK, recA.Code)
	recB := doRequestAs(t, router, http.MethodGet, "/api/v1/cart", nil, "user-b", "token-b")
	require.Equal(t, http.StatusOK, recB.Code)

	var viewB service.CartView
	require.NoError(t, json.NewDecoder(recB.Body).Decode(&viewB))
	assert.Equal(t, "cart-88", viewB.CartID)

	// A mutation on user A's cart answers with A's cart, not B's.
	body := []byte(`{"quantity": 5, "itemType": "additional"}`)
	recMut := doRequestAs(t, router, http.MethodPut, "/api/v1/cart/items/item-1", body, "user-a", "token-a")
	require.Equal(t, http.StatusOK, recMut.Code)

	var viewA service.CartView
	require.NoError(t, json.NewDecoder(recMut.Body).Decode(&viewA))
	assert.Equal(t, "cart-77", viewA.CartID)
	assert.Len(t, viewA.Items, 3)
}

func TestGetCart_Unauthorized(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateQuantity_EndToEnd(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, true)

	body := []byte(`{"quantity": 100, "itemType": "additional"}`)
	rec := doRequest(t, router, http.MethodPut, "/api/v1/cart/items/item-1", body, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.CartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	for _, item := range view.Items {
		if item.ID == "item-1" {
			assert.Equal(t, 100.0, item.Quantity)
		}
	}
}

func TestUpdateQuantity_InvalidQuantity(t *testing.T) {
	router := newTestRouter(t)

	body := []byte(`{"quantity": 0, "itemType": "additional"}`)
	rec := doRequest(t, router, http.MethodPut, "/api/v1/cart/items/item-1", body, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuantity_PackageRejected(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, true)

	body := []byte(`{"quantity": 2, "itemType": "package"}`)
	rec := doRequest(t, router, http.MethodPut, "/api/v1/cart/items/pkg-1", body, true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "package_quantity_fixed", resp.Code)
}

func TestRemoveItem_EndToEnd(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, true)

	rec := doRequest(t, router, http.MethodDelete, "/api/v1/cart/items/pkg-1?type=package", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.CartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Len(t, view.Items, 2)
}

func TestCheckout_ValidationFailure(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, true)

	body := []byte(`{"paymentMethod": "card", "checkout": {}}`)
	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", body, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var result service.CheckoutResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.False(t, result.Validation.IsValid)
	assert.NotEmpty(t, result.Validation.Errors)
}

func TestCheckout_Success(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, true)

	body := []byte(`{
		"paymentMethod": "cash",
		"checkout": {
			"deliveryMethod": "pickup",
			"title": "Mr",
			"fullName": "Kasun Perera",
			"phoneCode1": "+94",
			"phone1": "771234567",
			"deliveryDate": "2026-09-01",
			"timeSlot": "08:00-12:00"
		}
	}`)
	rec := doRequest(t, router, http.MethodPost, "/api/v1/checkout", body, true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result service.CheckoutResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.True(t, result.Validation.IsValid)
}

func TestPatchSummary(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodGet, "/api/v1/cart", nil, true)

	body := []byte(`{"grandTotal": 4200}`)
	rec := doRequest(t, router, http.MethodPatch, "/api/v1/cart/summary", body, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.CartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	require.NotNil(t, view.Summary)
	assert.Equal(t, 4200.0, view.Summary.GrandTotal)
}
