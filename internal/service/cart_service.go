// Package service wires the cart store, the backend client, the cache and
// the checkout pipeline into the engine's public operations.
package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/polygon-agro/marketplace-cart/internal/cache"
	"github.com/polygon-agro/marketplace-cart/internal/cart"
	"github.com/polygon-agro/marketplace-cart/internal/client"
	"github.com/polygon-agro/marketplace-cart/internal/domain"
	"github.com/polygon-agro/marketplace-cart/internal/order"
)

// OrderSubmitter is the service's view of the order endpoint.
type OrderSubmitter interface {
	Submit(ctx context.Context, token string, payload *domain.OrderPayload) ([]byte, error)
}

// CartView is what consumers render: the unified item list plus the
// advisory summary from the last fetch or patch.
type CartView struct {
	CartID  string               `json:"cartId"`
	Items   []domain.UnifiedItem `json:"items"`
	Summary *domain.CartSummary  `json:"summary,omitempty"`
}

// CheckoutResult carries either the accumulated validation failures or the
// backend's raw response after a successful submission.
type CheckoutResult struct {
	Validation order.ValidationResult `json:"validation"`
	Response   []byte                 `json:"response,omitempty"`
}

// CartService keeps one store per user, matching the per-user cache and
// singleflight keys, so concurrent shoppers never observe or clobber each
// other's cart state.
type CartService struct {
	api       client.CartAPI
	cache     cache.CartCache
	submitter OrderSubmitter
	sfg       singleflight.Group // Prevents cache stampede

	mu     sync.Mutex
	stores map[string]*cart.Store
}

func NewCartService(api client.CartAPI, c cache.CartCache, submitter OrderSubmitter) *CartService {
	return &CartService{
		api:       api,
		cache:     c,
		submitter: submitter,
		stores:    make(map[string]*cart.Store),
	}
}

func (s *CartService) storeFor(userID string) *cart.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, ok := s.stores[userID]
	if !ok {
		store = cart.NewStore()
		s.stores[userID] = store
	}
	return store
}

// GetCart loads the cart for the user, preferring the cache, and replaces
// that user's local state in one transition. Concurrent calls for the
// same user collapse into a single fetch.
func (s *CartService) GetCart(ctx context.Context, userID, token string) (*CartView, error) {
	store := s.storeFor(userID)

	_, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		fetched, err := s.cache.Get(ctx, userID)
		if err == nil {
			store.Replace(fetched)
			return nil, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		fetched, err = s.api.FetchCart(ctx, token)
		if err != nil {
			return nil, err
		}
		store.Replace(fetched)

		go func() {
			if errSet := s.cache.Set(context.Background(), userID, fetched); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return s.view(store), nil
}

// View returns the user's current unified projection without touching the
// backend.
func (s *CartService) View(userID string) *CartView {
	return s.view(s.storeFor(userID))
}

func (s *CartService) view(store *cart.Store) *CartView {
	return &CartView{
		CartID:  store.CartID(),
		Items:   store.Items(),
		Summary: store.Summary(),
	}
}

// UpdateQuantity applies the change locally first, then pushes it to the
// backend. If the push fails the local state is rolled back to the
// pre-mutation snapshot so the view never shows a quantity the backend
// rejected. Unknown ids are a silent no-op; package items are rejected
// with cart.ErrPackageQuantityFixed.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, token, itemID string, quantity float64, itemType domain.ItemType) error {
	store := s.storeFor(userID)

	target := findItem(store, itemID, itemType)
	if target == nil {
		if itemType == domain.ItemTypePackage {
			return cart.ErrPackageQuantityFixed
		}
		return nil
	}

	snap := store.Snapshot()
	if err := store.UpdateQuantity(itemID, quantity, itemType); err != nil {
		return err
	}

	if err := s.api.PushQuantity(ctx, token, target.CartItemID, quantity); err != nil {
		store.Restore(snap)
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// RemoveItem removes an additional item or a whole package, optimistically
// with the same compensating rollback as UpdateQuantity. Removing an
// absent id is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, token, itemID string, itemType domain.ItemType) error {
	store := s.storeFor(userID)

	target := findItem(store, itemID, itemType)
	if target == nil {
		return nil
	}

	snap := store.Snapshot()
	store.Remove(itemID, itemType)

	if err := s.api.PushRemoval(ctx, token, target.CartItemID); err != nil {
		store.Restore(snap)
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// PatchSummary merges backend-supplied summary fields into the user's
// local copy.
func (s *CartService) PatchSummary(userID string, patch domain.SummaryPatch) {
	s.storeFor(userID).PatchSummary(patch)
}

// Checkout builds the payload from the user's current projection,
// validates it, and submits only when it is clean. Validation failures
// come back in the result, never as an error.
func (s *CartService) Checkout(ctx context.Context, userID, token string, payment domain.PaymentMethod, details domain.CheckoutDetails) (*CheckoutResult, error) {
	store := s.storeFor(userID)

	var grandTotal, discount float64
	if summary := store.Summary(); summary != nil {
		grandTotal = summary.GrandTotal
		discount = summary.CouponDiscount
	}

	payload := order.BuildPayload(order.BuildInput{
		CartID:         store.CartID(),
		PaymentMethod:  payment,
		DiscountAmount: discount,
		GrandTotal:     grandTotal,
		Items:          store.Items(),
		Checkout:       details,
	})

	result := order.Validate(payload)
	if !result.IsValid {
		return &CheckoutResult{Validation: result}, nil
	}

	body, err := s.submitter.Submit(ctx, token, payload)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Validation: result, Response: body}, nil
}

// findItem resolves the backing cart line for a mutation. Package items
// match on package id because the whole bundle mutates as a unit.
func findItem(store *cart.Store, itemID string, itemType domain.ItemType) *domain.UnifiedItem {
	for _, item := range store.Items() {
		if item.Type != itemType {
			continue
		}
		if itemType == domain.ItemTypePackage && item.PackageID == itemID {
			return &item
		}
		if itemType == domain.ItemTypeAdditional && item.ID == itemID {
			return &item
		}
	}
	return nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
