package service

import (
	"context"
	"sync"

	"github.com/polygon-agro/marketplace-cart/internal/cache"
	"github.com/polygon-agro/marketplace-cart/internal/domain"
)

// mockCartAPI implements client.CartAPI for testing.
type mockCartAPI struct {
	mu sync.Mutex

	fetchResult  *domain.FetchedCart
	fetchByToken map[string]*domain.FetchedCart
	fetchErr     error

	pushQuantityErr error
	pushRemovalErr  error

	fetchCalls    int
	quantityCalls []pushedQuantity
	removalCalls  []string
}

type pushedQuantity struct {
	cartItemID string
	quantity   float64
}

func (m *mockCartAPI) FetchCart(_ context.Context, token string) (*domain.FetchedCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if cart, ok := m.fetchByToken[token]; ok {
		return cart, nil
	}
	return m.fetchResult, nil
}

func (m *mockCartAPI) PushQuantity(_ context.Context, _, cartItemID string, quantity float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pushQuantityErr != nil {
		return m.pushQuantityErr
	}
	m.quantityCalls = append(m.quantityCalls, pushedQuantity{cartItemID, quantity})
	return nil
}

func (m *mockCartAPI) PushRemoval(_ context.Context, _, cartItemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pushRemovalErr != nil {
		return m.pushRemovalErr
	}
	m.removalCalls = append(m.removalCalls, cartItemID)
	return nil
}

// mockCache implements cache.CartCache for testing.
type mockCache struct {
	mu   sync.Mutex
	cart *domain.FetchedCart
	err  error

	deletes int
}

func (m *mockCache) Get(context.Context, string) (*domain.FetchedCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.FetchedCart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = cart
	return nil
}

func (m *mockCache) Delete(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = nil
	m.deletes++
	return nil
}

func (m *mockCache) deleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes
}

// mockSubmitter implements OrderSubmitter for testing.
type mockSubmitter struct {
	mu       sync.Mutex
	response []byte
	err      error

	submitted []*domain.OrderPayload
}

func (m *mockSubmitter) Submit(_ context.Context, _ string, payload *domain.OrderPayload) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.submitted = append(m.submitted, payload)
	return m.response, nil
}

func (m *mockSubmitter) submitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.submitted)
}
