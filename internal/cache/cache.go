package cache

import (
	"context"
	"errors"

	"github.com/polygon-agro/marketplace-cart/internal/domain"
)

// CartCache stores fetched cart payloads per user. The cache is advisory:
// every caller must tolerate a miss or an error and fall through to the
// backend.
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.FetchedCart, error)
	Set(ctx context.Context, userID string, cart *domain.FetchedCart) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
