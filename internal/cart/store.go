package cart

import (
	"errors"
	"sync"

	"github.com/polygon-agro/marketplace-cart/internal/domain"
)

// ErrPackageQuantityFixed is returned when a quantity update targets a
// package-typed item. Package quantity is fixed once the package is in the
// cart; the whole package can only be removed.
var ErrPackageQuantityFixed = errors.New("package quantity cannot be changed after adding to cart")

// Store holds the in-memory cart state. The raw collections are the single
// source of truth; the unified item list is a projection computed on read
// and memoized until the next mutation. Every exported operation is an
// atomic state transition, so readers never observe a half-applied update.
type Store struct {
	mu sync.RWMutex

	cartID   string
	packages []domain.Package
	groups   []domain.AdditionalItemGroup
	summary  *domain.CartSummary

	projection []domain.UnifiedItem
	stale      bool
}

func NewStore() *Store {
	return &Store{stale: true}
}

// Replace swaps the entire raw state for the contents of a fresh fetch.
func (s *Store) Replace(fetched *domain.FetchedCart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cartID = fetched.CartID
	s.packages = fetched.Packages
	s.groups = fetched.AdditionalItems
	s.summary = fetched.Summary
	s.stale = true
}

// CartID returns the backend cart identifier from the last fetch.
func (s *Store) CartID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartID
}

// Items returns the unified projection, recomputing it only if a mutation
// happened since the last read.
func (s *Store) Items() []domain.UnifiedItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stale {
		s.projection = Project(s.groups, s.packages)
		s.stale = false
	}

	out := make([]domain.UnifiedItem, len(s.projection))
	copy(out, s.projection)
	// Detach pointer fields so a caller's write cannot reach the memoized
	// projection.
	for i := range out {
		if out[i].DiscountedPrice != nil {
			v := *out[i].DiscountedPrice
			out[i].DiscountedPrice = &v
		}
	}
	return out
}

// Summary returns a copy of the current summary, or nil if none was
// fetched.
func (s *Store) Summary() *domain.CartSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.summary == nil {
		return nil
	}
	cp := *s.summary
	return &cp
}

// UpdateQuantity writes a new quantity into the backing raw item. Unknown
// ids are a silent no-op: the UI only ever references displayed ids, so an
// unmatched update means the item was already removed. Package-typed
// updates are rejected with ErrPackageQuantityFixed.
func (s *Store) UpdateQuantity(itemID string, quantity float64, itemType domain.ItemType) error {
	if itemType == domain.ItemTypePackage {
		return ErrPackageQuantityFixed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for gi := range s.groups {
		for ii := range s.groups[gi].Items {
			if s.groups[gi].Items[ii].ID == itemID {
				s.groups[gi].Items[ii].Quantity = quantity
				s.stale = true
				return nil
			}
		}
	}

	return nil
}

// Remove deletes an item from the raw collections. Additional items are
// removed from their group, and a group left empty is dropped entirely.
// Package removal deletes the whole package; its constituents disappear
// from the projection together. Removing an absent id is a no-op.
func (s *Store) Remove(itemID string, itemType domain.ItemType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch itemType {
	case domain.ItemTypePackage:
		for pi, pkg := range s.packages {
			if pkg.ID == itemID {
				s.packages = append(s.packages[:pi], s.packages[pi+1:]...)
				s.stale = true
				return
			}
		}
	default:
		for gi := range s.groups {
			for ii, item := range s.groups[gi].Items {
				if item.ID == itemID {
					group := &s.groups[gi]
					group.Items = append(group.Items[:ii], group.Items[ii+1:]...)
					if len(group.Items) == 0 {
						s.groups = append(s.groups[:gi], s.groups[gi+1:]...)
					}
					s.stale = true
					return
				}
			}
		}
	}
}

// PatchSummary merges the non-nil fields of the patch into the summary.
// Without a summary it is a no-op. This is the only local summary write
// path; the engine never recomputes the summary from raw data, that is the
// backend's job on fetch.
func (s *Store) PatchSummary(patch domain.SummaryPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.summary == nil {
		return
	}

	if patch.PackageCount != nil {
		s.summary.PackageCount = *patch.PackageCount
	}
	if patch.ProductCount != nil {
		s.summary.ProductCount = *patch.ProductCount
	}
	if patch.PackageTotal != nil {
		s.summary.PackageTotal = *patch.PackageTotal
	}
	if patch.ProductTotal != nil {
		s.summary.ProductTotal = *patch.ProductTotal
	}
	if patch.GrandTotal != nil {
		s.summary.GrandTotal = *patch.GrandTotal
	}
	if patch.ItemCount != nil {
		s.summary.ItemCount = *patch.ItemCount
	}
	if patch.CouponDiscount != nil {
		s.summary.CouponDiscount = *patch.CouponDiscount
	}
	if patch.FinalTotal != nil {
		s.summary.FinalTotal = *patch.FinalTotal
	}
}

// Snapshot captures a deep copy of the raw state for compensating
// rollback of optimistic mutations.
type Snapshot struct {
	cartID   string
	packages []domain.Package
	groups   []domain.AdditionalItemGroup
	summary  *domain.CartSummary
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{cartID: s.cartID}

	snap.packages = make([]domain.Package, len(s.packages))
	for i, pkg := range s.packages {
		cp := pkg
		cp.Lines = append([]domain.PackageLine(nil), pkg.Lines...)
		snap.packages[i] = cp
	}

	snap.groups = make([]domain.AdditionalItemGroup, len(s.groups))
	for i, group := range s.groups {
		cp := group
		cp.Items = append([]domain.RawCartItem(nil), group.Items...)
		snap.groups[i] = cp
	}

	if s.summary != nil {
		sum := *s.summary
		snap.summary = &sum
	}

	return snap
}

// Restore replaces the current state with a previously taken snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cartID = snap.cartID
	s.packages = snap.packages
	s.groups = snap.groups
	s.summary = snap.summary
	s.stale = true
}
