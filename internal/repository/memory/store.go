// Package memory provides in-memory repository implementations backed by a
// single store. They honor the same invariants as the postgres
// implementations and power the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/internal/repository"
)

// Store is the shared in-memory state behind every repository.
type Store struct {
	mu         sync.RWMutex
	products   map[uuid.UUID]domain.Product
	categories map[uuid.UUID]domain.Category
	offers     map[uuid.UUID]domain.Offer
	coupons    map[uuid.UUID]domain.Coupon
	orders     map[uuid.UUID]domain.Order
	wallet     []domain.WalletEntry
	cart       map[uuid.UUID]domain.CartItem
	users      map[uuid.UUID]domain.User
	addresses  map[uuid.UUID]domain.Address
}

func NewStore() *Store {
	return &Store{
		products:   make(map[uuid.UUID]domain.Product),
		categories: make(map[uuid.UUID]domain.Category),
		offers:     make(map[uuid.UUID]domain.Offer),
		coupons:    make(map[uuid.UUID]domain.Coupon),
		orders:     make(map[uuid.UUID]domain.Order),
		cart:       make(map[uuid.UUID]domain.CartItem),
		users:      make(map[uuid.UUID]domain.User),
		addresses:  make(map[uuid.UUID]domain.Address),
	}
}

// NewRepositories wires every repository interface onto one store.
func NewRepositories(store *Store) *repository.Repositories {
	return &repository.Repositories{
		Product:  &productRepo{store},
		Category: &categoryRepo{store},
		Offer:    &offerRepo{store},
		Coupon:   &couponRepo{store},
		Order:    &orderRepo{store},
		Wallet:   &walletRepo{store},
		Cart:     &cartRepo{store},
		User:     &userRepo{store},
		Address:  &addressRepo{store},
		Tx:       &txManager{store},
	}
}

// transaction-aware locking: inside WithTransaction the store lock is
// already held, so repository calls must not re-acquire it.
type txKey struct{}

func inTx(ctx context.Context) bool {
	v, ok := ctx.Value(txKey{}).(bool)
	return ok && v
}

func (s *Store) rlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.RLock()
	}
}

func (s *Store) runlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.RUnlock()
	}
}

func (s *Store) wlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.Lock()
	}
}

func (s *Store) wunlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.Unlock()
	}
}

type txManager struct{ s *Store }

var _ repository.TxManager = (*txManager)(nil)

// WithTransaction serializes the whole callback under the store's write
// lock, giving the same all-or-nothing boundary the sql TxManager does.
// The memory variant cannot roll back, so callbacks must validate before
// writing; the services are written that way.
func (t *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}
