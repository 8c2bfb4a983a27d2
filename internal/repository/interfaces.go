package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trovashop/storeapi/internal/domain"
)

// ProductRepository defines catalog product data access methods
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListActive(ctx context.Context) ([]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	AdjustStock(ctx context.Context, productID uuid.UUID, size string, delta int) error
}

// CategoryRepository defines category data access methods
type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListActive(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
}

// OfferRepository defines offer data access methods. Active-offer
// resolution is a query, not a cached back-reference on the target.
type OfferRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error)
	FindActiveForTarget(ctx context.Context, scope domain.OfferScope, targetID uuid.UUID, now time.Time) (*domain.Offer, error)
	Create(ctx context.Context, offer *domain.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CouponRepository defines coupon data access methods
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error)
	ListApplicable(ctx context.Context, orderAmount float64, now time.Time) ([]*domain.Coupon, error)
	Create(ctx context.Context, coupon *domain.Coupon) error
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines order data access methods
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	ListReturnRequested(ctx context.Context) ([]*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, cancellationReason *string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// WalletRepository defines wallet ledger data access methods. The ledger
// is append-only; entries are never updated or deleted.
type WalletRepository interface {
	LatestByUserID(ctx context.Context, userID uuid.UUID) (*domain.WalletEntry, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.WalletEntry, error)
	Append(ctx context.Context, entry *domain.WalletEntry) error
}

// CartRepository defines cart entry data access methods
type CartRepository interface {
	Create(ctx context.Context, item *domain.CartItem) error
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)
	DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

// UserRepository is the lookup surface settlement needs for accounts
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AddressRepository is the lookup surface settlement needs for addresses
type AddressRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error)
}

// TxManager runs a function inside a single transactional boundary.
// Repository calls made with the callback's context join the transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Product  ProductRepository
	Category CategoryRepository
	Offer    OfferRepository
	Coupon   CouponRepository
	Order    OrderRepository
	Wallet   WalletRepository
	Cart     CartRepository
	User     UserRepository
	Address  AddressRepository
	Tx       TxManager
}
