package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/internal/repository"
	"github.com/trovashop/storeapi/internal/repository/memory"
)

type testEnv struct {
	svcs  *Services
	repos *repository.Repositories
	store *memory.Store
	user  domain.User
	addr  domain.Address
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepositories(store)
	svcs := NewServices(repos, zap.NewNop())

	user := store.AddUser(domain.User{FirstName: "Maya", LastName: "Kapoor", Email: "maya@example.com"})
	addr := store.AddAddress(domain.Address{
		UserID:   user.ID,
		FullName: "Maya Kapoor",
		Street:   "14 Lake Road",
		City:     "Pune",
		State:    "MH",
		Pincode:  "411001",
		Phone:    "9999999999",
	})

	return &testEnv{svcs: svcs, repos: repos, store: store, user: user, addr: addr}
}

// addProduct seeds a product with a single size M variant.
func (e *testEnv) addProduct(t *testing.T, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:     name,
		Brand:    "Acme",
		Variants: []domain.Variant{{Size: "M", Price: price, Stock: stock}},
	}
	require.NoError(t, e.repos.Product.Create(context.Background(), p))
	return p
}

func (e *testEnv) addOffer(t *testing.T, scope domain.OfferScope, targetID uuid.UUID, kind domain.DiscountType, value float64, cap *float64) *domain.Offer {
	t.Helper()
	now := time.Now()
	o := &domain.Offer{
		Name:              "Test Offer",
		DiscountType:      kind,
		DiscountValue:     value,
		MaxDiscountAmount: cap,
		StartDate:         now.Add(-time.Hour),
		EndDate:           now.Add(24 * time.Hour),
		ApplicableTo:      scope,
		TargetID:          targetID,
	}
	require.NoError(t, e.repos.Offer.Create(context.Background(), o))
	return o
}

func (e *testEnv) addCoupon(t *testing.T, code string, discount, minPurchase, maxDiscount float64, maxUses *int) *domain.Coupon {
	t.Helper()
	now := time.Now()
	c := &domain.Coupon{
		Code:                  code,
		Discount:              discount,
		StartDate:             now.Add(-time.Hour),
		ExpiryDate:            now.Add(24 * time.Hour),
		MaxUses:               maxUses,
		MinimumPurchaseAmount: minPurchase,
		MaximumDiscountAmount: maxDiscount,
	}
	require.NoError(t, e.repos.Coupon.Create(context.Background(), c))
	return c
}

func (e *testEnv) placeOrder(t *testing.T, req *PlaceOrderRequest) *PlaceOrderResult {
	t.Helper()
	result, err := e.svcs.Orders.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	return result
}

func (e *testEnv) stockOf(t *testing.T, productID uuid.UUID, size string) int {
	t.Helper()
	p, err := e.repos.Product.GetByID(context.Background(), productID)
	require.NoError(t, err)
	v := p.VariantBySize(size)
	require.NotNil(t, v)
	return v.Stock
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
