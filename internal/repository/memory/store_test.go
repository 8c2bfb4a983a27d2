package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/pkg/errors"
)

func TestOfferCreate_RejectsOverlap(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()
	target := uuid.New()
	now := time.Now()

	first := &domain.Offer{
		Name:          "Week One",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 10,
		StartDate:     now,
		EndDate:       now.Add(7 * 24 * time.Hour),
		ApplicableTo:  domain.OfferScopeProduct,
		TargetID:      target,
	}
	require.NoError(t, repos.Offer.Create(ctx, first))

	overlapping := &domain.Offer{
		Name:          "Week One Again",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 20,
		StartDate:     now.Add(3 * 24 * time.Hour),
		EndDate:       now.Add(10 * 24 * time.Hour),
		ApplicableTo:  domain.OfferScopeProduct,
		TargetID:      target,
	}
	err := repos.Offer.Create(ctx, overlapping)
	var conflict *errors.ErrConflict
	require.ErrorAs(t, err, &conflict)

	later := &domain.Offer{
		Name:          "Week Three",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 20,
		StartDate:     now.Add(14 * 24 * time.Hour),
		EndDate:       now.Add(21 * 24 * time.Hour),
		ApplicableTo:  domain.OfferScopeProduct,
		TargetID:      target,
	}
	assert.NoError(t, repos.Offer.Create(ctx, later))
}

func TestFindActiveForTarget_WindowBounds(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()
	target := uuid.New()
	now := time.Now()

	offer := &domain.Offer{
		Name:          "Current",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 10,
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(time.Hour),
		ApplicableTo:  domain.OfferScopeProduct,
		TargetID:      target,
	}
	require.NoError(t, repos.Offer.Create(ctx, offer))

	found, err := repos.Offer.FindActiveForTarget(ctx, domain.OfferScopeProduct, target, now)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, offer.ID, found.ID)

	// outside the window the query comes back empty, not an error
	found, err = repos.Offer.FindActiveForTarget(ctx, domain.OfferScopeProduct, target, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, found)

	// scope mismatch also misses
	found, err = repos.Offer.FindActiveForTarget(ctx, domain.OfferScopeCategory, target, now)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestCouponCreate_NormalizesAndDeduplicates(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	c := &domain.Coupon{Code: "save10", Discount: 10, ExpiryDate: time.Now().Add(time.Hour), MaximumDiscountAmount: 100}
	require.NoError(t, repos.Coupon.Create(ctx, c))

	stored, err := repos.Coupon.GetByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", stored.Code)

	dup := &domain.Coupon{Code: "SAVE10", Discount: 20, MaximumDiscountAmount: 50}
	err = repos.Coupon.Create(ctx, dup)
	var conflict *errors.ErrConflict
	require.ErrorAs(t, err, &conflict)
}

func TestWithTransaction_RepositoryCallsJoin(t *testing.T) {
	store := NewStore()
	repos := NewRepositories(store)
	ctx := context.Background()

	p := &domain.Product{
		Name:     "Widget",
		Variants: []domain.Variant{{Size: "M", Price: 10, Stock: 5}},
	}
	require.NoError(t, repos.Product.Create(ctx, p))

	err := repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := repos.Product.AdjustStock(ctx, p.ID, "M", -2); err != nil {
			return err
		}
		got, err := repos.Product.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, 3, got.VariantBySize("M").Stock)
		return nil
	})
	require.NoError(t, err)

	got, err := repos.Product.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.VariantBySize("M").Stock)
}

func TestOrderSoftDelete_HiddenFromListings(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()
	userID := uuid.New()

	order := &domain.Order{
		UserID:      userID,
		TotalPrice:  100,
		PaymentInfo: domain.PaymentInfo{Method: domain.PaymentMethodCOD, Status: domain.OrderStatusPending},
	}
	require.NoError(t, repos.Order.Create(ctx, order))
	require.NoError(t, repos.Order.SoftDelete(ctx, order.ID))

	orders, err := repos.Order.ListByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
