package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/pkg/errors"
)

func TestApplyCoupon_Succeeds(t *testing.T) {
	env := newTestEnv(t)
	env.addCoupon(t, "SAVE10", 10, 500, 100, nil)

	result, err := env.svcs.Coupons.Apply(context.Background(), "save10", 1800)
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.DiscountAmount)
	assert.Equal(t, 1700.0, result.FinalAmount)

	c, err := env.repos.Coupon.GetByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 1, c.UsageCount)
}

func TestApplyCoupon_ExhaustsAtMaxUses(t *testing.T) {
	env := newTestEnv(t)
	env.addCoupon(t, "LIMITED", 10, 0, 1000, intPtr(2))

	for i := 0; i < 2; i++ {
		_, err := env.svcs.Coupons.Apply(context.Background(), "LIMITED", 1000)
		require.NoError(t, err)
	}

	_, err := env.svcs.Coupons.Apply(context.Background(), "LIMITED", 1000)
	var rejected *errors.ErrCouponRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, errors.CouponExhausted, rejected.Reason)
}

func TestValidateCoupon_OutsideWindow(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	expired := &domain.Coupon{
		Code:                  "OLD",
		Discount:              10,
		StartDate:             now.Add(-48 * time.Hour),
		ExpiryDate:            now.Add(-24 * time.Hour),
		MaximumDiscountAmount: 100,
	}
	require.NoError(t, env.repos.Coupon.Create(context.Background(), expired))

	future := &domain.Coupon{
		Code:                  "SOON",
		Discount:              10,
		StartDate:             now.Add(24 * time.Hour),
		ExpiryDate:            now.Add(48 * time.Hour),
		MaximumDiscountAmount: 100,
	}
	require.NoError(t, env.repos.Coupon.Create(context.Background(), future))

	for _, code := range []string{"OLD", "SOON"} {
		_, _, err := env.svcs.Coupons.Validate(context.Background(), code, 1000)
		var rejected *errors.ErrCouponRejected
		require.ErrorAs(t, err, &rejected, code)
		assert.Equal(t, errors.CouponExpired, rejected.Reason)
	}
}

func TestValidateCoupon_MinimumPurchase(t *testing.T) {
	env := newTestEnv(t)
	env.addCoupon(t, "BIG", 10, 500, 100, nil)

	_, _, err := env.svcs.Coupons.Validate(context.Background(), "BIG", 499.99)
	var rejected *errors.ErrCouponRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, errors.CouponMinimumPurchase, rejected.Reason)
	assert.Equal(t, 500.0, rejected.MinimumPurchase)

	amount, _, err := env.svcs.Coupons.Validate(context.Background(), "BIG", 500)
	require.NoError(t, err)
	assert.Equal(t, 50.0, amount)
}

func TestValidateCoupon_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.svcs.Coupons.Validate(context.Background(), "NOPE", 1000)
	var notFound *errors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestValidateCoupon_DiscountNeverExceedsSubtotal(t *testing.T) {
	env := newTestEnv(t)
	env.addCoupon(t, "HUGE", 90, 0, 10000, nil)

	amount, _, err := env.svcs.Coupons.Validate(context.Background(), "HUGE", 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, amount, 100.0)
}

func TestListApplicable_FiltersByAmountAndWindow(t *testing.T) {
	env := newTestEnv(t)
	env.addCoupon(t, "LOW", 5, 100, 50, nil)
	env.addCoupon(t, "HIGH", 10, 2000, 200, nil)

	coupons, err := env.svcs.Coupons.ListApplicable(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, "LOW", coupons[0].Code)
}
