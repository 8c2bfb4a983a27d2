package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/pkg/errors"
)

func TestQuote_PercentageOffer(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Runner Shoe", 1000, 10)
	env.addOffer(t, domain.OfferScopeProduct, p.ID, domain.DiscountTypePercentage, 10, nil)

	result, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines: []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 2}},
	})
	require.NoError(t, err)

	require.Len(t, result.ProductDetails, 1)
	line := result.ProductDetails[0]
	assert.Equal(t, 1000.0, line.OriginalPrice)
	assert.Equal(t, 100.0, line.OfferDiscount)
	assert.Equal(t, 900.0, line.FinalPrice)
	assert.Equal(t, 1800.0, line.Total)
	require.NotNil(t, line.Offer)
	assert.Equal(t, "PERCENTAGE", line.Offer.DiscountType)

	assert.Equal(t, 1800.0, result.Subtotal)
	assert.Equal(t, 50.0, result.ShippingFee)
	assert.Equal(t, 1850.0, result.TotalAmount)
}

func TestQuote_PercentageOfferCapped(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Runner Shoe", 1000, 10)
	env.addOffer(t, domain.OfferScopeProduct, p.ID, domain.DiscountTypePercentage, 10, floatPtr(50))

	result, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines: []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 1}},
	})
	require.NoError(t, err)

	line := result.ProductDetails[0]
	assert.Equal(t, 50.0, line.OfferDiscount)
	assert.Equal(t, 950.0, line.FinalPrice)
}

func TestQuote_FixedOfferIgnoresCap(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Runner Shoe", 1000, 10)
	// the cap field only constrains percentage offers
	env.addOffer(t, domain.OfferScopeProduct, p.ID, domain.DiscountTypeFixed, 300, floatPtr(50))

	result, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines: []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, result.ProductDetails[0].OfferDiscount)
	assert.Equal(t, 700.0, result.ProductDetails[0].FinalPrice)
}

func TestQuote_FixedOfferNeverNegative(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Socks", 120, 10)
	env.addOffer(t, domain.OfferScopeProduct, p.ID, domain.DiscountTypeFixed, 5000, nil)

	result, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines: []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, result.ProductDetails[0].OfferDiscount)
	assert.Equal(t, 0.0, result.ProductDetails[0].FinalPrice)
}

func TestQuote_CategoryOffer(t *testing.T) {
	env := newTestEnv(t)
	cat := &domain.Category{Name: "Footwear", IsActive: true}
	require.NoError(t, env.repos.Category.Create(context.Background(), cat))

	p := env.addProduct(t, "Runner Shoe", 1000, 10)
	p.CategoryID = &cat.ID
	require.NoError(t, env.repos.Product.Create(context.Background(), p))
	env.addOffer(t, domain.OfferScopeCategory, cat.ID, domain.DiscountTypePercentage, 20, nil)

	result, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines: []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 800.0, result.ProductDetails[0].FinalPrice)
}

func TestQuote_InactiveCategoryGetsNoOffer(t *testing.T) {
	env := newTestEnv(t)
	cat := &domain.Category{Name: "Clearance", IsActive: false}
	require.NoError(t, env.repos.Category.Create(context.Background(), cat))

	p := env.addProduct(t, "Old Boot", 500, 5)
	p.CategoryID = &cat.ID
	require.NoError(t, env.repos.Product.Create(context.Background(), p))
	env.addOffer(t, domain.OfferScopeCategory, cat.ID, domain.DiscountTypePercentage, 50, nil)

	result, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines: []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Nil(t, result.ProductDetails[0].Offer)
	assert.Equal(t, 500.0, result.ProductDetails[0].FinalPrice)
}

func TestQuote_WithCoupon(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Runner Shoe", 1000, 10)
	env.addOffer(t, domain.OfferScopeProduct, p.ID, domain.DiscountTypePercentage, 10, nil)
	env.addCoupon(t, "SAVE10", 10, 500, 100, nil)

	result, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines:      []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 2}},
		CouponCode: "SAVE10",
	})
	require.NoError(t, err)

	// subtotal 1800, 10% = 180, capped at 100
	assert.Equal(t, 1800.0, result.Subtotal)
	assert.Equal(t, 100.0, result.DiscountAmount)
	assert.Equal(t, 1750.0, result.TotalAmount)
	require.NotNil(t, result.CouponDetails)
	assert.Equal(t, "SAVE10", result.CouponDetails.Code)
	assert.Equal(t, 100.0, result.CouponDetails.DiscountAmount)
}

func TestQuote_DoesNotConsumeCoupon(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Runner Shoe", 1000, 10)
	env.addCoupon(t, "SAVE10", 10, 0, 100, intPtr(1))

	for i := 0; i < 3; i++ {
		_, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
			Lines:      []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 1}},
			CouponCode: "SAVE10",
		})
		require.NoError(t, err)
	}

	c, err := env.repos.Coupon.GetByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 0, c.UsageCount)
}

func TestQuote_CouponFailureFailsWholeCall(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Socks", 120, 10)
	env.addCoupon(t, "BIGSPEND", 10, 5000, 100, nil)

	_, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines:      []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 1}},
		CouponCode: "BIGSPEND",
	})
	var rejected *errors.ErrCouponRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, errors.CouponMinimumPurchase, rejected.Reason)
}

func TestQuote_VariantNotFound(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Runner Shoe", 1000, 10)

	_, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines: []LineRequest{{ProductID: p.ID, Size: "XXL", Quantity: 1}},
	})
	var notFound *errors.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "variant", notFound.Resource)
	assert.Equal(t, 10, env.stockOf(t, p.ID, "M"))
}

func TestQuote_DeletedProductUnavailable(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Retired Shoe", 1000, 10)
	p.IsDeleted = true
	require.NoError(t, env.repos.Product.Create(context.Background(), p))

	_, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines: []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 1}},
	})
	var unavailable *errors.ErrUnavailable
	require.ErrorAs(t, err, &unavailable)
}

func TestQuote_Deterministic(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Runner Shoe", 999.99, 10)
	env.addOffer(t, domain.OfferScopeProduct, p.ID, domain.DiscountTypePercentage, 7, nil)
	env.addCoupon(t, "SAVE10", 10, 0, 100, nil)

	req := &PriceOrderRequest{
		Lines:      []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 3}},
		CouponCode: "SAVE10",
	}
	first, err := env.svcs.Pricing.Quote(context.Background(), req)
	require.NoError(t, err)
	second, err := env.svcs.Pricing.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.TotalAmount, second.TotalAmount)
	assert.Equal(t, first.Subtotal, second.Subtotal)
	assert.Equal(t, first.DiscountAmount, second.DiscountAmount)
}

func TestQuote_DiscountBounds(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct(t, "Runner Shoe", 1000, 10)
	env.addOffer(t, domain.OfferScopeProduct, p.ID, domain.DiscountTypePercentage, 10, nil)

	result, err := env.svcs.Pricing.Quote(context.Background(), &PriceOrderRequest{
		Lines: []LineRequest{{ProductID: p.ID, Size: "M", Quantity: 1}},
	})
	require.NoError(t, err)

	for _, line := range result.ProductDetails {
		assert.GreaterOrEqual(t, line.FinalPrice, 0.0)
		assert.LessOrEqual(t, line.FinalPrice, line.OriginalPrice)
	}
}
