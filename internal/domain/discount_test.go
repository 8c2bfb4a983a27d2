package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentageDiscount_Apply(t *testing.T) {
	d := PercentageDiscount{Value: 10}
	assert.Equal(t, 100.0, d.Apply(1000))
}

func TestPercentageDiscount_Capped(t *testing.T) {
	cap := 50.0
	d := PercentageDiscount{Value: 10, Cap: &cap}
	assert.Equal(t, 50.0, d.Apply(1000))
	// below the cap the percentage applies untouched
	assert.Equal(t, 30.0, d.Apply(300))
}

func TestPercentageDiscount_NeverExceedsBase(t *testing.T) {
	d := PercentageDiscount{Value: 150}
	assert.Equal(t, 200.0, d.Apply(200))
}

func TestFixedDiscount_Apply(t *testing.T) {
	d := FixedDiscount{Value: 300}
	assert.Equal(t, 300.0, d.Apply(1000))
}

func TestFixedDiscount_ClampedToBase(t *testing.T) {
	d := FixedDiscount{Value: 5000}
	assert.Equal(t, 120.0, d.Apply(120))
}

func TestDiscount_NegativeValueIsZero(t *testing.T) {
	assert.Equal(t, 0.0, FixedDiscount{Value: -10}.Apply(100))
	assert.Equal(t, 0.0, PercentageDiscount{Value: -5}.Apply(100))
}

func TestOfferDiscount_SelectsVariant(t *testing.T) {
	cap := 50.0
	pct := Offer{DiscountType: DiscountTypePercentage, DiscountValue: 10, MaxDiscountAmount: &cap}
	assert.Equal(t, 50.0, pct.Discount().Apply(1000))

	// fixed offers ignore the cap field entirely
	fixed := Offer{DiscountType: DiscountTypeFixed, DiscountValue: 300, MaxDiscountAmount: &cap}
	assert.Equal(t, 300.0, fixed.Discount().Apply(1000))
}
