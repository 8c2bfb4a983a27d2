package domain

// Discount is a discount definition that can be applied to a base price.
// Implementations never return an amount below zero or above the base price.
type Discount interface {
	// Apply returns the discount amount for the given base price.
	Apply(basePrice float64) float64
}

// PercentageDiscount takes a percentage of the base price, optionally
// capped at a maximum amount.
type PercentageDiscount struct {
	Value float64 // percent, 0-100
	Cap   *float64
}

func (d PercentageDiscount) Apply(basePrice float64) float64 {
	amount := basePrice * d.Value / 100
	if d.Cap != nil && amount > *d.Cap {
		amount = *d.Cap
	}
	return clampDiscount(amount, basePrice)
}

// FixedDiscount subtracts a flat amount. The max-discount cap does not
// apply to fixed offers; only the base price bounds the amount.
type FixedDiscount struct {
	Value float64
}

func (d FixedDiscount) Apply(basePrice float64) float64 {
	return clampDiscount(d.Value, basePrice)
}

func clampDiscount(amount, basePrice float64) float64 {
	if amount < 0 {
		return 0
	}
	if amount > basePrice {
		return basePrice
	}
	return amount
}
