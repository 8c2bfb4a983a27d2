package domain

import (
	"time"

	"github.com/google/uuid"
)

// Variant is a purchasable size/price/stock combination within a product.
type Variant struct {
	ID    uuid.UUID
	Size  string
	Price float64
	Stock int
}

// Product represents a catalog product with its embedded variants
type Product struct {
	ID         uuid.UUID
	Name       string
	Brand      string
	CategoryID *uuid.UUID
	Variants   []Variant
	Images     []string
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// VariantBySize finds the variant with the given size. Sizes are unique
// within a product.
func (p *Product) VariantBySize(size string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Size == size {
			return &p.Variants[i]
		}
	}
	return nil
}

// Category represents a product category. Only active categories are
// eligible for category offers and catalog listing.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Offer is a time-bounded discount attached to one product or one category.
// At most one offer may be active for a given target at any time.
type Offer struct {
	ID                uuid.UUID
	Name              string
	Description       string
	DiscountType      DiscountType
	DiscountValue     float64
	MaxDiscountAmount *float64
	StartDate         time.Time
	EndDate           time.Time
	ApplicableTo      OfferScope
	TargetID          uuid.UUID
	CreatedAt         time.Time
}

// ActiveAt reports whether the offer's validity window contains now.
func (o *Offer) ActiveAt(now time.Time) bool {
	return !now.Before(o.StartDate) && !now.After(o.EndDate)
}

// Discount returns the offer's discount definition.
func (o *Offer) Discount() Discount {
	if o.DiscountType == DiscountTypeFixed {
		return FixedDiscount{Value: o.DiscountValue}
	}
	return PercentageDiscount{Value: o.DiscountValue, Cap: o.MaxDiscountAmount}
}

// Overlaps reports whether the offer's window intersects [start, end].
func (o *Offer) Overlaps(start, end time.Time) bool {
	return !o.StartDate.After(end) && !o.EndDate.Before(start)
}

// Coupon is a code-activated, usage-limited, purchase-threshold-gated
// percentage discount applied at checkout. Codes are stored upper-cased.
type Coupon struct {
	ID                    uuid.UUID
	Code                  string
	Discount              float64 // percentage
	StartDate             time.Time
	ExpiryDate            time.Time
	MaxUses               *int
	UsageCount            int
	MinimumPurchaseAmount float64
	MaximumDiscountAmount float64
	CreatedAt             time.Time
}

// Exhausted reports whether the coupon's usage cap has been reached.
func (c *Coupon) Exhausted() bool {
	return c.MaxUses != nil && c.UsageCount >= *c.MaxUses
}

// ReturnStatus tracks a single line's return lifecycle. Set once by the
// customer and approved once by admin; not reversible.
type ReturnStatus struct {
	IsReturned    bool
	ReturnReason  string
	ReturnDate    *time.Time
	AdminApproval bool
}

// OrderLine is one (product, variant, quantity) entry within an order.
// Price is the per-unit price at the time the order was placed.
type OrderLine struct {
	ProductID    uuid.UUID
	VariantID    uuid.UUID
	Size         string
	Quantity     int
	Price        float64
	ReturnStatus ReturnStatus
}

// PaymentInfo holds the payment snapshot embedded in an order.
type PaymentInfo struct {
	Method        PaymentMethod
	TransactionID *string
	Status        OrderStatus
}

// Order is an immutable-after-creation snapshot of a priced checkout.
// Only status transitions, per-line return status and rating mutate it.
type Order struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	AddressID          uuid.UUID
	Lines              []OrderLine
	TotalPrice         float64
	ShippingFee        float64
	DiscountAmount     float64
	CouponID           *uuid.UUID
	PaymentInfo        PaymentInfo
	ExpectedDelivery   time.Time
	Rating             *int
	CancellationReason *string
	IsDeleted          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// LineForProduct finds the order line for the given product.
func (o *Order) LineForProduct(productID uuid.UUID) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return &o.Lines[i]
		}
	}
	return nil
}

// Subtotal is the sum of line totals before coupon discount and shipping.
func (o *Order) Subtotal() float64 {
	var sum float64
	for _, l := range o.Lines {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}

// WalletEntry is one record in the append-only per-user balance ledger.
// Balance equals the previous entry's balance plus this entry's amount.
type WalletEntry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	OrderID   *uuid.UUID
	Type      WalletEntryType
	Amount    float64
	Balance   float64
	CreatedAt time.Time
}

// CartItem is a saved cart entry, removed once consumed by checkout.
type CartItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Size      string
	Quantity  int
	CreatedAt time.Time
}

// Address is the shipping address referenced by an order. Address CRUD is
// owned elsewhere; settlement only checks existence.
type Address struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	FullName string
	Street   string
	City     string
	State    string
	Pincode  string
	Phone    string
}

// User is the minimal account view settlement needs.
type User struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	IsBlocked bool
}
