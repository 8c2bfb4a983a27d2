package service

import "github.com/google/uuid"

// LineRequest is one client-specified line item: product, size, quantity.
// CartItemID links the request back to a saved cart entry so checkout can
// clear it.
type LineRequest struct {
	ProductID  uuid.UUID  `json:"product" binding:"required"`
	Size       string     `json:"size" binding:"required"`
	Quantity   int        `json:"quantity" binding:"required,min=1"`
	CartItemID *uuid.UUID `json:"cartItemId,omitempty"`
}

// PriceOrderRequest is the pricing engine input
type PriceOrderRequest struct {
	Lines      []LineRequest `json:"lines" binding:"required,min=1"`
	CouponCode string        `json:"couponCode,omitempty"`
}

// OfferSummary is the applied-offer snapshot on a priced line
type OfferSummary struct {
	Name          string  `json:"name"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
}

// PricedLine is one fully priced line item
type PricedLine struct {
	ProductID     uuid.UUID     `json:"productId"`
	Name          string        `json:"name"`
	Size          string        `json:"size"`
	Quantity      int           `json:"quantity"`
	OriginalPrice float64       `json:"originalPrice"`
	OfferDiscount float64       `json:"offerDiscount"`
	FinalPrice    float64       `json:"finalPrice"`
	Total         float64       `json:"total"`
	VariantID     uuid.UUID     `json:"variantId"`
	Offer         *OfferSummary `json:"offer"`
}

// CouponDetails is the applied-coupon snapshot on a pricing result
type CouponDetails struct {
	Code           string    `json:"code"`
	DiscountAmount float64   `json:"discountAmount"`
	Discount       float64   `json:"discount"`
	CouponID       uuid.UUID `json:"couponId"`
}

// PricingResult is the pricing engine output
type PricingResult struct {
	Subtotal       float64        `json:"subtotal"`
	ShippingFee    float64        `json:"shippingFee"`
	DiscountAmount float64        `json:"discountAmount"`
	TotalAmount    float64        `json:"totalAmount"`
	CouponDetails  *CouponDetails `json:"couponDetails"`
	ProductDetails []PricedLine   `json:"productDetails"`
}

// PlaceOrderRequest is the checkout input
type PlaceOrderRequest struct {
	UserID        uuid.UUID     `json:"userId" binding:"required"`
	AddressID     uuid.UUID     `json:"addressId" binding:"required"`
	Lines         []LineRequest `json:"lines" binding:"required,min=1"`
	PaymentMethod string        `json:"paymentMethod" binding:"required"`
	CouponCode    string        `json:"couponCode,omitempty"`
	TransactionID *string       `json:"transactionId,omitempty"`
	// PaymentStatus is set by gateway-confirmed flows; defaults to PENDING.
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

// PlaceOrderResult is the checkout output
type PlaceOrderResult struct {
	OrderID     uuid.UUID `json:"orderId"`
	TotalAmount float64   `json:"totalAmount"`
}

// ApplyCouponResult is the standalone coupon application output
type ApplyCouponResult struct {
	DiscountAmount float64   `json:"discountAmount"`
	FinalAmount    float64   `json:"finalAmount"`
	CouponID       uuid.UUID `json:"couponId"`
}

// RefundResult reports the wallet credit issued for an approved return
type RefundResult struct {
	OrderID      uuid.UUID `json:"orderId"`
	ProductID    uuid.UUID `json:"productId"`
	RefundAmount float64   `json:"refundAmount"`
	Balance      float64   `json:"balance"`
}

// OrderLineDetail is a read-model line with catalog data joined in.
// ProductName degrades to a placeholder when the product was deleted.
type OrderLineDetail struct {
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	Size        string    `json:"size"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	IsReturned  bool      `json:"isReturned"`
}

// OrderDetail is the read model for a single order
type OrderDetail struct {
	OrderID          uuid.UUID         `json:"orderId"`
	Status           string            `json:"status"`
	Lines            []OrderLineDetail `json:"products"`
	TotalPrice       float64           `json:"totalPrice"`
	ShippingFee      float64           `json:"shippingFee"`
	DiscountAmount   float64           `json:"discountAmount"`
	PaymentMethod    string            `json:"paymentMethod"`
	ExpectedDelivery string            `json:"expectedDeliveryDate"`
	CreatedAt        string            `json:"createdAt"`
}

// ReturnRequestView is one pending or processed return request
type ReturnRequestView struct {
	OrderID       uuid.UUID `json:"orderId"`
	ProductID     uuid.UUID `json:"productId"`
	UserID        uuid.UUID `json:"userId"`
	ReturnReason  string    `json:"returnReason"`
	ReturnDate    string    `json:"returnDate"`
	AdminApproval bool      `json:"adminApproval"`
}

// WalletDetails is the wallet read model: current balance plus the
// transaction history newest first
type WalletDetails struct {
	CurrentBalance    float64       `json:"currentBalance"`
	Transactions      []WalletEntry `json:"transactions"`
	TotalTransactions int           `json:"totalTransactions"`
}

// WalletEntry is the read model of one ledger entry
type WalletEntry struct {
	ID        uuid.UUID  `json:"_id"`
	Type      string     `json:"type"`
	Amount    float64    `json:"amount"`
	Balance   float64    `json:"balance"`
	OrderID   *uuid.UUID `json:"order,omitempty"`
	CreatedAt string     `json:"createdAt"`
}
