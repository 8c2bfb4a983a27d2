package domain

// OrderStatus represents the status of an order's payment lifecycle
type OrderStatus string

const (
	// PENDING - order placed, awaiting confirmation
	OrderStatusPending OrderStatus = "PENDING"
	// CONFIRMED - order accepted, awaiting dispatch
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// ON THE ROAD - order dispatched
	OrderStatusOnTheRoad OrderStatus = "ON THE ROAD"
	// DELIVERED - order delivered
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// CANCELED - order canceled before delivery
	OrderStatusCanceled OrderStatus = "CANCELED"
	// FAILED - payment or fulfilment failed
	OrderStatusFailed OrderStatus = "FAILED"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusOnTheRoad,
		OrderStatusDelivered,
		OrderStatusCanceled,
		OrderStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCanceled, OrderStatusFailed:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid. CANCELED and
// FAILED are side branches reachable only from the early states.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusConfirmed ||
			newStatus == OrderStatusCanceled ||
			newStatus == OrderStatusFailed
	case OrderStatusConfirmed:
		return newStatus == OrderStatusOnTheRoad ||
			newStatus == OrderStatusCanceled ||
			newStatus == OrderStatusFailed
	case OrderStatusOnTheRoad:
		return newStatus == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCanceled, OrderStatusFailed:
		return false // Terminal states
	default:
		return false
	}
}

// PaymentMethod is the payment channel recorded on an order
type PaymentMethod string

const (
	PaymentMethodCOD        PaymentMethod = "cod"
	PaymentMethodCreditCard PaymentMethod = "credit-card"
	PaymentMethodRazorpay   PaymentMethod = "razorpay"
)

// IsValid checks if the payment method is one of the accepted channels
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodCreditCard, PaymentMethodRazorpay:
		return true
	default:
		return false
	}
}

// DiscountType is the kind of discount an offer grants
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// OfferScope is the target kind an offer applies to
type OfferScope string

const (
	OfferScopeProduct  OfferScope = "product"
	OfferScopeCategory OfferScope = "category"
)

// WalletEntryType classifies a wallet ledger entry
type WalletEntryType string

const (
	WalletEntryAdded     WalletEntryType = "added"
	WalletEntryBought    WalletEntryType = "bought"
	WalletEntryReturned  WalletEntryType = "returned"
	WalletEntryCancelled WalletEntryType = "cancelled"
)
