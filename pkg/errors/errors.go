package errors

import (
	"fmt"

	"github.com/trovashop/storeapi/internal/domain"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation is returned when validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrConflict is returned when the requested change collides with current
// state (e.g. a return already approved)
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// ErrUnavailable is returned when a resource exists but can no longer be
// purchased (soft-deleted product, inactive category)
type ErrUnavailable struct {
	Resource string
	Name     string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is no longer available", e.Name)
}

// CouponRejectReason classifies why a coupon could not be applied
type CouponRejectReason string

const (
	CouponExpired            CouponRejectReason = "expired"
	CouponExhausted          CouponRejectReason = "exhausted"
	CouponMinimumPurchase    CouponRejectReason = "minimum_purchase_not_met"
)

// ErrCouponRejected is returned when a known coupon fails validation
type ErrCouponRejected struct {
	Code            string
	Reason          CouponRejectReason
	MinimumPurchase float64
}

func (e *ErrCouponRejected) Error() string {
	switch e.Reason {
	case CouponExpired:
		return fmt.Sprintf("coupon %s is not currently valid", e.Code)
	case CouponExhausted:
		return fmt.Sprintf("coupon %s has reached its usage limit", e.Code)
	case CouponMinimumPurchase:
		return fmt.Sprintf("minimum purchase amount of %.2f required for coupon %s", e.MinimumPurchase, e.Code)
	default:
		return fmt.Sprintf("coupon %s rejected", e.Code)
	}
}

// ErrInvalidStateTransition is returned when an invalid order status
// transition is attempted
type ErrInvalidStateTransition struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrInconsistentState is returned when referenced data has gone missing
// mid-operation (e.g. a canceled order's product no longer exists)
type ErrInconsistentState struct {
	Message string
}

func (e *ErrInconsistentState) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "inconsistent state"
}
