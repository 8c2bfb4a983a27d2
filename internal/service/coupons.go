package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/internal/repository"
	"github.com/trovashop/storeapi/pkg/errors"
	"github.com/trovashop/storeapi/pkg/money"
)

type CouponService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(repos *repository.Repositories, logger *zap.Logger) *CouponService {
	return &CouponService{
		repos:  repos,
		logger: logger,
	}
}

// Validate checks the coupon against the subtotal and returns the
// discount amount it would grant. It performs no writes.
func (s *CouponService) Validate(ctx context.Context, code string, subtotal float64) (float64, *domain.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	coupon, err := s.repos.Coupon.GetByCode(ctx, code)
	if err != nil {
		return 0, nil, err
	}

	now := time.Now()
	if now.Before(coupon.StartDate) || now.After(coupon.ExpiryDate) {
		return 0, nil, &errors.ErrCouponRejected{Code: code, Reason: errors.CouponExpired}
	}
	if coupon.Exhausted() {
		return 0, nil, &errors.ErrCouponRejected{Code: code, Reason: errors.CouponExhausted}
	}
	if subtotal < coupon.MinimumPurchaseAmount {
		return 0, nil, &errors.ErrCouponRejected{
			Code:            code,
			Reason:          errors.CouponMinimumPurchase,
			MinimumPurchase: coupon.MinimumPurchaseAmount,
		}
	}

	discountAmount := subtotal * coupon.Discount / 100
	if discountAmount > coupon.MaximumDiscountAmount {
		discountAmount = coupon.MaximumDiscountAmount
	}
	if discountAmount > subtotal {
		discountAmount = subtotal
	}

	return discountAmount, coupon, nil
}

// Apply validates the coupon and consumes one use immediately. The
// increment is not rolled back if the caller's flow later fails;
// checkout avoids that by redeeming inside its transaction instead.
func (s *CouponService) Apply(ctx context.Context, code string, orderAmount float64) (*ApplyCouponResult, error) {
	discountAmount, coupon, err := s.Validate(ctx, code, orderAmount)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Coupon.IncrementUsage(ctx, coupon.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Coupon applied",
		zap.String("code", coupon.Code),
		zap.Float64("discount_amount", discountAmount),
	)

	return &ApplyCouponResult{
		DiscountAmount: discountAmount,
		FinalAmount:    money.Round2(orderAmount - discountAmount),
		CouponID:       coupon.ID,
	}, nil
}

// redeem validates and consumes one use with the caller's context, so a
// surrounding transaction owns the increment.
func (s *CouponService) redeem(ctx context.Context, code string, subtotal float64) (float64, *domain.Coupon, error) {
	discountAmount, coupon, err := s.Validate(ctx, code, subtotal)
	if err != nil {
		return 0, nil, err
	}
	if err := s.repos.Coupon.IncrementUsage(ctx, coupon.ID); err != nil {
		return 0, nil, err
	}
	return discountAmount, coupon, nil
}

// ListApplicable returns the coupons a purchase of orderAmount could use
// right now: within their window, under their usage cap, threshold met.
func (s *CouponService) ListApplicable(ctx context.Context, orderAmount float64) ([]*domain.Coupon, error) {
	return s.repos.Coupon.ListApplicable(ctx, orderAmount, time.Now())
}
