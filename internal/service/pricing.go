package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/internal/repository"
	"github.com/trovashop/storeapi/pkg/errors"
	"github.com/trovashop/storeapi/pkg/money"
)

// ShippingFee is the flat per-order shipping charge. It is added after
// the coupon discount; coupons never discount shipping.
const ShippingFee = 50.0

type PricingService struct {
	repos   *repository.Repositories
	offers  *OfferResolver
	coupons *CouponService
	logger  *zap.Logger
}

// NewPricingService creates the pricing engine
func NewPricingService(repos *repository.Repositories, offers *OfferResolver, coupons *CouponService, logger *zap.Logger) *PricingService {
	return &PricingService{
		repos:   repos,
		offers:  offers,
		coupons: coupons,
		logger:  logger,
	}
}

// Quote prices the requested lines without consuming anything. Used by
// the pre-payment order-amount endpoint; the coupon is validated but its
// usage counter is untouched.
func (s *PricingService) Quote(ctx context.Context, req *PriceOrderRequest) (*PricingResult, error) {
	return s.price(ctx, req.Lines, req.CouponCode, false)
}

// price runs the full pricing pass. With consume set, a successful coupon
// validation also burns one use; checkout calls it that way inside its
// transaction so the increment commits or rolls back with the order.
func (s *PricingService) price(ctx context.Context, lines []LineRequest, couponCode string, consume bool) (*PricingResult, error) {
	if len(lines) == 0 {
		return nil, &errors.ErrValidation{Message: "at least one line item is required"}
	}

	now := time.Now()
	result := &PricingResult{
		ShippingFee:    ShippingFee,
		ProductDetails: make([]PricedLine, 0, len(lines)),
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, &errors.ErrValidation{
				Message: "quantity must be positive",
				Fields:  map[string]string{"quantity": fmt.Sprintf("%d", line.Quantity)},
			}
		}

		product, err := s.repos.Product.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.IsDeleted {
			return nil, &errors.ErrUnavailable{Resource: "product", Name: product.Name}
		}

		variant := product.VariantBySize(line.Size)
		if variant == nil {
			return nil, &errors.ErrNotFound{
				Resource: "variant",
				ID:       fmt.Sprintf("%s size %s", product.ID, line.Size),
			}
		}

		basePrice := variant.Price
		offer, err := s.offers.Resolve(ctx, product, now)
		if err != nil {
			return nil, err
		}

		var offerDiscount float64
		var offerSummary *OfferSummary
		if offer != nil {
			offerDiscount = offer.Discount().Apply(basePrice)
			offerSummary = &OfferSummary{
				Name:          offer.Name,
				DiscountType:  string(offer.DiscountType),
				DiscountValue: offer.DiscountValue,
			}
		}

		finalPrice := basePrice - offerDiscount
		lineTotal := finalPrice * float64(line.Quantity)
		result.Subtotal += lineTotal

		result.ProductDetails = append(result.ProductDetails, PricedLine{
			ProductID:     product.ID,
			Name:          product.Name,
			Size:          line.Size,
			Quantity:      line.Quantity,
			OriginalPrice: basePrice,
			OfferDiscount: offerDiscount,
			FinalPrice:    finalPrice,
			Total:         lineTotal,
			VariantID:     variant.ID,
			Offer:         offerSummary,
		})
	}

	if couponCode != "" {
		var (
			discountAmount float64
			coupon         *domain.Coupon
			err            error
		)
		if consume {
			discountAmount, coupon, err = s.coupons.redeem(ctx, couponCode, result.Subtotal)
		} else {
			discountAmount, coupon, err = s.coupons.Validate(ctx, couponCode, result.Subtotal)
		}
		if err != nil {
			return nil, err
		}
		result.DiscountAmount = discountAmount
		result.CouponDetails = &CouponDetails{
			Code:           coupon.Code,
			DiscountAmount: discountAmount,
			Discount:       coupon.Discount,
			CouponID:       coupon.ID,
		}
	}

	// Rounding happens once, at final aggregation; line-level amounts
	// carry full precision to avoid compounding error.
	result.Subtotal = money.Round2(result.Subtotal)
	result.DiscountAmount = money.Round2(result.DiscountAmount)
	result.TotalAmount = money.Round2(result.Subtotal-result.DiscountAmount) + ShippingFee

	return result, nil
}
