package service

import (
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/repository"
)

// Services aggregates all services over one repository set
type Services struct {
	Offers  *OfferResolver
	Coupons *CouponService
	Pricing *PricingService
	Wallet  *WalletService
	Orders  *OrderService
}

// NewServices wires the service graph
func NewServices(repos *repository.Repositories, logger *zap.Logger) *Services {
	offers := NewOfferResolver(repos, logger)
	coupons := NewCouponService(repos, logger)
	pricing := NewPricingService(repos, offers, coupons, logger)
	wallet := NewWalletService(repos, logger)
	orders := NewOrderService(repos, pricing, offers, wallet, logger)

	return &Services{
		Offers:  offers,
		Coupons: coupons,
		Pricing: pricing,
		Wallet:  wallet,
		Orders:  orders,
	}
}
