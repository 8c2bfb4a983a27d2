package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/internal/repository"
)

type OfferResolver struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewOfferResolver creates the offer resolver used by the pricing engine
func NewOfferResolver(repos *repository.Repositories, logger *zap.Logger) *OfferResolver {
	return &OfferResolver{
		repos:  repos,
		logger: logger,
	}
}

// Resolve returns the single offer applicable to the product at now, or
// nil. A product-scoped offer wins; otherwise the product's category is
// consulted, and only while the category is active. Absence of an offer
// is a normal outcome, never an error.
func (r *OfferResolver) Resolve(ctx context.Context, product *domain.Product, now time.Time) (*domain.Offer, error) {
	offer, err := r.repos.Offer.FindActiveForTarget(ctx, domain.OfferScopeProduct, product.ID, now)
	if err != nil {
		return nil, err
	}
	if offer != nil {
		return offer, nil
	}

	if product.CategoryID == nil {
		return nil, nil
	}

	category, err := r.repos.Category.GetByID(ctx, *product.CategoryID)
	if err != nil {
		// A dangling category reference must not fail pricing; the
		// product simply has no category discount.
		r.logger.Warn("Product references missing category",
			zap.String("product_id", product.ID.String()),
			zap.String("category_id", product.CategoryID.String()),
		)
		return nil, nil
	}
	if !category.IsActive {
		return nil, nil
	}

	return r.repos.Offer.FindActiveForTarget(ctx, domain.OfferScopeCategory, category.ID, now)
}
