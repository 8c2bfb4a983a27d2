package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Product:  NewProductRepository(db, logger),
		Category: NewCategoryRepository(db, logger),
		Offer:    NewOfferRepository(db, logger),
		Coupon:   NewCouponRepository(db, logger),
		Order:    NewOrderRepository(db, logger),
		Wallet:   NewWalletRepository(db, logger),
		Cart:     NewCartRepository(db, logger),
		User:     NewUserRepository(db),
		Address:  NewAddressRepository(db),
		Tx:       NewTxManager(db),
	}
}
