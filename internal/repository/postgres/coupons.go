package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/pkg/errors"
)

type couponRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *sql.DB, logger *zap.Logger) *couponRepository {
	return &couponRepository{
		db:     db,
		logger: logger,
	}
}

const couponColumns = `id, code, discount, start_date, expiry_date, max_uses, usage_count,
	minimum_purchase_amount, maximum_discount_amount, created_at`

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	coupon, err := scanCoupon(exec(ctx, r.db).QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "coupon", ID: code}
	}
	if err != nil {
		r.logger.Error("Failed to get coupon", zap.Error(err))
		return nil, err
	}
	return coupon, nil
}

func (r *couponRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	coupon, err := scanCoupon(exec(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "coupon", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get coupon", zap.Error(err))
		return nil, err
	}
	return coupon, nil
}

func (r *couponRepository) ListApplicable(ctx context.Context, orderAmount float64, now time.Time) ([]*domain.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE start_date <= $2 AND expiry_date >= $2
		  AND minimum_purchase_amount <= $1
		  AND (max_uses IS NULL OR usage_count < max_uses)
		ORDER BY code
	`

	rows, err := exec(ctx, r.db).QueryContext(ctx, query, orderAmount, now)
	if err != nil {
		r.logger.Error("Failed to list applicable coupons", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var coupons []*domain.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}
	return coupons, rows.Err()
}

func (r *couponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	coupon.Code = strings.ToUpper(coupon.Code)

	query := `
		INSERT INTO coupons (id, code, discount, start_date, expiry_date, max_uses, usage_count,
			minimum_purchase_amount, maximum_discount_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`

	_, err := exec(ctx, r.db).ExecContext(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.Discount,
		coupon.StartDate,
		coupon.ExpiryDate,
		coupon.MaxUses,
		coupon.UsageCount,
		coupon.MinimumPurchaseAmount,
		coupon.MaximumDiscountAmount,
	)
	if err != nil {
		r.logger.Error("Failed to create coupon", zap.Error(err))
	}
	return err
}

func (r *couponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	result, err := exec(ctx, r.db).ExecContext(ctx,
		`UPDATE coupons SET usage_count = usage_count + 1 WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to increment coupon usage", zap.Error(err))
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "coupon", ID: id.String()}
	}
	return nil
}

func scanCoupon(row rowScanner) (*domain.Coupon, error) {
	var coupon domain.Coupon
	var maxUses sql.NullInt64

	err := row.Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.Discount,
		&coupon.StartDate,
		&coupon.ExpiryDate,
		&maxUses,
		&coupon.UsageCount,
		&coupon.MinimumPurchaseAmount,
		&coupon.MaximumDiscountAmount,
		&coupon.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if maxUses.Valid {
		uses := int(maxUses.Int64)
		coupon.MaxUses = &uses
	}
	return &coupon, nil
}
