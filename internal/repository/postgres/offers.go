package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/pkg/errors"
)

type offerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *sql.DB, logger *zap.Logger) *offerRepository {
	return &offerRepository{
		db:     db,
		logger: logger,
	}
}

const offerColumns = `id, name, description, discount_type, discount_value, max_discount_amount,
	start_date, end_date, applicable_to, target_id, created_at`

func (r *offerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE id = $1`

	offer, err := r.scanOffer(exec(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "offer", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get offer", zap.Error(err))
		return nil, err
	}
	return offer, nil
}

// FindActiveForTarget resolves the single offer whose validity window
// contains now for the given target, or nil. The partial unique index on
// (applicable_to, target_id) for overlapping windows guarantees at most
// one row qualifies.
func (r *offerRepository) FindActiveForTarget(ctx context.Context, scope domain.OfferScope, targetID uuid.UUID, now time.Time) (*domain.Offer, error) {
	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE applicable_to = $1 AND target_id = $2
		  AND start_date <= $3 AND end_date >= $3
		LIMIT 1
	`

	offer, err := r.scanOffer(exec(ctx, r.db).QueryRowContext(ctx, query, scope, targetID, now))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to find active offer", zap.Error(err))
		return nil, err
	}
	return offer, nil
}

// Create inserts the offer after rejecting a window overlap with any
// existing offer for the same target.
func (r *offerRepository) Create(ctx context.Context, offer *domain.Offer) error {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}

	var overlapping bool
	err := exec(ctx, r.db).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM offers
			WHERE target_id = $1 AND start_date <= $3 AND end_date >= $2
		)
	`, offer.TargetID, offer.StartDate, offer.EndDate).Scan(&overlapping)
	if err != nil {
		return err
	}
	if overlapping {
		return &errors.ErrConflict{Message: "an offer already exists for this target during the specified date range"}
	}

	query := `
		INSERT INTO offers (id, name, description, discount_type, discount_value, max_discount_amount,
			start_date, end_date, applicable_to, target_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`

	_, err = exec(ctx, r.db).ExecContext(ctx, query,
		offer.ID,
		offer.Name,
		offer.Description,
		offer.DiscountType,
		offer.DiscountValue,
		offer.MaxDiscountAmount,
		offer.StartDate,
		offer.EndDate,
		offer.ApplicableTo,
		offer.TargetID,
	)
	if err != nil {
		r.logger.Error("Failed to create offer", zap.Error(err))
	}
	return err
}

func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := exec(ctx, r.db).ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete offer", zap.Error(err))
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "offer", ID: id.String()}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *offerRepository) scanOffer(row rowScanner) (*domain.Offer, error) {
	var offer domain.Offer
	var description sql.NullString
	var maxDiscount sql.NullFloat64

	err := row.Scan(
		&offer.ID,
		&offer.Name,
		&description,
		&offer.DiscountType,
		&offer.DiscountValue,
		&maxDiscount,
		&offer.StartDate,
		&offer.EndDate,
		&offer.ApplicableTo,
		&offer.TargetID,
		&offer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		offer.Description = description.String
	}
	if maxDiscount.Valid {
		offer.MaxDiscountAmount = &maxDiscount.Float64
	}
	return &offer, nil
}
