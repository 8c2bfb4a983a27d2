package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
)

type cartRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB, logger *zap.Logger) *cartRepository {
	return &cartRepository{
		db:     db,
		logger: logger,
	}
}

func (r *cartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
		INSERT INTO cart_items (id, user_id, product_id, size, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	_, err := exec(ctx, r.db).ExecContext(ctx, query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Size,
		item.Quantity,
	)
	if err != nil {
		r.logger.Error("Failed to create cart item", zap.Error(err))
	}
	return err
}

func (r *cartRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, size, quantity, created_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := exec(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list cart items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Size,
			&item.Quantity,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// DeleteByIDs removes the given cart entries, scoped to the owner so a
// checkout can only consume its own cart.
func (r *cartRepository) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	idStrings := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrings = append(idStrings, id.String())
	}

	query := `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`

	_, err := exec(ctx, r.db).ExecContext(ctx, query, userID, pq.Array(idStrings))
	if err != nil {
		r.logger.Error("Failed to delete cart items", zap.Error(err))
	}
	return err
}
