package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/pkg/errors"
)

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, brand, category_id, images, is_deleted, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	var categoryID sql.NullString
	var brand sql.NullString

	err := exec(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&brand,
		&categoryID,
		pq.Array(&product.Images),
		&product.IsDeleted,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get product", zap.Error(err))
		return nil, err
	}

	if brand.Valid {
		product.Brand = brand.String
	}
	if categoryID.Valid {
		cid, err := uuid.Parse(categoryID.String)
		if err != nil {
			return nil, err
		}
		product.CategoryID = &cid
	}

	variants, err := r.variantsByProductID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.Variants = variants

	return &product, nil
}

func (r *productRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, name, brand, category_id, images, is_deleted, created_at, updated_at
		FROM products
		WHERE is_deleted = FALSE
		ORDER BY name
	`

	rows, err := exec(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var product domain.Product
		var categoryID sql.NullString
		var brand sql.NullString
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&brand,
			&categoryID,
			pq.Array(&product.Images),
			&product.IsDeleted,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if brand.Valid {
			product.Brand = brand.String
		}
		if categoryID.Valid {
			cid, err := uuid.Parse(categoryID.String)
			if err != nil {
				return nil, err
			}
			product.CategoryID = &cid
		}
		products = append(products, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range products {
		variants, err := r.variantsByProductID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Variants = variants
	}

	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	query := `
		INSERT INTO products (id, name, brand, category_id, images, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`

	_, err := exec(ctx, r.db).ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Brand,
		product.CategoryID,
		pq.Array(product.Images),
		product.IsDeleted,
	)
	if err != nil {
		r.logger.Error("Failed to create product", zap.Error(err))
		return err
	}

	for i := range product.Variants {
		v := &product.Variants[i]
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		_, err := exec(ctx, r.db).ExecContext(ctx, `
			INSERT INTO product_variants (id, product_id, size, price, stock)
			VALUES ($1, $2, $3, $4, $5)
		`, v.ID, product.ID, v.Size, v.Price, v.Stock)
		if err != nil {
			r.logger.Error("Failed to create product variant", zap.Error(err))
			return err
		}
	}

	return nil
}

// AdjustStock applies a signed delta to the variant identified by product
// and size. The stock CHECK constraint keeps the column non-negative.
func (r *productRepository) AdjustStock(ctx context.Context, productID uuid.UUID, size string, delta int) error {
	query := `
		UPDATE product_variants
		SET stock = stock + $3
		WHERE product_id = $1 AND size = $2
	`

	result, err := exec(ctx, r.db).ExecContext(ctx, query, productID, size, delta)
	if err != nil {
		r.logger.Error("Failed to adjust stock", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "variant", ID: size}
	}

	return nil
}

func (r *productRepository) variantsByProductID(ctx context.Context, productID uuid.UUID) ([]domain.Variant, error) {
	rows, err := exec(ctx, r.db).QueryContext(ctx, `
		SELECT id, size, price, stock
		FROM product_variants
		WHERE product_id = $1
		ORDER BY size
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var variants []domain.Variant
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.Size, &v.Price, &v.Stock); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
