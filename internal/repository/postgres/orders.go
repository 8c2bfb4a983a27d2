package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `id, user_id, address_id, total_price, shipping_fee, discount_amount,
	coupon_id, payment_method, transaction_id, payment_status, expected_delivery,
	rating, cancellation_reason, is_deleted, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	query := `
		INSERT INTO orders (id, user_id, address_id, total_price, shipping_fee, discount_amount,
			coupon_id, payment_method, transaction_id, payment_status, expected_delivery,
			rating, cancellation_reason, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`

	_, err := exec(ctx, r.db).ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.AddressID,
		order.TotalPrice,
		order.ShippingFee,
		order.DiscountAmount,
		order.CouponID,
		order.PaymentInfo.Method,
		order.PaymentInfo.TransactionID,
		order.PaymentInfo.Status,
		order.ExpectedDelivery,
		order.Rating,
		order.CancellationReason,
		order.IsDeleted,
	)
	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	for _, line := range order.Lines {
		_, err := exec(ctx, r.db).ExecContext(ctx, `
			INSERT INTO order_lines (order_id, product_id, variant_id, size, quantity, price,
				is_returned, return_reason, return_date, admin_approval)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			order.ID,
			line.ProductID,
			line.VariantID,
			line.Size,
			line.Quantity,
			line.Price,
			line.ReturnStatus.IsReturned,
			nullString(line.ReturnStatus.ReturnReason),
			line.ReturnStatus.ReturnDate,
			line.ReturnStatus.AdminApproval,
		)
		if err != nil {
			r.logger.Error("Failed to create order line", zap.Error(err))
			return err
		}
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(exec(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.Error(err))
		return nil, err
	}

	lines, err := r.linesByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return order, nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE is_deleted = FALSE
		ORDER BY created_at DESC
	`
	return r.list(ctx, query)
}

func (r *orderRepository) ListReturnRequested(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT DISTINCT ` + prefixColumns("o", orderColumns) + `
		FROM orders o
		JOIN order_lines l ON l.order_id = o.id
		WHERE l.is_returned = TRUE AND o.is_deleted = FALSE
		ORDER BY o.created_at DESC
	`
	return r.list(ctx, query)
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET payment_status = $2, rating = $3, cancellation_reason = $4, updated_at = NOW()
		WHERE id = $1
	`

	result, err := exec(ctx, r.db).ExecContext(ctx, query,
		order.ID,
		order.PaymentInfo.Status,
		order.Rating,
		order.CancellationReason,
	)
	if err != nil {
		r.logger.Error("Failed to update order", zap.Error(err))
		return err
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: order.ID.String()}
	}

	// Allowed line mutation is return status only
	for _, line := range order.Lines {
		_, err := exec(ctx, r.db).ExecContext(ctx, `
			UPDATE order_lines
			SET is_returned = $3, return_reason = $4, return_date = $5, admin_approval = $6
			WHERE order_id = $1 AND product_id = $2
		`,
			order.ID,
			line.ProductID,
			line.ReturnStatus.IsReturned,
			nullString(line.ReturnStatus.ReturnReason),
			line.ReturnStatus.ReturnDate,
			line.ReturnStatus.AdminApproval,
		)
		if err != nil {
			r.logger.Error("Failed to update order line", zap.Error(err))
			return err
		}
	}

	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, cancellationReason *string) error {
	query := `
		UPDATE orders
		SET payment_status = $2,
		    cancellation_reason = COALESCE($3, cancellation_reason),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := exec(ctx, r.db).ExecContext(ctx, query, id, status, cancellationReason)
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	return nil
}

func (r *orderRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result, err := exec(ctx, r.db).ExecContext(ctx,
		`UPDATE orders SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to soft delete order", zap.Error(err))
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	return nil
}

func (r *orderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := exec(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		lines, err := r.linesByOrderID(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Lines = lines
	}
	return orders, nil
}

func (r *orderRepository) linesByOrderID(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	rows, err := exec(ctx, r.db).QueryContext(ctx, `
		SELECT product_id, variant_id, size, quantity, price,
			is_returned, return_reason, return_date, admin_approval
		FROM order_lines
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		var returnReason sql.NullString
		var returnDate sql.NullTime
		if err := rows.Scan(
			&line.ProductID,
			&line.VariantID,
			&line.Size,
			&line.Quantity,
			&line.Price,
			&line.ReturnStatus.IsReturned,
			&returnReason,
			&returnDate,
			&line.ReturnStatus.AdminApproval,
		); err != nil {
			return nil, err
		}
		if returnReason.Valid {
			line.ReturnStatus.ReturnReason = returnReason.String
		}
		if returnDate.Valid {
			t := returnDate.Time
			line.ReturnStatus.ReturnDate = &t
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var couponID sql.NullString
	var transactionID sql.NullString
	var rating sql.NullInt64
	var cancellationReason sql.NullString

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.AddressID,
		&order.TotalPrice,
		&order.ShippingFee,
		&order.DiscountAmount,
		&couponID,
		&order.PaymentInfo.Method,
		&transactionID,
		&order.PaymentInfo.Status,
		&order.ExpectedDelivery,
		&rating,
		&cancellationReason,
		&order.IsDeleted,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if couponID.Valid {
		cid, err := uuid.Parse(couponID.String)
		if err != nil {
			return nil, err
		}
		order.CouponID = &cid
	}
	if transactionID.Valid {
		order.PaymentInfo.TransactionID = &transactionID.String
	}
	if rating.Valid {
		v := int(rating.Int64)
		order.Rating = &v
	}
	if cancellationReason.Valid {
		order.CancellationReason = &cancellationReason.String
	}
	return &order, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// prefixColumns qualifies each column in a comma-separated list with a
// table alias, for joined queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
