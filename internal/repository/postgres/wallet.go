package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
)

type walletRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWalletRepository creates a new wallet ledger repository
func NewWalletRepository(db *sql.DB, logger *zap.Logger) *walletRepository {
	return &walletRepository{
		db:     db,
		logger: logger,
	}
}

// LatestByUserID reads the most recent entry for the user. Inside a
// transaction the row is locked so concurrent credits serialize on it.
func (r *walletRepository) LatestByUserID(ctx context.Context, userID uuid.UUID) (*domain.WalletEntry, error) {
	query := `
		SELECT id, user_id, order_id, type, amount, balance, created_at
		FROM wallet_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		query += ` FOR UPDATE`
	}

	entry, err := scanWalletEntry(exec(ctx, r.db).QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get latest wallet entry", zap.Error(err))
		return nil, err
	}
	return entry, nil
}

func (r *walletRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.WalletEntry, error) {
	query := `
		SELECT id, user_id, order_id, type, amount, balance, created_at
		FROM wallet_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := exec(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list wallet entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.WalletEntry
	for rows.Next() {
		entry, err := scanWalletEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *walletRepository) Append(ctx context.Context, entry *domain.WalletEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO wallet_entries (id, user_id, order_id, type, amount, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := exec(ctx, r.db).ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.OrderID,
		entry.Type,
		entry.Amount,
		entry.Balance,
	)
	if err != nil {
		r.logger.Error("Failed to append wallet entry", zap.Error(err))
	}
	return err
}

func scanWalletEntry(row rowScanner) (*domain.WalletEntry, error) {
	var entry domain.WalletEntry
	var orderID sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&orderID,
		&entry.Type,
		&entry.Amount,
		&entry.Balance,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		oid, err := uuid.Parse(orderID.String)
		if err != nil {
			return nil, err
		}
		entry.OrderID = &oid
	}
	return &entry, nil
}
