package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/pkg/errors"
)

// User and address records are owned by the account subsystem; settlement
// only needs existence checks, so these repositories are read-only.

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, first_name, last_name, email, is_blocked
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := exec(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.IsBlocked,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "user", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type addressRepository struct {
	db *sql.DB
}

func NewAddressRepository(db *sql.DB) *addressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	query := `
		SELECT id, user_id, full_name, street, city, state, pincode, phone
		FROM addresses
		WHERE id = $1
	`

	var addr domain.Address
	err := exec(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&addr.ID,
		&addr.UserID,
		&addr.FullName,
		&addr.Street,
		&addr.City,
		&addr.State,
		&addr.Pincode,
		&addr.Phone,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "address", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}
