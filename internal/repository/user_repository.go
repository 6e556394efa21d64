package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, name, lastname, password_hash, date_of_birth, phone, address,
       is_verified, verify_code, verify_code_expires_at, reset_code, reset_code_expires_at,
       created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
        INSERT INTO users (id, email, name, lastname, password_hash, date_of_birth, phone, address,
                           is_verified, verify_code, verify_code_expires_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.LastName,
		user.PasswordHash,
		user.DateOfBirth,
		user.Phone,
		user.Address,
		user.IsVerified,
		user.VerifyCode,
		user.VerifyCodeExpiry,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.LastName,
		&user.PasswordHash,
		&user.DateOfBirth,
		&user.Phone,
		&user.Address,
		&user.IsVerified,
		&user.VerifyCode,
		&user.VerifyCodeExpiry,
		&user.ResetCode,
		&user.ResetCodeExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Update persists every mutable field in one statement; the per-row write
// serialization of the database is the only ordering between racing flows.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
        UPDATE users
        SET name = $2, lastname = $3, password_hash = $4, date_of_birth = $5, phone = $6,
            address = $7, is_verified = $8, verify_code = $9, verify_code_expires_at = $10,
            reset_code = $11, reset_code_expires_at = $12, updated_at = $13
        WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.LastName,
		user.PasswordHash,
		user.DateOfBirth,
		user.Phone,
		user.Address,
		user.IsVerified,
		user.VerifyCode,
		user.VerifyCodeExpiry,
		user.ResetCode,
		user.ResetCodeExpiry,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
