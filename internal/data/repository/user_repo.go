package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByPhone(ctx context.Context, phone string) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	FindByVerificationStatus(ctx context.Context, status entity.VerificationStatus, role entity.UserRole) ([]*entity.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, email, passwordHash string) (*entity.User, error)
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status entity.VerificationStatus, notes *string, adminID uuid.UUID) error
	UpdateAccountStatus(ctx context.Context, id uuid.UUID, status entity.AccountStatus) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ErrUserNotFound is returned by writes that matched no live row.
var ErrUserNotFound = errors.New("user not found")

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `
	id, firstname, lastname, email, phone, password_hash, role, profile_image_url,
	email_verified, phone_verified, account_status, is_available, last_login_at,
	license_number, license_url, license_expiry_date, aadhar_number, aadhar_url,
	verification_status, verification_notes, verified_by, verified_at,
	created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Firstname,
		&user.Lastname,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Role,
		&user.ProfileImageURL,
		&user.EmailVerified,
		&user.PhoneVerified,
		&user.AccountStatus,
		&user.IsAvailable,
		&user.LastLoginAt,
		&user.LicenseNumber,
		&user.LicenseURL,
		&user.LicenseExpiryDate,
		&user.AadharNumber,
		&user.AadharURL,
		&user.VerificationStatus,
		&user.VerificationNotes,
		&user.VerifiedBy,
		&user.VerifiedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, firstname, lastname, email, phone, password_hash, role,
		                   profile_image_url, email_verified, phone_verified, account_status,
		                   is_available, license_number, license_url, license_expiry_date,
		                   aadhar_number, aadhar_url, verification_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Firstname,
		user.Lastname,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.ProfileImageURL,
		user.EmailVerified,
		user.PhoneVerified,
		user.AccountStatus,
		user.IsAvailable,
		user.LicenseNumber,
		user.LicenseURL,
		user.LicenseExpiryDate,
		user.AadharNumber,
		user.AadharURL,
		user.VerificationStatus,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("role", string(user.Role)),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` AND deleted_at IS NULL`

	user, err := scanUser(ur.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := ur.findOne(ctx, "id = $1", id)
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}
	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "email = $1", email)
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	return user, nil
}

func (ur *userRepository) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "phone = $1", phone)
	if err != nil {
		ur.log.Error("Failed to find user by phone", zap.Error(err), zap.String("phone", phone))
		return nil, fmt.Errorf("find user by phone %s: %w", phone, err)
	}
	return user, nil
}

func (ur *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := ur.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	// Check for errors during iteration (not just database errors)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

// FindAll retrieves paginated list of users
func (ur *userRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	users, err := ur.queryUsers(ctx, query, limit, offset)
	if err != nil {
		ur.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}
	return users, nil
}

func (ur *userRepository) FindByVerificationStatus(ctx context.Context, status entity.VerificationStatus, role entity.UserRole) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE verification_status = $1 AND role = $2 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	users, err := ur.queryUsers(ctx, query, status, role)
	if err != nil {
		ur.log.Error("Failed to find users by verification status",
			zap.Error(err),
			zap.String("status", string(status)),
			zap.String("role", string(role)),
		)
		return nil, fmt.Errorf("find users by verification status %s: %w", status, err)
	}
	return users, nil
}

func (ur *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) AND deleted_at IS NULL`

	users, err := ur.queryUsers(ctx, query, ids)
	if err != nil {
		ur.log.Error("Failed to find users by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find users by IDs: %w", err)
	}
	return users, nil
}

func (ur *userRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`

	var count int64
	if err := ur.db.QueryRow(ctx, query).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count all users: %w", err)
	}

	return count, nil
}

// Update writes the mutable profile columns. Last write wins; there is no version check.
func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET firstname = $2, lastname = $3, phone = $4, profile_image_url = $5,
		    account_status = $6, is_available = $7,
		    license_number = $8, license_url = $9, license_expiry_date = $10,
		    aadhar_number = $11, aadhar_url = $12, updated_at = $13
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Firstname,
		user.Lastname,
		user.Phone,
		user.ProfileImageURL,
		user.AccountStatus,
		user.IsAvailable,
		user.LicenseNumber,
		user.LicenseURL,
		user.LicenseExpiryDate,
		user.AadharNumber,
		user.AadharURL,
		user.UpdatedAt,
	)
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update user %s: %w", user.ID.String(), ErrUserNotFound)
	}

	return nil
}

func (ur *userRepository) UpdatePassword(ctx context.Context, email, passwordHash string) (*entity.User, error) {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE email = $1 AND deleted_at IS NULL
		RETURNING ` + userColumns

	user, err := scanUser(ur.db.QueryRow(ctx, query, email, passwordHash))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update password for %s: %w", email, ErrUserNotFound)
	}
	if err != nil {
		ur.log.Error("Failed to update password", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("update password for %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, status entity.VerificationStatus, notes *string, adminID uuid.UUID) error {
	query := `
		UPDATE users
		SET verification_status = $2, verification_notes = $3, verified_by = $4,
		    verified_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query, id, status, notes, adminID)
	if err != nil {
		ur.log.Error("Failed to update verification status",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update verification status of %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update verification status of %s: %w", id.String(), ErrUserNotFound)
	}

	return nil
}

func (ur *userRepository) UpdateAccountStatus(ctx context.Context, id uuid.UUID, status entity.AccountStatus) error {
	query := `
		UPDATE users
		SET account_status = $2, is_available = false, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query, id, status)
	if err != nil {
		ur.log.Error("Failed to update account status",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update account status of %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update account status of %s: %w", id.String(), ErrUserNotFound)
	}

	return nil
}

func (ur *userRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	query := `UPDATE users SET is_available = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := ur.db.Exec(ctx, query, id, available)
	if err != nil {
		ur.log.Error("Failed to set availability",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Bool("available", available),
		)
		return fmt.Errorf("set availability of %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("set availability of %s: %w", id.String(), ErrUserNotFound)
	}

	return nil
}

func (ur *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2 WHERE id = $1`

	if _, err := ur.db.Exec(ctx, query, id, at); err != nil {
		ur.log.Warn("Failed to record last login", zap.Error(err), zap.String("user_id", id.String()))
		return fmt.Errorf("touch last login of %s: %w", id.String(), err)
	}

	return nil
}
