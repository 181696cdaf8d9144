package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/ndbelyaev/inkwell/internal/apperror"
)

// UserRepository defines the data access contract for user operations.
// All SQL lives in the concrete implementation -- no SQL leaks out.
//
// The store is the sole authority on name/email uniqueness: Create relies on
// the unique indexes, so two concurrent registrations for the same name can
// never both succeed regardless of what callers checked beforehand.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByName(ctx context.Context, name string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	NameExists(ctx context.Context, name string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

// Conflict messages shared by the fast-path checks in the service and the
// authoritative duplicate-key mapping below, so a lost race reads the same
// as a pre-check hit.
const (
	msgNameTaken  = "this name is already registered"
	msgEmailTaken = "this email is already registered"
)

// Unique index names from db/migrations; the duplicate-key error message
// carries the index name, which tells us which field collided.
const (
	idxDisplayName = "uq_users_display_name"
	idxEmail       = "uq_users_email"
)

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row. A duplicate display name or email is
// reported as a conflict error naming the colliding field; the unique
// indexes make the check-and-insert atomic with respect to concurrent
// registrations.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, email, display_name, password_hash, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if conflict := conflictFromDuplicate(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// conflictFromDuplicate translates a MySQL duplicate-key error (1062) into
// the matching conflict error, or returns nil for any other error.
func conflictFromDuplicate(err error) *apperror.AppError {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != 1062 {
		return nil
	}
	switch {
	case strings.Contains(mysqlErr.Message, idxEmail):
		return apperror.NewConflict(msgEmailTaken)
	case strings.Contains(mysqlErr.Message, idxDisplayName):
		return apperror.NewConflict(msgNameTaken)
	default:
		// Duplicate on the primary key -- a UUID collision would be a bug,
		// but surface it as a name conflict rather than a 500.
		return apperror.NewConflict(msgNameTaken)
	}
}

const userColumns = `id, email, display_name, password_hash, created_at, last_login_at`

// FindByID retrieves a user by their UUID.
// Returns apperror.NotFound if no user exists with this ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// FindByName retrieves a user by their display name. The lookup is
// case-sensitive: display_name uses a binary collation in the schema.
func (r *userRepository) FindByName(ctx context.Context, name string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE display_name = ?`, name)
}

// FindByEmail retrieves a user by their email address.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// findOne runs a single-row user query and maps sql.ErrNoRows to NotFound.
func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return user, nil
}

// NameExists returns true if a user with the given display name exists.
// Used as a registration fast path before the expensive password hash; the
// unique index remains the authority.
func (r *userRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE display_name = ?)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking name existence: %w", err)
	}
	return exists, nil
}

// EmailExists returns true if a user with the given email exists.
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return exists, nil
}

// UpdateLastLogin sets the last_login_at timestamp to now for the given user.
func (r *userRepository) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("updating last login: %w", err)
	}
	return nil
}
