package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the bun-backed identity store. It extends the gateway contract
// with the administrative operations the HTTP surface does not expose.
type Users interface {
	IdentityStore

	// SoftDelete marks the record as logically deleted; the row survives
	// but disappears from every lookup and uniqueness check.
	SoftDelete(ctx context.Context, id int64) error
	// UpdateStatus moves the account through its lifecycle, rejecting
	// transitions the lifecycle table does not allow.
	UpdateStatus(ctx context.Context, id int64, target UserStatus) (*User, error)
	// Migrate creates the users schema, including the partial unique
	// index that enforces email uniqueness among non-deleted rows.
	Migrate(ctx context.Context) error
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns the bun implementation of the identity store
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (r *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	user := new(User)
	err := r.db.NewSelect().
		Model(user).
		Where("usr.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapLookupError(err, "email", email)
	}
	return user, nil
}

func (r *users) FindByID(ctx context.Context, id int64) (*User, error) {
	user := new(User)
	err := r.db.NewSelect().
		Model(user).
		Where("usr.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapLookupError(err, "id", id)
	}
	return user, nil
}

func (r *users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*User)(nil)).
		Where("usr.email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check email existence")
	}
	return exists, nil
}

func (r *users) Save(ctx context.Context, user *User) (*User, error) {
	var err error
	if user.ID == 0 {
		_, err = r.db.NewInsert().Model(user).Exec(ctx)
	} else {
		_, err = r.db.NewUpdate().Model(user).WherePK().Exec(ctx)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to save user")
	}
	return user, nil
}

func (r *users) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("last_login_at = ?", at).
		Set("login_attempts = 0").
		Set("login_attempt_at = NULL").
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to update last login")
	}
	return nil
}

func (r *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	now := time.Now()
	user.LoginAttempts++
	user.LoginAttemptAt = &now

	_, err := r.db.NewUpdate().
		Model(user).
		Column("login_attempts", "login_attempt_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to track login attempt")
	}
	return nil
}

func (r *users) UpdateStatus(ctx context.Context, id int64, target UserStatus) (*User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := TransitionStatus(user, target); err != nil {
		return nil, err
	}

	now := time.Now()
	user.UpdatedAt = &now

	_, err = r.db.NewUpdate().
		Model(user).
		Column("status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user status")
	}

	return user, nil
}

func (r *users) SoftDelete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*User)(nil)).
		Where("usr.id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}
	return nil
}

func (r *users) Migrate(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}

	// Partial index: uniqueness only applies to non-deleted rows, so an
	// email freed by a soft delete can be registered again.
	if _, err := r.db.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_active_idx ON users (email) WHERE deleted_at IS NULL`,
	); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create email index")
	}

	return nil
}

func wrapLookupError(err error, field string, value any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("user not found", errors.CategoryNotFound).
			WithCode(errors.CodeNotFound).
			WithMetadata(map[string]any{field: value})
	}
	return errors.Wrap(err, errors.CategoryInternal, "user lookup failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
