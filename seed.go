package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// EnsureAdmin seeds the platform administrator on startup. It is a no-op
// when a non-deleted record already holds the admin email.
func EnsureAdmin(ctx context.Context, store IdentityStore, email, password string, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	if email == "" || password == "" {
		return errors.New("admin seed requires email and password", errors.CategoryBadInput)
	}

	exists, err := store.ExistsByEmail(ctx, email)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to check for existing admin")
	}
	if exists {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash admin password")
	}

	admin := &User{
		Name:         "Platform Admin",
		Email:        email,
		Role:         RoleAdmin,
		PasswordHash: hash,
		Status:       UserStatusActive,
	}

	if _, err := store.Save(ctx, admin); err != nil {
		// A concurrent boot may have seeded first; that is fine.
		if errors.Is(err, ErrEmailInUse) {
			return nil
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to seed admin user")
	}

	logger.Info("Admin user seeded", "email", email)
	return nil
}
