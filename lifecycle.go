package auth

import (
	"github.com/goliatone/go-errors"
)

// ErrInvalidTransition is returned when a requested status change is not allowed
var ErrInvalidTransition = errors.New("invalid account status transition", errors.CategoryValidation).
	WithTextCode("INVALID_STATUS_TRANSITION").
	WithCode(errors.CodeBadRequest)

// statusTransitions defines the allowed account lifecycle moves. DISABLED is
// terminal: a disabled account can only be soft deleted, never reactivated.
var statusTransitions = map[UserStatus][]UserStatus{
	UserStatusActive:    {UserStatusSuspended, UserStatusDisabled},
	UserStatusSuspended: {UserStatusActive, UserStatusDisabled},
	UserStatusDisabled:  {},
}

// CanTransition reports whether the account may move between the two statuses
func CanTransition(from, to UserStatus) bool {
	if from == "" {
		from = UserStatusActive
	}
	if from == to {
		return false
	}
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionStatus applies a lifecycle change to the record after validating
// it against the transition table. The caller persists the result.
func TransitionStatus(u *User, target UserStatus) error {
	if !IsValidStatus(target) {
		return ErrInvalidTransition
	}

	u.EnsureStatus()
	if !CanTransition(u.Status, target) {
		return errors.Wrap(ErrInvalidTransition, errors.CategoryValidation, "invalid account status transition").
			WithTextCode("INVALID_STATUS_TRANSITION").
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{
				"from": u.Status,
				"to":   target,
			})
	}

	u.Status = target
	return nil
}
