package services

import (
	"fmt"

	"github.com/givetrack/givetrack_backend/internal/apperrors"
	"github.com/givetrack/givetrack_backend/internal/core/domain"
)

// requireRole checks that the caller holds one of the allowed roles. Admins
// pass every role check.
func requireRole(caller domain.Caller, allowed ...domain.UserRole) error {
	if caller.Role == domain.RoleAdmin {
		return nil
	}
	for _, role := range allowed {
		if caller.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s may not perform this operation", apperrors.ErrForbidden, caller.Role)
}

// requireOwner checks that the caller is the named owner. Admins bypass
// ownership.
func requireOwner(caller domain.Caller, ownerUserID string) error {
	if caller.Role == domain.RoleAdmin {
		return nil
	}
	if caller.UserID != ownerUserID {
		return fmt.Errorf("%w: caller does not own this resource", apperrors.ErrForbidden)
	}
	return nil
}
