package access

import "github.com/juju/errors"

const (
	// ErrUnauthenticated is returned when no user identity accompanies a request.
	ErrUnauthenticated = errors.ConstError("unauthenticated")

	// ErrForbidden is returned when the user lacks the capability an operation needs.
	ErrForbidden = errors.ConstError("access denied")

	// ErrOwnerRemovalForbidden is returned when the campaign owner is removed
	// from, or tries to leave, their own campaign. Ownership has to be
	// transferred or the campaign deleted instead.
	ErrOwnerRemovalForbidden = errors.ConstError("campaign owner cannot be removed from the campaign")

	// ErrOwnerRoleForbidden is returned when a role is assigned to the owner.
	ErrOwnerRoleForbidden = errors.ConstError("campaign owner cannot be given a role")

	// ErrNotFound is returned when a campaign or a role does not exist.
	ErrNotFound = errors.ConstError("not found")

	// ErrInvalidInput is returned for empty identifiers, unknown roles and
	// unknown capabilities.
	ErrInvalidInput = errors.ConstError("invalid input")
)
