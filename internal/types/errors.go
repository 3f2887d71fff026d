package types

import "errors"

// Domain errors surfaced at the handler boundary. Handlers map these to HTTP
// statuses; none of them cross into the persistence layer.
var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidTransition  = errors.New("target status does not exist")
	ErrInvalidPriority    = errors.New("unknown priority")
	ErrProtectedColumn    = errors.New("protected column cannot be deleted")
	ErrSelfLockout        = errors.New("cannot disable or delete your own account")
	ErrEmailTaken         = errors.New("email already exists")
)
