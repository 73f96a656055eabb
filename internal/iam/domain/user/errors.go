package user

import "errors"

var (
	ErrEmailDuplicated    = errors.New("email already exists")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input data")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("action not allowed for this role")
	ErrInvalidRole        = errors.New("invalid role: accounts can only be Manager or Guest")
	ErrSeatLimit          = errors.New("seat limit reached for the current plan")
	ErrSelfDelete         = errors.New("admin cannot delete its own account")
	ErrNothingToUpdate    = errors.New("no fields to update")
)
