package business

import "errors"

var (
	ErrNotFound        = errors.New("business not found")
	ErrInvalidInput    = errors.New("invalid input data")
	ErrForbidden       = errors.New("only the business admin can change the profile")
	ErrInvalidWebhook  = errors.New("webhook url must be an absolute http(s) url")
	ErrTooManyWebhooks = errors.New("too many webhook urls")
)
