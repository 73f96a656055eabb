package auth

import "errors"

var (
	ErrPwdWrong        = errors.New("invalid email or password")
	ErrTokenDuplicated = errors.New("access token already registered")
	ErrTokenNotFound   = errors.New("access token not found")
	ErrBusinessExists  = errors.New("business already registered")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidBusiness = errors.New("business key must have 2-60 letters, digits or dashes")
	ErrUserDisabled    = errors.New("user disabled")
	OTPCodeExist       = errors.New("otp code has exist")
	OTPCodeWrong       = errors.New("otp code wrong")
)
