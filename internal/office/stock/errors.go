package stock

import "errors"

var (
	ErrNotFound     = errors.New("stock item not found")
	ErrInvalidInput = errors.New("invalid input data")
	ErrReadOnly     = errors.New("guests have read-only access to stocks")
)
