package personnel

import "errors"

var (
	ErrNotFound     = errors.New("personal record not found")
	ErrInvalidInput = errors.New("invalid input data")
	ErrForbidden    = errors.New("only Admin or Manager can manage personal records")
)
