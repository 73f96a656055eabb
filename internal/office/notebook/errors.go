package notebook

import "errors"

var (
	ErrNotFound     = errors.New("note not found")
	ErrInvalidInput = errors.New("invalid input data")
	ErrForbidden    = errors.New("only the author or an Admin can change this note")
)
