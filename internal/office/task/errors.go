package task

import "errors"

var (
	ErrNotFound        = errors.New("task not found")
	ErrInvalidInput    = errors.New("invalid input data")
	ErrInvalidStatus   = errors.New("status must be Todo, In Progress or Done")
	ErrInvalidPriority = errors.New("priority must be Low, Medium or High")
	ErrForbidden       = errors.New("only the task owner or an Admin/Manager can change it")
	ErrReadOnly        = errors.New("guests cannot create tasks for other members")
)
