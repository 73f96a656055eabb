package chat

import "errors"

var ErrInvalidInput = errors.New("message body must have between 1 and 2000 characters")
