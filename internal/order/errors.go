package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidInput      = errors.New("invalid order data")
	ErrConflict          = errors.New("order was changed by another request, reload and try again")
	ErrAdminOnly         = errors.New("only the business Admin can perform this action")
	ErrCreatorOnly       = errors.New("only the order creator can perform this action")
	ErrCreatorOrAdmin    = errors.New("only the order creator or the business Admin can perform this action")
	ErrPaymentProvider   = errors.New("payment provider unavailable")
	ErrPaymentIncomplete = errors.New("payment was not completed, the order is still pending payment")

	// ErrInvalidState agrupa as pré-condições de estado não atendidas.
	ErrInvalidState     = errors.New("order state does not allow this action")
	ErrOrderClosed      = fmt.Errorf("%w: order is already cancelled or paid", ErrInvalidState)
	ErrAlreadyCancelled = fmt.Errorf("%w: order is cancelled", ErrInvalidState)
	ErrProofsNotReady   = fmt.Errorf("%w: proofs are not ready for review yet", ErrInvalidState)
	ErrNotApproved      = fmt.Errorf("%w: the client has not approved the proofs", ErrInvalidState)
	ErrPaymentNotReady  = fmt.Errorf("%w: payment is not ready, the Admin must confirm a quote first", ErrInvalidState)
	ErrPaymentMismatch  = fmt.Errorf("%w: payment order does not match the pending payment", ErrInvalidState)
	ErrTooManyProofs    = fmt.Errorf("%w: an order accepts at most %d proofs", ErrInvalidState, MaxProofs)
)
