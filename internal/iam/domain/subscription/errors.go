package subscription

import "errors"

var (
	ErrForbidden          = errors.New("only the business admin manages the subscription")
	ErrOwnerNotFound      = errors.New("business has no admin account")
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrTrialUsed          = errors.New("trial already used for this business")
	ErrAlreadyActive      = errors.New("subscription already active")
	ErrNoPendingCheckout  = errors.New("no pending checkout for this order")
	ErrPaymentIncomplete  = errors.New("payment not completed")
	ErrPaymentUnavailable = errors.New("payment provider unavailable")
	ErrNotSubscribed      = errors.New("no subscription to cancel")
)
