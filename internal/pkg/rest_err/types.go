package rest_err

const (
	ErrBadRequest          = "bad_request"
	ErrUnauthorized        = "unauthorized"
	ErrInternalServerError = "internal_server_error"
	ErrNotFound            = "not_found"
	ErrForbidden           = "forbidden"
	ErrExternalProvider    = "external_provider_error"
	ErrConflict            = "conflict"
	ErrPlanRequired        = "plan_upgrade_required"
	ErrTooManyRequests     = "too_many_requests"
	ErrPayloadTooLarge     = "payload_too_large"
)
