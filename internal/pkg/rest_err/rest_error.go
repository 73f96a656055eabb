package rest_err

import "net/http"

// RestErr é o corpo JSON padrão de erro devolvido pela API.
type RestErr struct {
	Message   string   `json:"message"`
	Err       string   `json:"error"`
	Code      int      `json:"code"`
	RequestID string   `json:"request_id,omitempty"`
	Causes    []Causes `json:"causes,omitempty"`
}

func (r *RestErr) Error() string {
	return r.Message
}

// WithRequestID anexa o identificador da requisição para correlação com os logs.
func (r *RestErr) WithRequestID(id string) *RestErr {
	r.RequestID = id
	return r
}

func NewRestErr(message, err string, code int, causes []Causes) *RestErr {
	return &RestErr{
		Message: message,
		Err:     err,
		Code:    code,
		Causes:  causes,
	}
}

func NewBadRequestError(message string) *RestErr {
	return NewRestErr(message, ErrBadRequest, http.StatusBadRequest, nil)
}

func NewBadRequestValidationError(message string, causes []Causes) *RestErr {
	return NewRestErr(message, ErrBadRequest, http.StatusBadRequest, causes)
}

func NewUnauthorizedError(message string) *RestErr {
	return NewRestErr(message, ErrUnauthorized, http.StatusUnauthorized, nil)
}

func NewInternalServerError(message string, causes []Causes) *RestErr {
	return NewRestErr(message, ErrInternalServerError, http.StatusInternalServerError, causes)
}

func NewNotFoundError(message string) *RestErr {
	return NewRestErr(message, ErrNotFound, http.StatusNotFound, nil)
}

func NewForbiddenError(message string) *RestErr {
	return NewRestErr(message, ErrForbidden, http.StatusForbidden, nil)
}

// NewPlanRequiredError sinaliza que o plano do negócio não inclui o módulo.
func NewPlanRequiredError(message string) *RestErr {
	return NewRestErr(message, ErrPlanRequired, http.StatusForbidden, nil)
}

func NewExternalProviderError(message string, causes []Causes) *RestErr {
	return NewRestErr(message, ErrExternalProvider, http.StatusBadGateway, causes)
}

func NewConflictValidationError(message string, causes []Causes) *RestErr {
	return NewRestErr(message, ErrConflict, http.StatusConflict, causes)
}

func NewTooManyRequestsError(message string) *RestErr {
	return NewRestErr(message, ErrTooManyRequests, http.StatusTooManyRequests, nil)
}

// NewPayloadTooLargeError é usado quando o corpo passa do limite da rota.
func NewPayloadTooLargeError(message string) *RestErr {
	return NewRestErr(message, ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, nil)
}
