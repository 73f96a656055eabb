package rest_err

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

type Causes struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NewCause(field, message string) Causes {
	return Causes{
		Field:   field,
		Message: message,
	}
}

// NewBindError converte a falha de ShouldBind em 400. Erros de validação
// viram causes por campo; JSON malformado vira uma mensagem genérica.
func NewBindError(err error) *RestErr {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return NewPayloadTooLargeError(fmt.Sprintf("Corpo da requisição excede %d bytes.", tooLarge.Limit))
	}
	causes := BindCauses(err)
	if len(causes) == 0 {
		return NewBadRequestError("Corpo JSON inválido ou mal formatado.")
	}
	return NewBadRequestValidationError("Dados de entrada inválidos.", causes)
}

func BindCauses(err error) []Causes {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	causes := make([]Causes, 0, len(verrs))
	for _, fe := range verrs {
		causes = append(causes, NewCause(jsonName(fe.Field()), tagMessage(fe)))
	}
	return causes
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must have at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url", "http_url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}

// jsonName aproxima o nome do campo no JSON (PayPalOrderID -> payPalOrderID).
func jsonName(field string) string {
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
