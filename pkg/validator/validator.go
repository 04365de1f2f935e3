package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError describe una falla de validación de un campo concreto.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("campo '%s' falla la regla '%s=%s'", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("campo '%s' falla la regla '%s'", e.Field, e.Tag)
}

// Struct valida los tags `validate` de data y devuelve las fallas encontradas.
func Struct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Tag: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: strings.ToLower(fe.Field()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// FirstMessage devuelve el mensaje de la primera falla, o "" si no hay fallas.
func FirstMessage(errs []FieldError) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Error()
}
