package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// ValidateStruct runs the validate tags of s and maps failures to the
// catalog's validation error format with loc ["body", field].
func ValidateStruct(s any) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()

		var msg, typ string
		switch fe.Tag() {
		case "required", "notblank":
			msg, typ = "Field required", "missing"
		case "email":
			msg, typ = "value is not a valid email address", "value_error"
		case "max":
			msg, typ = fmt.Sprintf("String should have at most %s characters", fe.Param()), "string_too_long"
		case "gt":
			msg, typ = fmt.Sprintf("Input should be greater than %s", fe.Param()), "greater_than"
		default:
			msg, typ = "Invalid value", "value_error"
		}
		out = append(out, ValidationError{Loc: []string{"body", field}, Msg: msg, Type: typ})
	}
	return out
}
