package services

import (
	"errors"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/uscann/chemtrack/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags on in and reports failures as a
// validation error. Missing fields are listed by their JSON names.
func validateStruct(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return types.Internal(err)
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return types.BadRequest("Missing required fields: %s", strings.Join(missing, ", "))
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "email":
		return types.BadRequest("invalid email address %q", fe.Value())
	default:
		return types.BadRequest("invalid %s", fe.Field())
	}
}
