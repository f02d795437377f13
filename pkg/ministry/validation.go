package ministry

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared struct validator. Field names in reported
// errors use the json tag of the field.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// notBlank rejects strings made only of whitespace and zero values of other
// kinds. The field value itself is left as submitted.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.String {
		return strings.TrimSpace(field.String()) != ""
	}
	return !field.IsZero()
}

// ValidateStruct runs presence checks on a request and translates failures
// into a *ValidationError listing every offending field.
func ValidateStruct(ctx context.Context, s interface{}) error {
	err := Validator().StructCtx(ctx, s)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}

	fields := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, fe.Field())
	}
	return NewValidationError("missing required fields", fields...)
}
