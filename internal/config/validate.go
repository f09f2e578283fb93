package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"subgen/internal/services"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate ensures the configuration is usable. Field rules live in the
// struct tags; the first violation is reported by its TOML key.
func (c *Config) Validate() error {
	err := structValidator.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
	}
	return services.Wrap(services.ErrConfiguration, "config", "validate", describe(fieldErrs[0]), nil)
}

func describe(fe validator.FieldError) string {
	key := fe.Namespace()
	if _, rest, ok := strings.Cut(key, "."); ok {
		key = rest
	}
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fmt.Sprint(fe.Value()))
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", key, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", key, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", key, fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed the %q rule", key, fe.Tag())
	}
}
