package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"shop_api/internal/domain"
	"shop_api/internal/utils"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report argument names the way clients spell them
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("graphql"); name != "" {
			return name
		}
		return strings.ToLower(f.Name[:1]) + f.Name[1:]
	})
	// max counts runes, bcrypt counts bytes
	if err := v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= utils.MaxPasswordBytes
	}); err != nil {
		panic(err)
	}
	return v
}

// check validates args and reports the first failing field as a validation error
func (r *Resolver) check(op string, args any) error {
	err := r.validate.Struct(args)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.WrapError(err, domain.EINTERNAL, op, "validation failed")
	}
	return domain.Errorf(domain.EVALIDATION, op, "%s", describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "bcryptlen":
		return fmt.Sprintf("%s must be at most %d bytes", fe.Field(), utils.MaxPasswordBytes)
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
