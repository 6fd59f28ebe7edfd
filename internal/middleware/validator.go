package middleware

import (
	"reflect"
	"strings"

	"github.com/Eursukkul/dormmate-service/internal/domain"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator adapts validator/v10 to echo.Validator. Field names in errors
// are the json names.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		return domain.ValidDay(domain.NormalizeDay(fl.Field().String()))
	})
	_ = v.RegisterValidation("meal", func(fl validator.FieldLevel) bool {
		return domain.ValidMealType(models.MealType(domain.NormalizeDay(fl.Field().String())))
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}
