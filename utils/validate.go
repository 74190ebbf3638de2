package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("lat", func(fl validator.FieldLevel) bool {
		return IsValidLatitude(fl.Field().Float())
	})
	validate.RegisterValidation("lng", func(fl validator.FieldLevel) bool {
		return IsValidLongitude(fl.Field().Float())
	})
}

func IsValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func IsValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

// ValidateStruct checks the `validate` tags of a request DTO.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
