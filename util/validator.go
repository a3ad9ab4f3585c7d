package util

import (
	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var locationTypes = map[string]bool{
	model.LocationTypeHome:    true,
	model.LocationTypeOffice:  true,
	model.LocationTypeAirport: true,
	model.LocationTypeTrain:   true,
	model.LocationTypeWework:  true,
	model.LocationTypeOther:   true,
}

func init() {
	validate = validator.New()
	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)
	validate.RegisterValidation("locationtype", validateLocationType)
	validate.RegisterValidation("expiration", validateExpiration)
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90 && lat <= 90
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180 && lon <= 180
}

func validateLocationType(fl validator.FieldLevel) bool {
	return locationTypes[fl.Field().String()]
}

func validateExpiration(fl validator.FieldLevel) bool {
	seconds := int(fl.Field().Int())
	for _, allowed := range model.PresetExpirations {
		if seconds == allowed {
			return true
		}
	}
	return false
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
