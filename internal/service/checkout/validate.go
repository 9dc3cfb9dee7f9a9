package checkout

import (
	"regexp"
	"strings"

	"phoenixmart/internal/domain"
)

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{10,15}$`)
	zipcodePattern = regexp.MustCompile(`^[A-Za-z0-9-]{4,10}$`)
)

// validateAddress checks the delivery address before anything is resolved or
// written. State is the only optional field.
func validateAddress(in PlaceOrderInput) error {
	required := []struct {
		field string
		value string
	}{
		{"full_name", in.FullName},
		{"phone", in.Phone},
		{"street", in.Street},
		{"city", in.City},
		{"zipcode", in.Zipcode},
		{"country", in.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &domain.ValidationError{Field: f.field, Reason: "required"}
		}
	}
	if !phonePattern.MatchString(in.Phone) {
		return &domain.ValidationError{Field: "phone", Reason: "must be 10 to 15 digits"}
	}
	if !zipcodePattern.MatchString(in.Zipcode) {
		return &domain.ValidationError{Field: "zipcode", Reason: "must be 4 to 10 letters, digits or hyphens"}
	}
	return nil
}
