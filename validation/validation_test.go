package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	v := Violations{}
	Required("last_name", "  ", v)
	PositiveFloat("amount", 0, v)
	Date("date", "2025-02-30", v)
	Time("time", "25:00", v)
	Email("email", "not-an-email", v)
	OneOf("method", "Bitcoin", []string{"Espèces", "Chèque"}, v)
	ToothNumber("tooth", 19, v)
	ID("patient_id", 0, v)

	assert.Equal(t, Violations{
		"last_name":  "required",
		"amount":     "must_be_positive",
		"date":       "invalid_date",
		"time":       "invalid_time",
		"email":      "invalid_email",
		"method":     "invalid_choice",
		"tooth":      "invalid_tooth",
		"patient_id": "required",
	}, v)
}

func TestValidInputsLeaveNoViolations(t *testing.T) {
	v := Violations{}
	Required("last_name", "Haddad", v)
	PositiveFloat("amount", 10, v)
	RangeFloat("ratio", 0.5, 0, 1, v)
	Date("date", "2025-02-28", v)
	Date("birth_date", "", v)
	Time("time", "09:30", v)
	Email("email", "", v)
	Email("email2", "a@b.tn", v)
	OneOf("method", "Chèque", []string{"Espèces", "Chèque"}, v)
	ToothNumber("tooth", 48, v)
	ToothNumber("tooth2", 11, v)
	assert.True(t, v.Empty())
	assert.Nil(t, v.Map())
}
