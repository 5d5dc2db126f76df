package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Phone string `validate:"phone"`
	Start string `validate:"hhmm"`
}

func TestCustomTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	assert.NoError(t, v.Struct(sample{Phone: "+919876543210", Start: "09:30"}))
	assert.NoError(t, v.Struct(sample{Phone: "9876543210", Start: "23:59:59"}))

	assert.Error(t, v.Struct(sample{Phone: "12345", Start: "09:30"}))
	assert.Error(t, v.Struct(sample{Phone: "+91-98765-43210", Start: "09:30"}))
	assert.Error(t, v.Struct(sample{Phone: "9876543210", Start: "9am"}))
}

func TestPhoneDigitBounds(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	cases := map[string]bool{
		"+155500001":        false,
		"+1555000001":       true,
		"+15550000001":      true,
		"+123456789012345":  true,
		"+1234567890123456": false,
	}
	for phone, ok := range cases {
		err := v.Struct(sample{Phone: phone, Start: "09:30"})
		if ok {
			assert.NoError(t, err, phone)
		} else {
			assert.Error(t, err, phone)
		}
	}
}

func TestRegisterGinIdempotent(t *testing.T) {
	require.NoError(t, RegisterGin())
	require.NoError(t, RegisterGin())
}
