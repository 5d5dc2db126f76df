package validation

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/medislot/appointment-backend/internal/calendar"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

var (
	once    sync.Once
	onceErr error
)

// Register adds the project's custom tags to v:
//
//	phone  10 to 15 digits with an optional leading +
//	hhmm   a wall-clock time, HH:MM or HH:MM:SS
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := calendar.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
}

// RegisterGin installs the custom tags on gin's default binding validator.
// Safe to call more than once.
func RegisterGin() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			onceErr = fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
			return
		}
		onceErr = Register(v)
	})
	return onceErr
}
