package api

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"shifty/server/internal/matching"
)

var registerOnce sync.Once

// registerValidators adds the custom binding tags used by the request types
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("movedate", func(fl validator.FieldLevel) bool {
			_, err := matching.ParseMoveDate(fl.Field().String())
			return err == nil
		})
	})
}

// firstFieldMessage returns the message for the first field that failed
// validation. Errors come back in struct field order.
func firstFieldMessage(err error, messages map[string]string) (string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", false
	}
	msg, ok := messages[verrs[0].StructField()]
	return msg, ok
}
