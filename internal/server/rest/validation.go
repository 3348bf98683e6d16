package rest

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerValidationOnce sync.Once

// registerValidation hooks the notblank rule into gin's validator and makes
// field errors report the wire name (json or form tag) of a field.
func registerValidation() {
	registerValidationOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	})
}

// fieldErrors turns validator output into client-facing messages. It
// reports ok=false for errors that are not validation failures.
func fieldErrors(err error) (details []string, required bool, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false, false
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			required = true
			details = append(details, fe.Field()+" is required")
		default:
			details = append(details, fe.Field()+" is invalid")
		}
	}
	return details, required, true
}
