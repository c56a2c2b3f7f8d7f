package ez

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fitdesk/internal/domain"
)

var (
	validatorsOnce sync.Once
	tagMessages    = map[string]string{
		"role":   "Invalid role",
		"status": "Invalid status",
	}
)

// RegisterValidators installs the role and status tags on gin's validator and
// reports field names by their json key.
func RegisterValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseRole(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseStatus(fl.Field().String())
			return err == nil
		})
	})
}

func validateStruct(obj any) error {
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(obj)
}
