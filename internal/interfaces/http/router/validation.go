package router

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/inventory"
)

var validationOnce sync.Once

// registerValidations installs custom binding validations on gin's
// validator engine
func registerValidations() {
	validationOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return identity.Role(fl.Field().String()).IsValid()
		})

		_ = v.RegisterValidation("movementtype", func(fl validator.FieldLevel) bool {
			switch inventory.MovementType(fl.Field().String()) {
			case inventory.MovementIn, inventory.MovementOut, inventory.MovementTransfer:
				return true
			}
			return false
		})
	})
}
