package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var invoiceNumberRe = regexp.MustCompile(`^INV-\d{4}-\d{3,}$`)

// registerCustomRules adds the domain validation tags.
func registerCustomRules(v *validator.Validate) {
	_ = v.RegisterValidation("plan_tier", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "basico", "estandar", "premium":
			return true
		}
		return false
	})

	_ = v.RegisterValidation("invoice_number", func(fl validator.FieldLevel) bool {
		return invoiceNumberRe.MatchString(fl.Field().String())
	})
}
