package handlers

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_service/internal/core/domain"
)

var registerValidatorsOnce sync.Once

// registerValidators teaches gin's validator about decimal.Decimal fields and
// the dgt0 tag (decimal strictly greater than zero and within the stored scale).
func registerValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		err = v.RegisterValidation("dgt0", decimalGreaterThanZero)
	})
	return err
}

// decimalValue exposes a decimal to the validator as its string form.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return d.IsPositive() && domain.HasValidScale(d)
}
