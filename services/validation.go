package services

import (
	"errors"
	"reflect"
	"strings"

	"autoshop-backend/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// numeric(10,2) upper bound
var maxAmount = decimal.New(1, 8)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// checkStruct runs the tag rules on v and reports failures by JSON path,
// e.g. "lineItems[2].description".
func checkStruct(v interface{}) ValidationErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fieldPath(fe.Namespace()), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This value should not be blank."
	case "min":
		if fe.Kind() == reflect.Slice {
			return "This collection should contain " + fe.Param() + " element or more."
		}
		return "This value is too short."
	case "uuid":
		return "This is not a valid UUID."
	case "datetime":
		return "This value is not a valid date."
	case "oneof":
		return "The value you selected is not a valid choice."
	case "e164":
		return "This value is not a valid phone number."
	}
	return "This value is not valid (" + fe.Tag() + ")."
}

type amountRule struct {
	required      bool
	allowNegative bool
}

// checkAmount applies the money rules the tag validator cannot express.
func checkAmount(errs *ValidationErrors, field string, in models.MoneyInput, rule amountRule) {
	switch {
	case in.Invalid:
		errs.add(field, "This value should be of type numeric.")
	case !in.Present:
		if rule.required {
			errs.add(field, "This value should not be blank.")
		}
	case !rule.allowNegative && in.Value.IsNegative():
		errs.add(field, "This value should be either positive or zero.")
	case models.NewMoney(in.Value).Abs().GreaterThanOrEqual(maxAmount):
		errs.add(field, "This value should be less than 100000000.")
	}
}
