package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// JordanMobileRegex matches a local Jordanian mobile number (07X XXXXXXX)
	JordanMobileRegex = regexp.MustCompile(`^07[789][0-9]{7}$`)

	phoneNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the custom tags registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("jo_phone", func(fl validator.FieldLevel) bool {
		return JordanMobileRegex.MatchString(NormalizePhone(fl.Field().String()))
	})

	return &Validator{
		validate: v,
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to short Arabic messages keyed by field
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = "هذا الحقل مطلوب"
			case "jo_phone":
				errors[field] = "رقم الهاتف غير صحيح"
			case "min":
				errors[field] = fmt.Sprintf("القيمة أقل من الحد الأدنى (%s)", e.Param())
			case "max":
				errors[field] = fmt.Sprintf("القيمة أكبر من الحد الأعلى (%s)", e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("يجب أن تكون القيمة %s أو أكثر", e.Param())
			case "lte":
				errors[field] = fmt.Sprintf("يجب أن تكون القيمة %s أو أقل", e.Param())
			default:
				errors[field] = "قيمة غير صالحة"
			}
		}
	}

	return errors
}

// NormalizePhone strips separators and rewrites the +962/00962 prefix to the local 0 form
func NormalizePhone(phone string) string {
	phone = phoneNoise.Replace(strings.TrimSpace(phone))
	switch {
	case strings.HasPrefix(phone, "+962"):
		phone = "0" + strings.TrimPrefix(phone, "+962")
	case strings.HasPrefix(phone, "00962"):
		phone = "0" + strings.TrimPrefix(phone, "00962")
	case strings.HasPrefix(phone, "962") && len(phone) == 12:
		phone = "0" + strings.TrimPrefix(phone, "962")
	}
	return phone
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
