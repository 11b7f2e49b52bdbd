package validator

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

var vnPhone = regexp.MustCompile(`^(0|\+84)[35789]\d{8}$`)

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
}

// IsPhone reports whether s is a Vietnamese mobile number. Spaces, dots and
// dashes are ignored.
func IsPhone(s string) bool {
	s = strings.NewReplacer(" ", "", ".", "", "-", "").Replace(strings.TrimSpace(s))
	return vnPhone.MatchString(s)
}

// IsEmail reports whether s is a well-formed email address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required", "required_if":
			errors[field] = "Vui lòng nhập thông tin này"
		case "email":
			errors[field] = "Email không hợp lệ"
		case "vnphone":
			errors[field] = "Số điện thoại không hợp lệ"
		case "min":
			errors[field] = "Giá trị quá ngắn (tối thiểu: " + err.Param() + ")"
		case "max":
			errors[field] = "Giá trị quá dài (tối đa: " + err.Param() + ")"
		case "gt", "gte":
			errors[field] = "Giá trị phải lớn hơn " + err.Param()
		default:
			errors[field] = "Giá trị không hợp lệ"
		}
	}
	return errors
}

// FieldErrors is a set of field-level messages usable as an error.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}
