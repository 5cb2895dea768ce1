// Package validate runs struct-tag validation through
// go-playground/validator and reports failures as a map of JSON field name to
// a readable message.
//
// On top of the validator built-ins it registers:
//
//	person_name     letters, spaces, apostrophes and hyphens only
//	category        one of the fixed book categories (empty allowed with omitempty)
//	order_status    Confirmed or Cancelled
//	role            user or admin
//	phone           7 to 15 digits, optional leading +
//	pincode         4 to 10 letters, digits or spaces
//
// Example:
//
//	type Input struct {
//	    Email string `json:"email" validate:"required,email"`
//	    Price float64 `json:"price" validate:"required,gt=0"`
//	}
//	if errs := validate.Struct(in); validate.HasErrors(errs) { ... }
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Categories is the fixed set of book categories.
var Categories = []string{
	"Fiction",
	"Non-Fiction",
	"Devotional",
	"Self Help",
	"Spiritual",
	"Religious",
	"Education",
	"Technology",
	"Biography",
}

var (
	once sync.Once
	v    *validator.Validate

	personNameRE = regexp.MustCompile(`^[\p{L}][\p{L} '\-]*$`)
	phoneRE      = regexp.MustCompile(`^\+?[0-9]+(?:[ -][0-9]+)*$`)
	pincodeRE    = regexp.MustCompile(`^[A-Za-z0-9 ]{4,10}$`)
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
			return personNameRE.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return IsCategory(fl.Field().String())
		})
		_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "Confirmed" || s == "Cancelled"
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "user" || s == "admin"
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsPhone(fl.Field().String())
		})
		_ = v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
			return pincodeRE.MatchString(fl.Field().String())
		})
	})
	return v
}

// IsPhone reports whether s is 7 to 15 digits with an optional leading "+".
// Single spaces or hyphens may separate digit groups.
func IsPhone(s string) bool {
	if !phoneRE.MatchString(s) {
		return false
	}
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n >= 7 && n <= 15
}

// IsCategory reports whether s is one of Categories.
func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

// Struct validates v. A nil or empty map means no errors.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)

	rv := reflect.ValueOf(s)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return errs
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	err := instance().Struct(s)
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		name := fieldPath(fe)
		if _, seen := errs[name]; seen {
			continue // first failing rule per field
		}
		errs[name] = message(name, fe)
	}
	return errs
}

// Var validates a single value against tag and returns the message for field,
// or "" when it passes.
func Var(field string, value interface{}, tag string) string {
	err := instance().Var(value, tag)
	if err == nil {
		return ""
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return message(field, verrs[0])
	}
	return err.Error()
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// fieldPath drops the top-level struct name from the namespace so nested
// fields read "items[0].bookId".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(field string, fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("The %s must be a valid UUID.", field)
	case "alpha":
		return fmt.Sprintf("The %s may only contain letters.", field)
	case "person_name":
		return fmt.Sprintf("The %s may only contain letters.", field)
	case "min":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s must have at least %s items.", field, param)
		}
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	case "max":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("The %s may not be greater than %s.", field, param)
		}
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", field, param)
	case "lt":
		return fmt.Sprintf("The %s must be less than %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s may not be greater than %s.", field, param)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "category":
		return fmt.Sprintf("The %s must be one of: %s.", field, strings.Join(Categories, ", "))
	case "order_status":
		return "Invalid status"
	case "role":
		return fmt.Sprintf("The %s must be user or admin.", field)
	case "phone":
		return fmt.Sprintf("The %s must be a valid phone number.", field)
	case "pincode":
		return fmt.Sprintf("The %s must be a valid postal code.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
