package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for the domain enums.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register applies tag naming and aliases to v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("pwd", "min=6")
	v.RegisterAlias("signuprole", "oneof=user publisher")
	v.RegisterAlias("role", "oneof=user publisher admin")
	v.RegisterAlias("skill", "oneof=beginner intermediate advanced")
	v.RegisterAlias("career", "oneof='Web Development' 'Mobile Development' 'UI/UX' 'Data Science' 'Business' 'Other'")
	v.RegisterAlias("rating", "min=1,max=10")
	v.RegisterAlias("phone", "max=20")
}

// ToDetails converts validation/binding errors into a map[field]message.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return map[string]string{"payload": "is required"}
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return map[string]string{"payload": "is not valid JSON"}
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return map[string]string{field: "must be a " + typeName(ute.Type)}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "is invalid"}
}

// ToError aggregates every violated field into one 400 error.
func ToError(err error) *apperror.Error {
	return apperror.Validation(ToDetails(err))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value of the right type"
	}
	switch {
	case isNumberKind(t.Kind()):
		return "number"
	case t.Kind() == reflect.Bool:
		return "boolean"
	case t.Kind() == reflect.Slice:
		return "list"
	default:
		return t.Kind().String()
	}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + param + " is not present"
	case "email":
		return "must be a valid email"
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid id"

	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		if kind == reflect.Slice {
			return "must have at least " + param + " items"
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param

	case "oneof":
		return "must be one of: " + strings.Join(splitParams(param), ", ")

	// aliases report their own tag
	case "pwd":
		return "must be at least 6 characters long"
	case "signuprole":
		return "must be one of: user, publisher"
	case "role":
		return "must be one of: user, publisher, admin"
	case "skill":
		return "must be one of: beginner, intermediate, advanced"
	case "career":
		return "is not a supported career"
	case "rating":
		return "must be between 1 and 10"
	case "phone":
		return "must be at most 20 characters long"

	default:
		if param != "" {
			return fmt.Sprintf("failed '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("failed '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// splitParams splits a oneof parameter, honouring single-quoted values.
func splitParams(p string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote bool
	)
	for _, r := range p {
		switch {
		case r == '\'':
			quote = !quote
		case r == ' ' && !quote:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
