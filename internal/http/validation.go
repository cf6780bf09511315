package http

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldIssue describe el fallo de validación de un campo concreto.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var personNameRe = regexp.MustCompile(`^[a-zA-Z\s]+$`)

var registerOnce sync.Once

// registerValidators agrega reglas propias al validador de gin.
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
				return personNameRe.MatchString(fl.Field().String())
			})
		}
	})
}

// fieldIssues traduce errores del validador a issues por campo; devuelve
// nil cuando el error no proviene de validación (JSON malformado, etc.).
func fieldIssues(err error) []FieldIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	issues := make([]FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, FieldIssue{
			Field:   fe.Field(),
			Message: issueMessage(fe),
		})
	}
	return issues
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "personname":
		return "Name must contain only letters and spaces"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
