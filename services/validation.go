package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/quonaro/portfolio-backend/errs"
	"github.com/quonaro/portfolio-backend/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("strNotEmpty", strNotEmpty); err != nil {
		panic(err)
	}
	return v
}

// strNotEmpty rejects empty and whitespace-only strings
func strNotEmpty(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

// ValidateProject checks a draft before it is sent to the store.
func ValidateProject(p models.Project) error {
	if strings.TrimSpace(p.Name.EN) == "" {
		return errs.NewMissingRequiredFieldError("name.en")
	}
	if len(p.Buttons) > models.MaxButtons {
		return errs.NewButtonLimitError(models.MaxButtons)
	}

	err := validate.Struct(p)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return errs.NewInvalidFieldError(fieldPath(fe), msgForTag(fe))
	}
	return err
}

// fieldPath turns "Project.media[0].url" into "media[0].url".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "strNotEmpty":
		return "must not be empty or contain only whitespace characters"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s entries", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	}
	return fe.Error()
}
