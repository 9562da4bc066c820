package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type registerForm struct {
	Username string `form:"username" validate:"required,min=1,max=20"`
	Password string `form:"password" validate:"required,min=6,max=55,maxbytes=72"`
	Email    string `form:"email" validate:"required,email,max=50"`
}

type loginForm struct {
	Username string `form:"username" validate:"required,min=1,max=20"`
	Password string `form:"password" validate:"required,min=6,max=55"`
}

type dreamForm struct {
	DreamDescription string `form:"dream_description" validate:"required"`
}

// FieldErrors ошибки по имени поля формы.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// в сообщениях используем имена полей формы, а не структуры
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// bcrypt принимает не больше 72 байт, max считает руны
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return v
}

// validateForm возвращает nil, если форма валидна.
func validateForm(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	errs := FieldErrors{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs.Add("form", "Invalid form.")
		return errs
	}
	for _, fe := range ve {
		errs.Add(fe.Field(), fieldMessage(fe))
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("Field cannot be longer than %s bytes.", fe.Param())
	default:
		return "Invalid value."
	}
}
