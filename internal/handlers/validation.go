package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingFieldErrors converts a gin binding failure into the field-keyed map
// the API returns for 400s. Non-validator errors (malformed JSON, bad date
// strings) collapse to a single "error" key.
func bindingFieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field, msg := fieldMessage(fe)
		out[field] = msg
	}
	return out
}

func fieldMessage(fe validator.FieldError) (field, msg string) {
	switch fe.Field() {
	case "Title":
		return "title", "Title is required."
	case "StartDate":
		return "start_date", "Start date is required."
	case "Description":
		return "description", "The description is too long."
	case "Username":
		return "username", "A valid username is required."
	case "Email":
		if fe.Tag() == "email" {
			return "email", "Enter a valid email address."
		}
		return "email", "Email is required."
	case "FirstName":
		return "first_name", "The first name is too long."
	case "LastName":
		return "last_name", "The last name is too long."
	case "Password":
		return "password", "Password is required."
	case "PasswordConfirm":
		return "password_confirm", "Password confirmation is required."
	case "Refresh":
		return "refresh", "Refresh token is required."
	}
	return strings.ToLower(fe.Field()), "This field is invalid."
}
