package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// messages maps "Struct.Field.tag" to the notice shown to the user.
var messages = map[string]string{
	"Post.Title.required":           "Please enter a title!",
	"Post.Content.required":         "Please enter some content!",
	"Post.AuthorID.required":        "A post needs an author!",
	"Comment.Content.required":      "Please write a comment!",
	"Comment.PostID.required":       "A comment needs a post!",
	"Comment.AuthorID.required":     "A comment needs an author!",
	"SignUpForm.Name.required":      "Please enter a name!",
	"SignUpForm.Name.max":           "Name must be at most 10 characters!",
	"SignUpForm.Password.required":  "Please enter a password!",
	"SignUpForm.Password.min":       "Password must be at least 6 characters!",
	"SignUpForm.RePassword.eqfield": "Passwords do not match!",
	"SignUpForm.Gender.oneof":       "Gender must be m, f or x!",
	"SignUpForm.Bio.required":       "Please enter a short bio!",
	"SignUpForm.Bio.max":            "Bio must be at most 30 characters!",
	"User.Name.required":            "Please enter a name!",
	"User.Name.max":                 "Name must be at most 10 characters!",
	"User.Gender.oneof":             "Gender must be m, f or x!",
	"User.Bio.required":             "Please enter a short bio!",
	"User.Bio.max":                  "Bio must be at most 30 characters!",
}

// ValidationError is a user-correctable input problem. Message is safe to show.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for checks the validator cannot express.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Check runs struct validation and converts the first failure into a ValidationError.
func Check(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	key := fe.StructNamespace() + "." + fe.Tag()
	msg, ok := messages[key]
	if !ok {
		msg = fmt.Sprintf("%s is invalid!", fe.Field())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
