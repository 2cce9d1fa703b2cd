package services

import (
	"errors"

	"myblog/app/models"
)

var (
	// ErrPermission is returned when the acting user is not the author of the resource.
	ErrPermission = errors.New("no permission")

	// ErrBadCredentials is returned by SignIn for an unknown name or wrong password.
	ErrBadCredentials = models.NewValidationError("password", "Wrong name or password!")
)
