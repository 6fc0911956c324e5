package service

import (
	"errors"

	"orderdesk/internal/model"
)

var (
	ErrDuplicateUser      = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("login required")
	ErrPasswordTooLong    = errors.New("password is too long")

	ErrOrderNotFound   = errors.New("order not found")
	ErrNothingToDelete = errors.New("no processed orders to delete")
	ErrMissingOwner    = errors.New("order owner email is required")
	ErrOwnerNotFound   = errors.New("order owner does not exist")

	ErrInvalidStatus     = model.ErrInvalidStatus
	ErrInvalidTransition = model.ErrInvalidTransition
)
