package repository

import "errors"

var (
	ErrNoteNotFound        = errors.New("note not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAlreadyValidated    = errors.New("note already validated by this user")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrEmailTaken          = errors.New("email already registered")
)
