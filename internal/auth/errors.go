package auth

import "errors"

var (
	ErrNameRequired    = errors.New("Account name is required")
	ErrInvalidAPIKey   = errors.New("Invalid API key")
	ErrAccountNotFound = errors.New("Account not found")
)
