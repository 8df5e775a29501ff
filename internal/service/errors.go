package service

import "errors"

// Validation failures surface as ErrValidation-wrapped errors so
// handlers can map them to 400s without string matching. Missing
// users/movies propagate as repository.ErrNotFound; anything else is a
// dependency failure and is passed through unchanged.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
)
