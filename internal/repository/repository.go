package repository

import "errors"

// ErrNotFound is returned when a referenced user, movie or review does
// not exist. Handlers map it to a 404; services propagate it unchanged.
var ErrNotFound = errors.New("not found")
