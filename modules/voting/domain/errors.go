package domain

import "errors"

// ErrNoConnection is returned when the store cannot hand out a database connection.
var ErrNoConnection = errors.New("no connection available")
