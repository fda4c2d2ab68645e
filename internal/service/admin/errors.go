package admin

import (
	"errors"
)

var (
	ErrConflict           = errors.New("resource already exists")
	ErrNotFound           = errors.New("referenced resource does not exist")
	ErrNoRooms            = errors.New("no rooms given")
	ErrScreeningNotFound  = errors.New("screening not found")
	ErrInvalidTimeRange   = errors.New("screening must end after it starts")
	ErrNonPositivePrice   = errors.New("ticket type price must be positive")
	ErrNonPositiveSeating = errors.New("room needs a positive capacity")
)
