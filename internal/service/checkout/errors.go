package checkout

import "errors"

var (
	ErrInvalidLineItems     = errors.New("ticket request is empty or has a non-positive count")
	ErrScreeningNotFound    = errors.New("screening not found")
	ErrTicketTypeNotFound   = errors.New("ticket type not found")
	ErrPriceMismatch        = errors.New("declared total does not match ticket prices")
	ErrOutsideBookingWindow = errors.New("screening is outside the booking window")
	ErrInsufficientSeats    = errors.New("not enough free seats")
	ErrBookingConflict      = errors.New("conflict booking seats")
)
