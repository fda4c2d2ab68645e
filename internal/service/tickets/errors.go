package tickets

import "errors"

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrNotOwner       = errors.New("ticket belongs to another user")
)
