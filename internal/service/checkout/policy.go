package checkout

import (
	"time"

	"github.com/cinechain/cinebook/internal/domain"
)

// checkBookingWindow is the role-gated booking rule. Customers may only book
// screenings that start strictly in the future and no further out than the
// rolling window. Staff bypass the upper bound entirely, which also lets the
// box office sell into a screening that has already started.
func checkBookingWindow(role domain.Role, starts, now time.Time, windowDays int) error {
	if role.Privileged() {
		return nil
	}

	if !starts.After(now) {
		return ErrOutsideBookingWindow
	}

	if starts.After(now.AddDate(0, 0, windowDays)) {
		return ErrOutsideBookingWindow
	}

	return nil
}
