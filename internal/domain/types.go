package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser     Role = "user"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Privileged reports whether the role bypasses the customer booking window.
func (r Role) Privileged() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// Actor is the authenticated caller as extracted from the access token.
type Actor struct {
	UserID int64
	Role   Role
}

type Movie struct {
	ID    int64
	Title string
}

type Cinema struct {
	ID   int64
	Name string
	City string
}

type Room struct {
	ID       int64
	CinemaID int64
	Name     string
	Capacity int
}

type Seat struct {
	ID     int64
	RoomID int64
	Number int
}

type SeatWithStatus struct {
	Seat
	Booked bool
}

// TicketType carries the authoritative unit price. Client-declared prices
// are never trusted for charge computation.
type TicketType struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

type Screening struct {
	ID       int64
	MovieID  int64
	CinemaID int64
	RoomID   int64
	Starts   time.Time
	Ends     time.Time
}

// ScreeningSummary is a screening joined with its availability counters,
// as shown on public listings.
type ScreeningSummary struct {
	Screening
	MovieTitle  string
	TotalSeats  int64
	BookedSeats int64
	SeatsLeft   int64
}

// Availability is the per-screening seat arithmetic. BookedSeats + SeatsLeft
// always equals TotalSeats; it is derived from a transactional count of
// ticket rows, never from a stored counter.
type Availability struct {
	TotalSeats  int64 `json:"total_seats"`
	BookedSeats int64 `json:"booked_seats"`
	SeatsLeft   int64 `json:"seats_left"`
}

// CountAvailability derives the counters from a seat total and a booked
// count. SeatsLeft is clamped at zero: soft-deleting seats under already
// issued tickets can push the booked count past the seat total, and a
// negative seats_left must never reach a client.
func CountAvailability(total, booked int64) Availability {
	left := total - booked
	if left < 0 {
		left = 0
	}

	return Availability{TotalSeats: total, BookedSeats: booked, SeatsLeft: left}
}

type Ticket struct {
	ID           uuid.UUID
	ScreeningID  int64
	UserID       int64
	SeatID       int64
	TicketTypeID int64
	QRCode       string
	CreatedAt    time.Time
}

// TicketDetail is a ticket joined with the screening context a customer
// needs at the door.
type TicketDetail struct {
	Ticket
	MovieTitle string
	CinemaName string
	RoomName   string
	SeatNumber int
	Starts     time.Time
}
