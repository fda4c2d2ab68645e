package httpgin

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketLineInput struct {
	TypeID int64 `json:"type_id" binding:"required"`
	Count  int   `json:"count" binding:"required,gt=0"`
	// Client-declared unit price. Accepted for shape compatibility, never
	// trusted: charges are recomputed from stored ticket-type prices.
	TicketTypePrice decimal.Decimal `json:"ticket_type_price"`
}

type CardInput struct {
	Number string `json:"number" binding:"required"`
	CVV    string `json:"cvv" binding:"required"`
	Expiry string `json:"expiry" binding:"required"`
}

type CheckoutRequest struct {
	ScreeningID int64             `json:"screening_id" binding:"required"`
	TicketTypes []TicketLineInput `json:"ticket_types" binding:"required,min=1,dive"`
	TotalPrice  decimal.Decimal   `json:"total_price"`
	Card        CardInput         `json:"card" binding:"required"`
}

type CheckoutResponse struct {
	Message       string  `json:"message"`
	TicketsBooked int     `json:"tickets_booked"`
	SeatIDs       []int64 `json:"seat_ids"`
}

type ScreeningResponse struct {
	ID       int64     `json:"id"`
	MovieID  int64     `json:"movie_id"`
	CinemaID int64     `json:"cinema_id"`
	RoomID   int64     `json:"room_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type ScreeningSummaryResponse struct {
	ScreeningResponse
	MovieTitle  string `json:"movie_title"`
	TotalSeats  int64  `json:"total_seats"`
	BookedSeats int64  `json:"booked_seats"`
	SeatsLeft   int64  `json:"seats_left"`
}

type SeatResponse struct {
	ID     int64 `json:"id"`
	Number int   `json:"seat_number"`
	Booked bool  `json:"booked"`
}

type TicketTypeResponse struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type TicketResponse struct {
	ID         string    `json:"id"`
	MovieTitle string    `json:"movie_title"`
	CinemaName string    `json:"cinema_name"`
	RoomName   string    `json:"room_name"`
	SeatNumber int       `json:"seat_number"`
	StartsAt   time.Time `json:"starts_at"`
	QRCode     string    `json:"qr_code"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateMovieRequest struct {
	Title string `json:"title" binding:"required"`
}

type CreateCinemaRequest struct {
	Name string `json:"name" binding:"required"`
	City string `json:"city" binding:"required"`
}

type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
}

type AddSeatsRequest struct {
	Numbers []int `json:"numbers" binding:"required,min=1,dive,gt=0"`
}

type CreateTicketTypeRequest struct {
	Name  string          `json:"name" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

type CreateScreeningsRequest struct {
	MovieID  int64   `json:"movie_id" binding:"required"`
	CinemaID int64   `json:"cinema_id" binding:"required"`
	RoomIDs  []int64 `json:"room_ids" binding:"required,min=1,dive,required"`
	StartsAt string  `json:"starts_at" binding:"required"`
	EndsAt   string  `json:"ends_at" binding:"required"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type CreateScreeningsResponse struct {
	ScreeningIDs []int64 `json:"screening_ids"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type FieldErrorsResponse struct {
	Errors []string `json:"errors"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
