package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/cinechain/cinebook/internal/domain"
	redisrepo "github.com/cinechain/cinebook/internal/repository/redis"
	"github.com/cinechain/cinebook/internal/service"
	"github.com/cinechain/cinebook/internal/service/admin"
	"github.com/cinechain/cinebook/internal/service/checkout"
	"github.com/cinechain/cinebook/internal/service/query"
	"github.com/cinechain/cinebook/internal/service/tickets"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	jwtSecret string,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public catalog
	r.GET("/screenings", handleListScreenings(svcs))
	r.GET("/screenings/:id", handleGetScreening(svcs))
	r.GET("/screenings/:id/availability", handleGetAvailability(svcs))
	r.GET("/screenings/:id/seats", handleSeatMap(svcs))
	r.GET("/ticket-types", handleListTicketTypes(svcs))

	// Authenticated
	authed := r.Group("", AuthRequired(jwtSecret))
	{
		authed.POST("/checkout/complete", handleCheckout(svcs, idem))
		authed.GET("/tickets", handleListMyTickets(svcs))
		authed.GET("/tickets/:id/qr", handleTicketQR(svcs))
	}

	// Staff API
	staff := r.Group("/admin", AuthRequired(jwtSecret), RequireRole(domain.RoleEmployee, domain.RoleAdmin))
	{
		staff.POST("/movies", handleCreateMovie(svcs))
		staff.POST("/cinemas", handleCreateCinema(svcs))
		staff.POST("/cinemas/:id/rooms", handleCreateRoom(svcs))
		staff.POST("/rooms/:id/seats", handleAddSeats(svcs))
		staff.POST("/ticket-types", handleCreateTicketType(svcs))
		staff.POST("/screenings", handleCreateScreenings(svcs))
		staff.DELETE("/screenings/:id", handleDeleteScreening(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List upcoming screenings with seats left
// @Param    limit  query  int  false "page size"
// @Param    offset query  int  false "offset"
// @Success  200  {array}   ScreeningSummaryResponse
// @Router   /screenings [get]
func handleListScreenings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 100)
		offset := parseIntDefault(c.Query("offset"), 0)

		list, err := svcs.Query.ListScreenings(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]ScreeningSummaryResponse, 0, len(list))
		for _, s := range list {
			out = append(out, toScreeningSummaryResponse(s))
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// @Summary  Get screening
// @Param    id  path  int  true  "Screening ID"
// @Success  200  {object}  ScreeningResponse
// @Failure  404  {object}  MessageResponse
// @Router   /screenings/{id} [get]
func handleGetScreening(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		s, err := svcs.Query.GetScreening(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toScreeningResponse(*s), "public, max-age=60", true)
	}
}

// @Summary  Get availability counters
// @Param    id  path  int  true  "Screening ID"
// @Success  200  {object}  domain.Availability
// @Router   /screenings/{id}/availability [get]
func handleGetAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		av, err := svcs.Query.Availability(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, av, "public, max-age=15", true)
	}
}

// @Summary  Seat map for a screening
// @Param    id  path  int  true  "Screening ID"
// @Success  200  {array}   SeatResponse
// @Router   /screenings/{id}/seats [get]
func handleSeatMap(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Query.SeatMap(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]SeatResponse, 0, len(seats))
		for _, s := range seats {
			out = append(out, SeatResponse{ID: s.ID, Number: s.Number, Booked: s.Booked})
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// @Summary  List ticket types
// @Success  200  {array}  TicketTypeResponse
// @Router   /ticket-types [get]
func handleListTicketTypes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tts, err := svcs.Query.ListTicketTypes(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		out := make([]TicketTypeResponse, 0, len(tts))
		for _, tt := range tts {
			out = append(out, TicketTypeResponse{ID: tt.ID, Name: tt.Name, Price: tt.Price})
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=60", true)
	}
}

// @Summary  Complete a checkout (idempotent)
// @Param    req body  CheckoutRequest true "payload"
// @Header   200 {string} Idempotency-Key "echo"
// @Success  200 {object} CheckoutResponse
// @Failure  400 {object} MessageResponse "validation / price mismatch / capacity"
// @Failure  401 {object} MessageResponse
// @Failure  403 {object} MessageResponse "outside booking window"
// @Failure  404 {object} MessageResponse "screening or ticket type not found"
// @Failure  409 {object} MessageResponse "booking conflict / idem in progress"
// @Failure  429 {object} MessageResponse "rate limited"
// @Router   /checkout/complete [post]
func handleCheckout(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, MessageResponse{Message: "authentication required"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemCheckout(req.ScreeningID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, MessageResponse{Message: "idempotency key in progress"})
				return
			}
		}

		items := make([]checkout.LineItem, 0, len(req.TicketTypes))
		for _, line := range req.TicketTypes {
			items = append(items, checkout.LineItem{TypeID: line.TypeID, Count: line.Count})
		}

		rlKey := "ip:" + c.ClientIP()

		res, err := svcs.Checkout.Complete(
			c.Request.Context(),
			actor,
			checkout.Request{
				ScreeningID:   req.ScreeningID,
				Items:         items,
				DeclaredTotal: req.TotalPrice,
			},
			rlKey,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if isRateLimitedErr(err) {
				c.Header("Retry-After", "60")
				c.JSON(http.StatusTooManyRequests, MessageResponse{Message: "rate limited"})
				return
			}
			respondErr(c, err)
			return
		}

		resp := CheckoutResponse{
			Message:       "Booking successful",
			TicketsBooked: res.TicketsBooked,
			SeatIDs:       res.SeatIDs,
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  List my tickets
// @Success  200 {array} TicketResponse
// @Router   /tickets [get]
func handleListMyTickets(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, MessageResponse{Message: "authentication required"})
			return
		}

		list, err := svcs.Tickets.ListMine(c.Request.Context(), actor.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}

		out := make([]TicketResponse, 0, len(list))
		for _, t := range list {
			out = append(out, TicketResponse{
				ID:         t.ID.String(),
				MovieTitle: t.MovieTitle,
				CinemaName: t.CinemaName,
				RoomName:   t.RoomName,
				SeatNumber: t.SeatNumber,
				StartsAt:   t.Starts,
				QRCode:     t.QRCode,
				CreatedAt:  t.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Ticket QR code as PNG
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Produce  png
// @Success  200
// @Router   /tickets/{id}/qr [get]
func handleTicketQR(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, MessageResponse{Message: "authentication required"})
			return
		}

		ticketID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid ticket id")
			return
		}

		png, err := svcs.Tickets.QRCodePNG(c.Request.Context(), actor, ticketID)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.Data(http.StatusOK, "image/png", png)
	}
}

// @Summary  Create movie
// @Param    req body  CreateMovieRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /admin/movies [post]
func handleCreateMovie(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMovieRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}
		id, err := svcs.Admin.CreateMovie(c.Request.Context(), req.Title)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  Create cinema
// @Param    req body  CreateCinemaRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /admin/cinemas [post]
func handleCreateCinema(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCinemaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}
		id, err := svcs.Admin.CreateCinema(c.Request.Context(), req.Name, req.City)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  Create room with numbered seats
// @Param    id  path  int  true  "Cinema ID"
// @Param    req body  CreateRoomRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /admin/cinemas/{id}/rooms [post]
func handleCreateRoom(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		cinemaID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CreateRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}
		id, err := svcs.Admin.CreateRoom(c.Request.Context(), cinemaID, req.Name, req.Capacity)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  Add seats to a room
// @Param    id  path  int  true  "Room ID"
// @Param    req body  AddSeatsRequest true "payload"
// @Success  201 {object} map[string]int
// @Router   /admin/rooms/{id}/seats [post]
func handleAddSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AddSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}
		if err := svcs.Admin.AddSeats(c.Request.Context(), roomID, req.Numbers); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": len(req.Numbers)})
	}
}

// @Summary  Create ticket type
// @Param    req body  CreateTicketTypeRequest true "payload"
// @Success  201 {object} CreatedResponse
// @Router   /admin/ticket-types [post]
func handleCreateTicketType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTicketTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}
		id, err := svcs.Admin.CreateTicketType(c.Request.Context(), req.Name, req.Price)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse{ID: id})
	}
}

// @Summary  Create screenings fanned out across rooms
// @Param    req body  CreateScreeningsRequest true "payload"
// @Success  201 {object} CreateScreeningsResponse
// @Router   /admin/screenings [post]
func handleCreateScreenings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateScreeningsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindingError(c, err)
			return
		}
		starts, err := parseRFC3339(req.StartsAt)
		if err != nil {
			badRequest(c, "invalid starts_at (RFC3339)")
			return
		}
		ends, err := parseRFC3339(req.EndsAt)
		if err != nil {
			badRequest(c, "invalid ends_at (RFC3339)")
			return
		}
		ids, err := svcs.Admin.CreateScreenings(
			c.Request.Context(),
			req.MovieID,
			req.CinemaID,
			req.RoomIDs,
			starts,
			ends,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateScreeningsResponse{ScreeningIDs: ids})
	}
}

// @Summary  Soft-delete screening
// @Param    id  path  int  true  "Screening ID"
// @Success  200 {object} MessageResponse
// @Router   /admin/screenings/{id} [delete]
func handleDeleteScreening(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Admin.DeleteScreening(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, MessageResponse{Message: "screening deleted"})
	}
}

// --- Helpers ---

func toScreeningResponse(s domain.Screening) ScreeningResponse {
	return ScreeningResponse{
		ID:       s.ID,
		MovieID:  s.MovieID,
		CinemaID: s.CinemaID,
		RoomID:   s.RoomID,
		StartsAt: s.Starts,
		EndsAt:   s.Ends,
	}
}

func toScreeningSummaryResponse(s domain.ScreeningSummary) ScreeningSummaryResponse {
	return ScreeningSummaryResponse{
		ScreeningResponse: toScreeningResponse(s.Screening),
		MovieTitle:        s.MovieTitle,
		TotalSeats:        s.TotalSeats,
		BookedSeats:       s.BookedSeats,
		SeatsLeft:         s.SeatsLeft,
	}
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, MessageResponse{Message: msg})
}

// bindingError renders structural validation failures as an itemized field
// error list; anything else as a plain message.
func bindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Namespace()+": failed on '"+fe.Tag()+"'")
		}
		c.JSON(http.StatusBadRequest, FieldErrorsResponse{Errors: msgs})
		return
	}

	badRequest(c, err.Error())
}

func isRateLimitedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "rate limited")
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// checkout service
	case errors.Is(err, checkout.ErrInvalidLineItems):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "ticket request is empty or malformed"})
		return
	case errors.Is(err, checkout.ErrPriceMismatch):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "total price does not match ticket prices"})
		return
	case errors.Is(err, checkout.ErrInsufficientSeats):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "not enough free seats"})
		return
	case errors.Is(err, checkout.ErrOutsideBookingWindow):
		c.JSON(http.StatusForbidden, MessageResponse{Message: "screening is outside your booking window"})
		return
	case errors.Is(err, checkout.ErrScreeningNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: "screening not found"})
		return
	case errors.Is(err, checkout.ErrTicketTypeNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: "ticket type not found"})
		return
	case errors.Is(err, checkout.ErrBookingConflict):
		c.JSON(http.StatusConflict, MessageResponse{Message: "booking conflict, please retry"})
		return
	// query service
	case errors.Is(err, query.ErrScreeningNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: "screening not found"})
		return
	// tickets service
	case errors.Is(err, tickets.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: "ticket not found"})
		return
	case errors.Is(err, tickets.ErrNotOwner):
		c.JSON(http.StatusForbidden, MessageResponse{Message: "forbidden"})
		return
	// admin service
	case errors.Is(err, admin.ErrConflict):
		c.JSON(http.StatusConflict, MessageResponse{Message: "resource already exists"})
		return
	case errors.Is(err, admin.ErrNotFound), errors.Is(err, admin.ErrScreeningNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: "not found"})
		return
	case errors.Is(err, admin.ErrNoRooms),
		errors.Is(err, admin.ErrInvalidTimeRange),
		errors.Is(err, admin.ErrNonPositivePrice),
		errors.Is(err, admin.ErrNonPositiveSeating):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, MessageResponse{Message: "internal error"})
}
