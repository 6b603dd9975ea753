package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     *slog.Logger
}

type bookRequest struct {
	PassengerName string `json:"passengerName" binding:"required"`
	FinalPrice    int64  `json:"finalPrice" binding:"required,gt=0"`
	Email         string `json:"email" binding:"omitempty,email"`
}

type bookResponse struct {
	Success    bool   `json:"success"`
	PNR        string `json:"pnr"`
	NewBalance int64  `json:"newBalance"`
}

type bookingResponse struct {
	PNR           string               `json:"pnr"`
	FlightID      string               `json:"flight_id"`
	UserID        string               `json:"user_id"`
	PassengerName string               `json:"passenger_name"`
	BookingDate   time.Time            `json:"booking_date"`
	FinalPrice    int64                `json:"final_price"`
	Status        domain.BookingStatus `json:"status"`
}

func NewBookingHandler(service booking.BookingUseCase, log *slog.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/book/:flight_id", h.book)
	router.GET("/bookings/:pnr", h.get)
}

// book godoc
// @Summary  Book one seat, paying from the user's wallet
// @Tags     bookings
// @Accept   json
// @Produce  json
// @Param    flight_id    path   string      true  "flight id"
// @Param    X-User-ID    header string      false "wallet owner, defaults to the configured user"
// @Param    X-User-Email header string      false "address the ticket is mailed to"
// @Param    request      body   bookRequest true  "passenger and quoted price"
// @Success  200 {object} bookResponse
// @Failure  400 {object} ErrorResponse
// @Failure  402 {object} ErrorResponse
// @Failure  404 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /book/{flight_id} [post]
func (h *BookingHandler) book(c *gin.Context) {
	log := handlerLog(c, h.log, "api.bookings.book")

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, log, err)
		return
	}

	email := req.Email
	if email == "" {
		email = c.GetHeader(HeaderUserEmail)
	}

	result, err := h.service.Book(c.Request.Context(), booking.BookInput{
		UserID:        userID(c),
		FlightID:      c.Param("flight_id"),
		PassengerName: req.PassengerName,
		FinalPrice:    req.FinalPrice,
		Email:         email,
	})
	if err != nil {
		writeError(c, log, err, "flight")
		return
	}

	c.JSON(http.StatusOK, bookResponse{
		Success:    true,
		PNR:        result.PNR,
		NewBalance: result.NewBalance,
	})
}

// get godoc
// @Summary  Get a booking by PNR
// @Tags     bookings
// @Produce  json
// @Param    pnr path string true "booking reference"
// @Success  200 {object} bookingResponse
// @Failure  404 {object} ErrorResponse
// @Router   /bookings/{pnr} [get]
func (h *BookingHandler) get(c *gin.Context) {
	log := handlerLog(c, h.log, "api.bookings.get")

	b, err := h.service.GetBooking(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		writeError(c, log, err, "booking")
		return
	}

	var resp bookingResponse
	if err := copier.Copy(&resp, b); err != nil {
		writeError(c, log, err, "")
		return
	}
	c.JSON(http.StatusOK, resp)
}
