package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	log     *slog.Logger
}

type searchQuery struct {
	DepartureCity string `form:"departure_city"`
	ArrivalCity   string `form:"arrival_city"`
}

type seedResponse struct {
	Message string `json:"message"`
	Flights int    `json:"flights"`
}

func NewFlightHandler(service flights.FlightUseCase, log *slog.Logger) *FlightHandler {
	return &FlightHandler{service: service, log: log}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights/search", h.search)
	router.POST("/flights/calculate-price/:flight_id", h.calculatePrice)
	router.GET("/seed", h.seed)
	router.POST("/seed", h.seed)
}

// search godoc
// @Summary  Search flights
// @Tags     flights
// @Produce  json
// @Param    departure_city query string false "case-insensitive substring"
// @Param    arrival_city   query string false "case-insensitive substring"
// @Success  200 {array} domain.Flight
// @Router   /flights/search [get]
func (h *FlightHandler) search(c *gin.Context) {
	log := handlerLog(c, h.log, "api.flights.search")

	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, log, err)
		return
	}

	result, err := h.service.Search(c.Request.Context(), domain.FlightFilter{
		DepartureCity: q.DepartureCity,
		ArrivalCity:   q.ArrivalCity,
	})
	if err != nil {
		writeError(c, log, err, "")
		return
	}
	if result == nil {
		result = []domain.Flight{}
	}
	c.JSON(http.StatusOK, result)
}

// calculatePrice godoc
// @Summary  Quote the current price of a flight
// @Tags     flights
// @Produce  json
// @Param    flight_id path string true "flight id"
// @Success  200 {object} pricing.Quote
// @Failure  404 {object} ErrorResponse
// @Router   /flights/calculate-price/{flight_id} [post]
func (h *FlightHandler) calculatePrice(c *gin.Context) {
	log := handlerLog(c, h.log, "api.flights.calculatePrice")

	quote, err := h.service.CalculatePrice(c.Request.Context(), c.Param("flight_id"))
	if err != nil {
		writeError(c, log, err, "flight")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// seed godoc
// @Summary  Replace the flight catalogue with the sample flights
// @Tags     admin
// @Produce  json
// @Success  200 {object} seedResponse
// @Router   /seed [get]
// @Router   /seed [post]
func (h *FlightHandler) seed(c *gin.Context) {
	log := handlerLog(c, h.log, "api.flights.seed")

	n, err := h.service.Seed(c.Request.Context())
	if err != nil {
		writeError(c, log, err, "")
		return
	}

	log.Info("catalogue seeded", slog.Int("flights", n))
	c.JSON(http.StatusOK, seedResponse{
		Message: fmt.Sprintf("Database seeded successfully with %d flights", n),
		Flights: n,
	})
}
