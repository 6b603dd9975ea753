package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/lib/logger/sl"
	"github.com/Domenick1991/flightbooking/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service tickets.TicketUseCase
	log     *slog.Logger
}

func NewTicketHandler(service tickets.TicketUseCase, log *slog.Logger) *TicketHandler {
	return &TicketHandler{service: service, log: log}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("/ticket/:pnr/pdf", h.pdf)
}

// pdf godoc
// @Summary  Download the PDF ticket of a booking
// @Tags     bookings
// @Produce  application/pdf
// @Param    pnr path string true "booking reference"
// @Success  200 {file} file
// @Failure  404 {object} ErrorResponse
// @Router   /ticket/{pnr}/pdf [get]
func (h *TicketHandler) pdf(c *gin.Context) {
	log := handlerLog(c, h.log, "api.tickets.pdf")

	t, err := h.service.GetTicket(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		writeError(c, log, err, "booking")
		return
	}

	// Rendered to a buffer so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := t.WritePDF(&buf); err != nil {
		log.Error("failed to render ticket", sl.Err(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: KindPersistenceFailure, Message: "failed to generate ticket"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+t.Filename())
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
