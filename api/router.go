package api

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/lib/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Flights  *FlightHandler
	Bookings *BookingHandler
	Wallet   *WalletHandler
	Tickets  *TicketHandler
}

// NewRouter mounts every handler under /api behind the common middleware chain.
func NewRouter(cfg *config.Config, log *slog.Logger, h Handlers) *gin.Engine {
	if cfg.Env == logger.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(log),
		cors.New(corsConfig(cfg.HTTP.CORSOrigins)),
		userIdentity(cfg.Booking.DefaultUserID),
	)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Flight Booking Backend is running")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.HTTP.SwaggerEnabled {
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))
	}

	group := router.Group("/api")
	h.Flights.Register(group)
	h.Bookings.Register(group)
	h.Wallet.Register(group)
	h.Tickets.Register(group)

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", HeaderUserID, HeaderUserEmail, HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestID, "Content-Disposition"},
		MaxAge:        10 * time.Minute,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
