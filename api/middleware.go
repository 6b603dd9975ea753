package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"

	ctxUserID    = "user_id"
	ctxRequestID = "request_id"
)

// requestID keeps an incoming X-Request-ID or issues a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	log = log.With(slog.String("component", "middleware/logger"))
	log.Info("logger middleware enabled")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.With(
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("remote_addr", c.ClientIP()),
			slog.String("request_id", c.GetString(ctxRequestID)),
		)
		entry.Info("request completed",
			slog.Int("status", c.Writer.Status()),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("duration", time.Since(start).String()),
		)
	}
}

// userIdentity resolves the acting user from X-User-ID, falling back to defaultUser.
func userIdentity(defaultUser string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderUserID)
		if id == "" {
			id = defaultUser
		}
		c.Set(ctxUserID, id)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// handlerLog scopes log to one handler call.
func handlerLog(c *gin.Context, log *slog.Logger, op string) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", c.GetString(ctxRequestID)),
	)
}
