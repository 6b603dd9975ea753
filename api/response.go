package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/lib/logger/sl"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	KindNotFound           = "not_found"
	KindSeatsUnavailable   = "seats_unavailable"
	KindInsufficientFunds  = "insufficient_funds"
	KindPriceChanged       = "price_changed"
	KindConflict           = "conflict"
	KindInvalidRequest     = "invalid_request"
	KindPersistenceFailure = "persistence_failure"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var errorKinds = []struct {
	err    error
	kind   string
	status int
}{
	{domain.ErrInvalidInput, KindInvalidRequest, http.StatusBadRequest},
	{domain.ErrNotFound, KindNotFound, http.StatusNotFound},
	{domain.ErrSeatsUnavailable, KindSeatsUnavailable, http.StatusConflict},
	{domain.ErrInsufficientFunds, KindInsufficientFunds, http.StatusPaymentRequired},
	{domain.ErrPriceChanged, KindPriceChanged, http.StatusConflict},
	{domain.ErrConflict, KindConflict, http.StatusConflict},
}

// writeError maps err to its kind and status. Unknown errors are reported as
// persistence failures without leaking their text. resource names what was
// looked up in not_found messages.
func writeError(c *gin.Context, log *slog.Logger, err error, resource string) {
	for _, k := range errorKinds {
		if !errors.Is(err, k.err) {
			continue
		}
		log.Info("request rejected", slog.String("kind", k.kind), sl.Err(err))
		msg := message(err)
		if k.kind == KindNotFound && resource != "" {
			msg = resource + " not found"
		}
		c.JSON(k.status, ErrorResponse{Error: k.kind, Message: msg})
		return
	}

	log.Error("request failed", sl.Err(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   KindPersistenceFailure,
		Message: "internal error, try again later",
	})
}

// message drops the leading "pkg.Op: " the services prefix errors with.
func message(err error) string {
	msg := err.Error()
	if op, rest, ok := strings.Cut(msg, ": "); ok && strings.Contains(op, ".") && !strings.Contains(op, " ") {
		return rest
	}
	return msg
}

func writeBindError(c *gin.Context, log *slog.Logger, err error) {
	log.Info("invalid request body", sl.Err(err))

	var validateErr validator.ValidationErrors
	if errors.As(err, &validateErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: KindInvalidRequest, Message: validationMessage(validateErr)})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: KindInvalidRequest, Message: "failed to decode request"})
}

func validationMessage(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		field := jsonFieldName(err.Field())
		switch err.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", field))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("field %s must be greater than %s", field, err.Param()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid email", field))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", field))
		}
	}
	return strings.Join(msgs, ", ")
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
