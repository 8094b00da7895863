package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pedidos-mostrador/logger"
	"pedidos-mostrador/models"
	"pedidos-mostrador/session"
)

// catalogMaintenancePath is where callers are sent when there is nothing to sell
const catalogMaintenancePath = "/products"

// respondError maps the error taxonomy to a status code and an ErrorResponse body
func respondError(c echo.Context, op string, err error) error {
	log := logger.FromContext(c.Request().Context())

	var vErr *models.ValidationError
	var nfErr *models.NotFoundError
	switch {
	case errors.As(err, &vErr):
		log.Warn("⚠️ "+op+": Validation failed", zap.String("reason", string(vErr.Reason)), zap.Error(err))
		body := models.ErrorResponse{Error: vErr.Message, Reason: string(vErr.Reason)}
		if vErr.Reason == models.ReasonNoProducts {
			body.Redirect = catalogMaintenancePath
		}
		return c.JSON(http.StatusUnprocessableEntity, body)

	case errors.As(err, &nfErr):
		log.Warn("⚠️ "+op+": Not found", zap.String("reason", string(nfErr.Reason)), zap.Int64("id", nfErr.ID))
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: nfErr.Error(), Reason: string(nfErr.Reason)})

	case errors.Is(err, models.ErrMissingBatch):
		log.Warn("⚠️ "+op+": No batch in session")
		return c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})

	default:
		log.Error("❌ "+op+": Internal error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}

// badRequest answers 400 for malformed input that never reached the services
func badRequest(c echo.Context, op, message string, err error) error {
	logger.FromContext(c.Request().Context()).Warn("⚠️ "+op+": Bad request", zap.String("message", message), zap.Error(err))
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: message})
}

// pathID parses the :id route parameter
func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// currentSession returns the session attached by the session middleware
func currentSession(c echo.Context) (*session.Session, error) {
	sess, ok := session.FromContext(c.Request().Context())
	if !ok {
		return nil, errors.New("request has no session")
	}
	return sess, nil
}
