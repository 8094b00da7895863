package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pedidos-mostrador/logger"
)

// RequestID tags each request with an id, taken from the X-Request-ID header when the
// caller sends one, and attaches a logger carrying that id to the request context
func RequestID(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(logger.RequestIDKey)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(logger.RequestIDKey, requestID)
			c.Set("request_id", requestID)

			log := base.With(zap.String("request_id", requestID))
			ctx := logger.WithContext(c.Request().Context(), log)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// AccessLog writes one line per request once the handler returns.
// It is the only middleware that hands errors to echo's error handler, so it must wrap the others.
func AccessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []zapcore.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}

			log := logger.FromContext(c.Request().Context())
			switch {
			case err != nil:
				log.Error("❌ HTTP request failed", append(fields, zap.Error(err))...)
			case c.Response().Status >= http.StatusInternalServerError:
				log.Error("❌ HTTP request failed", fields...)
			default:
				log.Info("✅ HTTP request completed", fields...)
			}
			return nil
		}
	}
}
