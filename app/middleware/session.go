package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pedidos-mostrador/config"
	"pedidos-mostrador/logger"
	"pedidos-mostrador/session"
)

// Session resolves the caller's session from its cookie, starting a new one when the
// cookie is missing or the session expired, and attaches it to the request context
func Session(store *session.Store, cfg config.SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *session.Session
			if cookie, err := c.Cookie(cfg.CookieName); err == nil {
				sess, _ = store.Get(cookie.Value)
			}

			if sess == nil {
				sess = store.Create()
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    sess.ID,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				logger.FromContext(c.Request().Context()).Debug("🍪 Session: started new session",
					zap.Int("live_sessions", store.Len()))
			}

			ctx := session.WithContext(c.Request().Context(), sess)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
