package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"storefront-web/internal/domain"
	sessionsvc "storefront-web/internal/service/session"
)

const (
	headerRequestID = "X-Request-ID"

	ctxRequestIDKey = "request_id"
	ctxHandleKey    = "session_handle"

	// cookieSessionKey holds the server-side session id inside the signed cookie.
	cookieSessionKey = "sid"
)

// requestIDMiddleware reuses an inbound X-Request-ID or mints a ULID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set(ctxRequestIDKey, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", c.GetString(ctxRequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("http request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("http request", fields...)
		default:
			logger.Info("http request", fields...)
		}
	}
}

// requireSession resolves the cookie's session id to a live session or
// sends the visitor to the login page. JSON routes get a 401 instead.
func requireSession(svc SessionService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := sessions.Default(c)
		sid, _ := store.Get(cookieSessionKey).(string)
		if sid == "" {
			denyAccess(c, "")
			return
		}

		handle, err := svc.Lookup(c.Request.Context(), sid)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSessionExpired):
			clearSessionCookie(store, logger)
			notice := ""
			if errors.Is(err, domain.ErrSessionExpired) {
				notice = "expired"
			}
			denyAccess(c, notice)
			return
		default:
			logger.Error("lookup session", zap.String("request_id", c.GetString(ctxRequestIDKey)), zap.Error(err))
			if isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Service temporarily unavailable"})
				return
			}
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}

		c.Set(ctxHandleKey, handle)
		c.Next()
	}
}

func sessionHandle(c *gin.Context) *sessionsvc.Handle {
	return c.MustGet(ctxHandleKey).(*sessionsvc.Handle)
}

func denyAccess(c *gin.Context, notice string) {
	if isAPIRequest(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, please log in"})
		return
	}
	target := "/login"
	if notice != "" {
		target += "?notice=" + notice
	}
	c.Redirect(http.StatusSeeOther, target)
	c.Abort()
}

func clearSessionCookie(store sessions.Session, logger *zap.Logger) {
	store.Clear()
	store.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := store.Save(); err != nil {
		logger.Warn("clear session cookie", zap.Error(err))
	}
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// noStore keeps account pages and their JSON out of browser and proxy caches.
func noStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
