package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/logger"
	"github.com/alme-learn/alme/internal/store"
)

const userKey = "alme.user"

// CORS allows the configured origins. No origins or a "*" entry allows any
// origin without credentials.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	cfg.AllowAllOrigins = len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if u := currentUser(c); u != nil {
			fields = append(fields, "user_id", u.ID)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// RequireAuth resolves the bearer token to an active user.
func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			s.respondError(c, fmt.Errorf("%w: missing or invalid token", apperr.ErrUnauthorized))
			return
		}
		u, err := s.deps.Accounts.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (s *Server) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || u.Role != store.RoleAdmin {
			s.respondError(c, fmt.Errorf("%w: admin access required", apperr.ErrForbidden))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func currentUser(c *gin.Context) *store.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*store.User)
	return u
}

// selfOrAdmin rejects access to another user's resources unless the caller is
// an admin.
func (s *Server) selfOrAdmin(c *gin.Context, userID string) bool {
	u := currentUser(c)
	if u != nil && (u.ID == userID || u.Role == store.RoleAdmin) {
		return true
	}
	s.respondError(c, fmt.Errorf("%w: cannot access another user's data", apperr.ErrForbidden))
	return false
}

func noRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorEnvelope{Error: APIError{Message: "route not found", Code: "not_found"}})
}
