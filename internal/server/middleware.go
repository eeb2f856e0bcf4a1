package server

import (
	"github.com/gin-gonic/gin"
	"github.com/sevasetu/sevasetu/internal/auditctx"
)

const (
	contextUserIDKey = "user_id"
	contextRoleKey   = "user_role"
)

// AuthRequired resolves the session cookie to a user and stamps the request
// context with the acting user for downstream audit writes.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, user, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := auditctx.WithActor(c.Request.Context(), auditctx.ActorTypeUser, session.UserID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Set(contextUserIDKey, session.UserID.String())
		c.Set(contextRoleKey, user.Role)
		c.Next()
	}
}

// RequirePermission gates a route on the casbin policy for the acting user.
func (s *Server) RequirePermission(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(contextUserIDKey)
		if userID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.authzSvc.Authorize(c.Request.Context(), "user:"+userID, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// DonationIntakeRateLimit throttles the public donation endpoint per client
// IP. With the limiter disabled it is a no-op.
func (s *Server) DonationIntakeRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.intakeLimiter.Enabled() {
			c.Next()
			return
		}

		res, err := s.intakeLimiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// A redis outage should not take donations down with it.
			c.Next()
			return
		}
		if !res.Allowed {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
