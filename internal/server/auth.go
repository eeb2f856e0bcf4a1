package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/sevasetu/sevasetu/internal/auth/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authSvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	respondData(c, gin.H{
		"user_id":      result.User.ID.String(),
		"email":        result.User.Email,
		"display_name": result.User.DisplayName,
		"role":         result.User.Role,
		"expires_at":   result.ExpiresAt,
	})
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if ok {
		_ = s.authSvc.Logout(c.Request.Context(), token)
	}
	s.sessions.Clear(c)
	respondData(c, gin.H{"logged_out": true})
}

func (s *Server) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID := c.GetString(contextUserIDKey)
	if userID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.authSvc.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"changed": true})
}

func (s *Server) Me(c *gin.Context) {
	respondData(c, gin.H{
		"user_id": c.GetString(contextUserIDKey),
		"role":    c.GetString(contextRoleKey),
	})
}
