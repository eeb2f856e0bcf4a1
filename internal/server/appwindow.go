package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	appwindowdomain "github.com/sevasetu/sevasetu/internal/appwindow/domain"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
)

func (s *Server) CreateApplicationWindow(c *gin.Context) {
	var req appwindowdomain.CreateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appwindowSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

func (s *Server) UpdateApplicationWindow(c *gin.Context) {
	var req appwindowdomain.UpdateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appwindowSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) DeleteApplicationWindow(c *gin.Context) {
	if err := s.appwindowSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": true})
}

func (s *Server) GetApplicationWindowByID(c *gin.Context) {
	resp, err := s.appwindowSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) ListApplicationWindows(c *gin.Context) {
	var query struct {
		pagination.Pagination
		DonorID string `form:"donor_id"`
		Status  string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appwindowSvc.List(c.Request.Context(), appwindowdomain.ListWindowRequest{
		Pagination: query.Pagination,
		DonorID:    strings.TrimSpace(query.DonorID),
		Status:     appwindowdomain.WindowStatus(strings.ToLower(strings.TrimSpace(query.Status))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
