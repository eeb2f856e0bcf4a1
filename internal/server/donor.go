package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	donordomain "github.com/sevasetu/sevasetu/internal/donor/domain"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
)

func (s *Server) CreateDonor(c *gin.Context) {
	var req donordomain.CreateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.donorSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

func (s *Server) UpdateDonor(c *gin.Context) {
	var req donordomain.UpdateDonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.donorSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) GetDonorByID(c *gin.Context) {
	resp, err := s.donorSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) ListDonors(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Type     string `form:"donor_type"`
		Category string `form:"category"`
		Search   string `form:"search"`
		Archived string `form:"archived"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	archived, err := parseOptionalBool(query.Archived)
	if err != nil {
		AbortWithError(c, newValidationError("archived", "invalid_archived", "invalid archived"))
		return
	}

	resp, err := s.donorSvc.List(c.Request.Context(), donordomain.ListDonorRequest{
		Pagination: query.Pagination,
		Type:       donordomain.DonorType(strings.TrimSpace(query.Type)),
		Category:   donordomain.DonorCategory(strings.TrimSpace(query.Category)),
		Search:     strings.TrimSpace(query.Search),
		Archived:   archived,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
