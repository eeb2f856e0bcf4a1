package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	contentdomain "github.com/sevasetu/sevasetu/internal/content/domain"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
)

func (s *Server) CreateContent(c *gin.Context) {
	var req contentdomain.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.contentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

func (s *Server) UpdateContent(c *gin.Context) {
	var req contentdomain.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.contentSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) DeleteContent(c *gin.Context) {
	if err := s.contentSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": true})
}

func (s *Server) GetContentByID(c *gin.Context) {
	resp, err := s.contentSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) ListContent(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Collection string `form:"collection"`
		Published  string `form:"published"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	published, err := parseOptionalBool(query.Published)
	if err != nil {
		AbortWithError(c, newValidationError("published", "invalid_published", "invalid published"))
		return
	}

	resp, err := s.contentSvc.List(c.Request.Context(), contentdomain.ListContentRequest{
		Pagination:    query.Pagination,
		Collection:    strings.TrimSpace(query.Collection),
		PublishedOnly: published != nil && *published,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// PublicListContent serves published records for the public site.
func (s *Server) PublicListContent(c *gin.Context) {
	resp, err := s.contentSvc.ListPublished(c.Request.Context(), strings.TrimSpace(c.Param("collection")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"records": resp})
}
