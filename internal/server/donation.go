package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	donationdomain "github.com/sevasetu/sevasetu/internal/donation/domain"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
)

func (s *Server) CreateDonation(c *gin.Context) {
	var req donationdomain.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.StaffEntered = true

	resp, err := s.donationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

// PublicCreateDonation is the unauthenticated self-reporting endpoint. The
// submission always lands PENDING; staff verify and complete it later.
func (s *Server) PublicCreateDonation(c *gin.Context) {
	var req donationdomain.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.StaffEntered = false

	resp, err := s.donationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, gin.H{
		"reference": resp.Reference,
		"status":    resp.Status,
	})
}

type transitionDonationRequest struct {
	Status string `json:"status"`
}

func (s *Server) TransitionDonationStatus(c *gin.Context) {
	var req transitionDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.donationSvc.TransitionStatus(
		c.Request.Context(),
		strings.TrimSpace(c.Param("id")),
		donationdomain.DonationStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) GetDonationByID(c *gin.Context) {
	resp, err := s.donationSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) ListDonations(c *gin.Context) {
	var query struct {
		pagination.Pagination
		DonorID          string `form:"donor_id"`
		Status           string `form:"status"`
		CurrencyCategory string `form:"currency_category"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.donationSvc.List(c.Request.Context(), donationdomain.ListDonationRequest{
		Pagination:       query.Pagination,
		DonorID:          strings.TrimSpace(query.DonorID),
		Status:           donationdomain.DonationStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
		CurrencyCategory: donationdomain.CurrencyCategory(strings.TrimSpace(query.CurrencyCategory)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
