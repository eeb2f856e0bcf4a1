package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	certdomain "github.com/sevasetu/sevasetu/internal/certificate/domain"
	"github.com/sevasetu/sevasetu/internal/providers/pdf"
	"github.com/sevasetu/sevasetu/pkg/db/pagination"
)

type issueCertificateRequest struct {
	DonationID string `json:"donation_id"`
}

type voidCertificateRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) IssueCertificate(c *gin.Context) {
	var req issueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.certificateSvc.Issue(c.Request.Context(), strings.TrimSpace(req.DonationID))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, certificateView(resp))
}

func (s *Server) VoidCertificate(c *gin.Context) {
	var req voidCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.certificateSvc.Void(c.Request.Context(), strings.TrimSpace(c.Param("id")), strings.TrimSpace(req.Reason))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, certificateView(resp))
}

func (s *Server) GetCertificateByID(c *gin.Context) {
	resp, err := s.certificateSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, certificateView(resp))
}

func (s *Server) ListCertificates(c *gin.Context) {
	var query struct {
		pagination.Pagination
		DonationID string `form:"donation_id"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.certificateSvc.List(c.Request.Context(), certdomain.ListCertificateRequest{
		Pagination: query.Pagination,
		DonationID: strings.TrimSpace(query.DonationID),
		Status:     certdomain.CertificateStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	views := make([]gin.H, 0, len(resp.Certificates))
	for _, cert := range resp.Certificates {
		views = append(views, certificateView(cert))
	}
	respondData(c, gin.H{
		"page":         resp.Page,
		"limit":        resp.Limit,
		"total":        resp.Total,
		"certificates": views,
	})
}

// GetCertificatePDF renders the printable certificate. Void certificates
// still render so past issuances remain reviewable.
func (s *Server) GetCertificatePDF(c *gin.Context) {
	ctx := c.Request.Context()

	cert, err := s.certificateSvc.GetByID(ctx, strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	donationRec, err := s.donationSvc.GetByID(ctx, cert.DonationID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	donorRec, err := s.donorSvc.GetByID(ctx, donationRec.DonorID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	profile, err := s.settingsSvc.Get(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pan := ""
	if donationRec.PAN != nil {
		pan = *donationRec.PAN
	}

	reader, err := s.pdfProvider.GenerateCertificate(ctx, pdf.CertificateData{
		CertificateNumber: certdomain.FormatNumber(cert.CertificateNumber),
		IssuedOn:          cert.IssuedAt.Format("02 Jan 2006"),
		OrgName:           profile.Name,
		OrgAddress:        orgAddress(profile.AddressLine1, profile.AddressLine2, profile.City, profile.State, profile.PostalCode),
		Reg80GNumber:      profile.Reg80GNumber,
		ContactEmail:      profile.ContactEmail,
		DonorName:         donorRec.Name,
		DonorPAN:          pan,
		Amount:            fmt.Sprintf("INR %d", donationRec.Amount),
		DonationDate:      donationRec.DonationDate.Format("02 Jan 2006"),
		Reference:         donationRec.Reference,
		PaymentMode:       donationRec.PaymentMode,
	})
	if err != nil || reader == nil {
		AbortWithError(c, ErrInternal)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", certdomain.FormatNumber(cert.CertificateNumber)))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func certificateView(cert certdomain.Certificate) gin.H {
	view := gin.H{
		"id":                 cert.ID.String(),
		"donation_id":        cert.DonationID.String(),
		"certificate_number": certdomain.FormatNumber(cert.CertificateNumber),
		"status":             cert.Status,
		"issued_at":          cert.IssuedAt,
		"created_at":         cert.CreatedAt,
		"updated_at":         cert.UpdatedAt,
	}
	if cert.VoidReason != nil {
		view["void_reason"] = *cert.VoidReason
	}
	if cert.VoidedAt != nil {
		view["voided_at"] = *cert.VoidedAt
	}
	return view
}

func orgAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, strings.TrimSpace(part))
		}
	}
	return strings.Join(kept, ", ")
}
