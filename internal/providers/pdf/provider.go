// Package pdf renders donation certificates with maroto.
package pdf

import (
	"context"
	"io"
)

// CertificateData carries everything the rendered certificate shows. Amounts
// arrive preformatted; the renderer does no currency math.
type CertificateData struct {
	CertificateNumber string
	IssuedOn          string

	OrgName      string
	OrgAddress   string
	Reg80GNumber string
	ContactEmail string

	DonorName string
	DonorPAN  string

	Amount       string
	DonationDate string
	Reference    string
	PaymentMode  string
}

type Provider interface {
	GenerateCertificate(ctx context.Context, data CertificateData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateCertificate(ctx context.Context, data CertificateData) (io.Reader, error) {
	return nil, nil
}
