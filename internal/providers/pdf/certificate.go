package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func NewPDFProvider() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateCertificate(ctx context.Context, data CertificateData) (io.Reader, error) {
	cfg := config.NewBuilder().Build()

	m := maroto.New(cfg)

	m.AddRow(30,
		text.NewCol(12, data.OrgName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(12,
		text.NewCol(12, data.OrgAddress, props.Text{
			Size:  9,
			Align: align.Center,
		}),
	)

	m.AddRow(20,
		text.NewCol(12, "Donation Certificate", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Center,
			Top:   5,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Certificate number: "+data.CertificateNumber, props.Text{Top: 0}),
			text.New("Issued on: "+data.IssuedOn, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("80G registration: "+data.Reg80GNumber, props.Text{Top: 0}),
			text.New("Reference: "+data.Reference, props.Text{Top: 5}),
		),
	)

	m.AddRow(35,
		col.New(12).Add(
			text.New("Received with thanks from", props.Text{Style: fontstyle.Bold}),
			text.New(data.DonorName, props.Text{Top: 6, Size: 12}),
			text.New("PAN: "+data.DonorPAN, props.Text{Top: 13}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, data.Amount+" received on "+data.DonationDate+" via "+data.PaymentMode, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Top:   3,
		}),
	)

	m.AddRow(25,
		text.NewCol(12,
			"This donation is eligible for deduction under Section 80G of the Income Tax Act, 1961.",
			props.Text{Size: 9, Top: 5},
		),
	)

	m.AddRow(10,
		text.NewCol(12, data.ContactEmail, props.Text{
			Size:  8,
			Align: align.Center,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
