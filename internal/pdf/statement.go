// Package pdf renders downloadable account documents.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"finbase/internal/domain/models"
	"finbase/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// Statement renders a portfolio statement for one project.
func Statement(project models.Project, positions []models.Position, generatedAt time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Portfolio Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PORTFOLIO STATEMENT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Project   : %s (%s)", project.Name, project.Slug))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated : "+generatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(70, 7, "Pair")
	pdf.Cell(50, 7, "Net exposure")
	pdf.Cell(40, 7, "Open orders")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	if len(positions) == 0 {
		pdf.Cell(0, 7, "No open positions.")
		pdf.Ln(7)
	}
	var total int64
	for _, p := range positions {
		pdf.Cell(70, 6, p.Pair)
		pdf.Cell(50, 6, utils.FormatAmount(p.NetAmount))
		pdf.Cell(40, 6, fmt.Sprintf("%d", p.Orders))
		pdf.Ln(6)
		total += p.NetAmount
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Net total: "+utils.FormatAmount(total))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Amounts are shown in account currency minor units converted to decimal.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("STATEMENT_%s_%s.pdf", project.Slug, generatedAt.Format("20060102"))
	return buf.Bytes(), filename, nil
}
