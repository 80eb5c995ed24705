package report

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

// How many of the worst offenders the PDF summary lists.
const pdfTopRows = 20

// Summary describes one completed validation run for the PDF report.
type Summary struct {
	SourceFile      string
	ThresholdMeters float64
	TotalEvaluated  int
	TotalExceeding  int
	GeneratedAt     time.Time
}

// BuildPDF renders a one-page summary of the run: counts, threshold, and a
// table of the shipments with the largest discrepancies. Records are
// expected to arrive sorted by distance descending.
func BuildPDF(sum Summary, records []models.EvaluatedRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Delivery Distance Validation", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Delivery Distance Validation")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Source file      : %s", sum.SourceFile),
		fmt.Sprintf("Generated        : %s", sum.GeneratedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Threshold        : %.0f m", sum.ThresholdMeters),
		fmt.Sprintf("Rows evaluated   : %d", sum.TotalEvaluated),
		fmt.Sprintf("Rows over limit  : %d", sum.TotalExceeding),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Largest discrepancies")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Shipment", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Distance (m)", "1", 0, "R", false, 0, "")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	n := len(records)
	if n > pdfTopRows {
		n = pdfTopRows
	}
	for _, r := range records[:n] {
		pdf.CellFormat(60, 6, r.ShipmentCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", r.DistanceMeters), "1", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	if len(records) > n {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 6, fmt.Sprintf("... and %d more rows in the CSV/XLSX export", len(records)-n))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePDF writes the summary report to a file.
func SavePDF(path string, sum Summary, records []models.EvaluatedRecord) error {
	data, err := BuildPDF(sum, records)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
