// Package report renders customer exports.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

var csvHeader = []string{
	"ID", "First Name", "Last Name", "Email", "Phone", "Date of Birth", "Gender",
	"Address", "Country", "State", "City", "Postal Code", "Interests", "Newsletter",
}

// Render writes customers to w in the given export format
func Render(w io.Writer, format string, customers []*models.CustomerRecord, generatedAt time.Time) error {
	switch format {
	case models.ExportCSV:
		return CSV(w, customers)
	case models.ExportPDF:
		return PDF(w, customers, generatedAt)
	default:
		return models.ErrInvalidInput(fmt.Sprintf("unsupported export format %q", format))
	}
}

// CSV writes one header row and one row per customer
func CSV(w io.Writer, customers []*models.CustomerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, c := range customers {
		row := []string{
			c.ID.String(), c.FirstName, c.LastName, c.Email, c.Phone, c.DOB, c.Gender,
			c.Address, c.Country, c.State, c.City, c.PostalCode,
			strings.Join(c.Interests, ";"), fmt.Sprintf("%t", c.Newsletter),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// pdfColumns are the table columns of the PDF export, widths in mm
var pdfColumns = []struct {
	title string
	width float64
	value func(c *models.CustomerRecord) string
}{
	{"NAME", 48, func(c *models.CustomerRecord) string { return c.FullName() }},
	{"EMAIL", 62, func(c *models.CustomerRecord) string { return c.Email }},
	{"PHONE", 28, func(c *models.CustomerRecord) string { return c.Phone }},
	{"DOB", 22, func(c *models.CustomerRecord) string { return c.DOB }},
	{"GENDER", 18, func(c *models.CustomerRecord) string { return c.Gender }},
	{"COUNTRY", 26, func(c *models.CustomerRecord) string { return c.Country }},
	{"CITY", 30, func(c *models.CustomerRecord) string { return c.City }},
	{"POSTAL", 20, func(c *models.CustomerRecord) string { return c.PostalCode }},
}

// PDF writes a landscape A4 table of customers
func PDF(w io.Writer, customers []*models.CustomerRecord, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, fmt.Sprintf("Generated %s - page %d", generatedAt.Format(time.RFC3339), pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Customer Export")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, fmt.Sprintf("%d customers", len(customers)))
	pdf.Ln(9)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetTextColor(20, 20, 20)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 8, col.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	for _, c := range customers {
		if pdf.GetY() > pageHeight-24 {
			pdf.AddPage()
			header()
		}
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, fit(col.value(c), col.width), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	return nil
}

// fit trims s to roughly what fits in a cell of width mm at 8pt
func fit(s string, width float64) string {
	limit := int(width / 1.6)
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
