package utils

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

// PrescriptionSheet is everything printed on one prescription.
type PrescriptionSheet struct {
	ClinicName    string
	ClinicAddress string
	ClinicPhone   string
	PatientName   string
	PatientAge    int
	PatientGender string
	PhoneNumber   int64
	Complaint     string
	Sitting       int
	IssuedAt      time.Time
	Items         []PrescriptionLine
	Font          *PDFFont
}

// PDFFont is a TrueType family used instead of the built-in Helvetica, which
// only covers cp1252. Bold falls back to Regular when empty.
type PDFFont struct {
	Regular []byte
	Bold    []byte
}

type PrescriptionLine struct {
	Name         string
	Type         string
	Dosage       string
	DurationDays int
	Instructions string
}

var columnWidths = []float64{10, 55, 25, 35, 20, 45}

// RenderPrescriptionPDF writes sheet as an A4 PDF document to w.
func RenderPrescriptionPDF(w io.Writer, sheet PrescriptionSheet) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Prescription - %s", sheet.PatientName), true)
	pdf.SetCreator(sheet.ClinicName, true)
	pdf.SetCreationDate(sheet.IssuedAt)
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()
	family, tr := loadFont(pdf, sheet.Font)

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 9, tr(sheet.ClinicName), "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 10)
	if sheet.ClinicAddress != "" {
		pdf.CellFormat(0, 5, tr(sheet.ClinicAddress), "", 1, "C", false, 0, "")
	}
	if sheet.ClinicPhone != "" {
		pdf.CellFormat(0, 5, tr("Phone: "+sheet.ClinicPhone), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(4)

	pdf.SetFont(family, "", 11)
	pdf.CellFormat(120, 6, tr("Patient: "+sheet.PatientName), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+sheet.IssuedAt.Format("02 Jan 2006"), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 6, fmt.Sprintf("Age / Gender: %d / %s", sheet.PatientAge, sheet.PatientGender), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Phone: "+strconv.FormatInt(sheet.PhoneNumber, 10), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 6, tr("Complaint: "+sheet.Complaint), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, sittingLabel(sheet.Sitting), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 8, "Rx", "", 1, "L", false, 0, "")

	pdf.SetFont(family, "B", 10)
	pdf.SetFillColor(230, 236, 242)
	for i, header := range []string{"#", "Medicine", "Type", "Dosage", "Days", "Instructions"} {
		pdf.CellFormat(columnWidths[i], 7, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 10)
	for i, item := range sheet.Items {
		days := ""
		if item.DurationDays > 0 {
			days = strconv.Itoa(item.DurationDays)
		}
		cells := []string{strconv.Itoa(i + 1), tr(item.Name), tr(item.Type), tr(item.Dosage), days, tr(item.Instructions)}
		for j, cell := range cells {
			align := "L"
			if j == 0 || j == 4 {
				align = "C"
			}
			pdf.CellFormat(columnWidths[j], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(20)
	pdf.SetFont(family, "I", 10)
	pdf.CellFormat(0, 6, "Dentist's signature", "", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build prescription pdf: %w", err)
	}
	return pdf.Output(w)
}

const utf8Family = "ClinicSans"

// loadFont registers the sheet's TrueType font and returns the family to use
// with a translator for cell text.
func loadFont(pdf *fpdf.Fpdf, font *PDFFont) (string, func(string) string) {
	if font == nil || len(font.Regular) == 0 {
		return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	}
	bold := font.Bold
	if len(bold) == 0 {
		bold = font.Regular
	}
	pdf.AddUTF8FontFromBytes(utf8Family, "", font.Regular)
	pdf.AddUTF8FontFromBytes(utf8Family, "B", bold)
	pdf.AddUTF8FontFromBytes(utf8Family, "I", font.Regular)
	return utf8Family, func(s string) string { return s }
}

func sittingLabel(sitting int) string {
	if sitting == 0 {
		return "Sitting: initial"
	}
	return fmt.Sprintf("Sitting: follow-up %d", sitting)
}
