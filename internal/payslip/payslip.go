// Package payslip renders payroll lines as PDF payslips, one page per
// employee, in the PayrollPanda-style layout the finance team signs off on.
package payslip

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"leopay/internal/domain/employee"
	"leopay/internal/domain/payroll"
)

// Company is the issuing entity printed in the payslip header.
type Company struct {
	Name         string
	Address      string
	Registration string
	LogoPath     string
}

// Page pairs a payroll line with its ad-hoc deduction ledger for rendering.
type Page struct {
	Line       payroll.Line
	Deductions []payroll.AdhocDeduction
}

// FormatMonth converts "2025-12" to "December 2025". Unparseable input is
// returned as-is so a malformed month never blocks a download.
func FormatMonth(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}

// FileName is the download name for a single employee's payslip.
func FileName(employeeName, month string) string {
	name := strings.ReplaceAll(employeeName, " ", "_")
	if name == "" {
		name = "employee"
	}
	return fmt.Sprintf("%s_payslip_%s.pdf", name, month)
}

// CombinedFileName is the download name for the whole run in one document.
func CombinedFileName(month string) string {
	return fmt.Sprintf("payroll_%s_combined.pdf", month)
}

// ZipFileName is the download name for the per-employee payslip archive.
func ZipFileName(month string) string {
	return fmt.Sprintf("leogics_payslips_%s.zip", strings.ReplaceAll(month, "-", "_"))
}

// Render writes a PDF with one payslip page per entry in pages. The creation
// date comes from the run's issue date, not the clock, so rendering the same
// run twice yields identical bytes.
func Render(w io.Writer, company Company, run payroll.Run, pages []Page) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	if issued, err := time.Parse("2006-01-02", run.IssuedDate); err == nil {
		pdf.SetCreationDate(issued)
	}

	for _, page := range pages {
		pdf.AddPage()
		renderPage(pdf, company, run, page)
	}

	return pdf.Output(w)
}

// RenderZip writes a ZIP archive containing one single-page PDF per entry,
// each under its individual payslip file name.
func RenderZip(w io.Writer, company Company, run payroll.Run, pages []Page) error {
	zw := zip.NewWriter(w)
	for _, page := range pages {
		entry, err := zw.Create(FileName(page.Line.Name, run.Month))
		if err != nil {
			return err
		}
		if err := Render(entry, company, run, []Page{page}); err != nil {
			return err
		}
	}
	return zw.Close()
}

func renderPage(pdf *gofpdf.Fpdf, company Company, run payroll.Run, page Page) {
	line := page.Line

	renderHeader(pdf, company, run)

	pdf.SetDrawColor(51, 51, 51)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 7, line.Name)
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, orNA(line.Role))
	pdf.Ln(8)

	renderIdentifierGrid(pdf, line)

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(5)

	renderGrossEarnings(pdf, line)
	renderContributions(pdf, line)
	if len(page.Deductions) > 0 {
		renderAdhocDeductions(pdf, page.Deductions)
	}
	renderNetEarnings(pdf, line)
	renderFooter(pdf)
}

func renderHeader(pdf *gofpdf.Fpdf, company Company, run payroll.Run) {
	top := pdf.GetY()
	left := 15.0

	if company.LogoPath != "" {
		if _, err := os.Stat(company.LogoPath); err == nil {
			pdf.ImageOptions(company.LogoPath, left, top, 20, 20, false, gofpdf.ImageOptions{}, 0, "")
			left = 40
		}
	}

	pdf.SetXY(left, top)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.MultiCell(90, 4.5, company.Name, "", "L", false)
	pdf.SetX(left)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(90, 4.5, company.Address, "", "L", false)
	pdf.SetX(left)
	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(90, 4, company.Registration, "", "L", false)
	companyBottom := pdf.GetY()

	pdf.SetXY(130, top)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(65, 5, "Payslip for "+FormatMonth(run.Month), "", 1, "R", false, 0, "")
	pdf.SetX(130)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(65, 4, "Issued on: "+run.IssuedDate, "", 1, "R", false, 0, "")

	if pdf.GetY() < companyBottom {
		pdf.SetY(companyBottom)
	}
	pdf.Ln(4)
}

func renderIdentifierGrid(pdf *gofpdf.Fpdf, line payroll.Line) {
	gridRow(pdf, [4]string{"Department", "Nationality", "NRIC/Passport", "EPF No."},
		[4]string{"N/A", orNA(line.Nationality), orNA(line.Passport), orNA(line.EPFNo)})
	pdf.Ln(2)
	gridRow(pdf, [4]string{"Employee ID", "Gender", "", "SOCSO No."},
		[4]string{orNA(line.EmployeeNo), orNA(line.Gender), "", orNA(line.SOCSONo)})
}

func gridRow(pdf *gofpdf.Fpdf, labels, values [4]string) {
	const colWidth = 45.0
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(102, 102, 102)
	for _, label := range labels {
		pdf.CellFormat(colWidth, 4, label, "", 0, "L", false, 0, "")
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, value := range values {
		pdf.CellFormat(colWidth, 4.5, value, "", 0, "L", false, 0, "")
	}
	pdf.Ln(4.5)
}

func renderGrossEarnings(pdf *gofpdf.Fpdf, line payroll.Line) {
	sectionTitle(pdf, "Gross Earnings")
	amountColumnHeader(pdf)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(110, 5, "Salary", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 5, "", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 5, amount(line.Salary), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(110, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, "Gross pay", "", 0, "R", false, 0, "")
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(35, 6, amount(line.Salary), "", 1, "R", true, 0, "")
	pdf.Ln(5)
}

func renderContributions(pdf *gofpdf.Fpdf, line payroll.Line) {
	sectionTitle(pdf, "Contributions")

	widths := []float64{30, 20, 20, 20, 20, 20, 20, 30}
	headers := []string{"", "EPF", "SOCSO", "EIS", "Zakat", "PCB", "HRDF", "Amount"}

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(102, 102, 102)
	for i, h := range headers {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 4, h, "", 0, align, false, 0, "")
	}
	pdf.Ln(4)
	pdf.SetDrawColor(221, 221, 221)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	contributionRow(pdf, widths, "Employee", line.Deductions, "-"+amount(line.StatutoryTotal))

	pdf.SetTextColor(153, 153, 153)
	contributionRow(pdf, widths, "Employer", line.Contributions, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(5)
}

func contributionRow(pdf *gofpdf.Fpdf, widths []float64, label string, amounts employee.StatutoryAmounts, total string) {
	cells := []string{
		label,
		amount(amounts.EPF), amount(amounts.SOCSO), amount(amounts.EIS),
		amount(amounts.Zakat), amount(amounts.PCB), amount(amounts.HRDF),
		total,
	}
	for i, cell := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 5, cell, "", 0, align, false, 0, "")
	}
	pdf.Ln(5)
}

func renderAdhocDeductions(pdf *gofpdf.Fpdf, deductions []payroll.AdhocDeduction) {
	sectionTitle(pdf, "Deductions")
	amountColumnHeader(pdf)

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range deductions {
		pdf.CellFormat(110, 5, d.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 5, "", "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 5, "-"+amount(d.Amount), "", 1, "R", false, 0, "")
	}
	pdf.Ln(5)
}

func renderNetEarnings(pdf *gofpdf.Fpdf, line payroll.Line) {
	sectionTitle(pdf, "Net Earnings")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(110, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, "Net pay", "", 0, "R", false, 0, "")
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(35, 6, amount(line.NetPay), "", 1, "R", true, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(110, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 5, "Taxable pay", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 5, amount(line.Salary), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func renderFooter(pdf *gofpdf.Fpdf) {
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(102, 102, 102)
	pdf.MultiCell(0, 3.5,
		"EPF contributions are calculated based on 11.00% employee rate and 13.00% employer rate\n"+
			"PCB Calculations are based on the following employee info:\n"+
			"Resident, Normal Worker, Single, No Dependent Children",
		"", "L", false)
	pdf.SetFont("Helvetica", "B", 7)
	pdf.MultiCell(0, 3.5, "Generated from Leogics Payroll System", "", "L", false)
	pdf.SetTextColor(0, 0, 0)
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, title)
	pdf.Ln(7)
}

func amountColumnHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(110, 4, "Units", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 4, "Rate", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 4, "Amount", "", 1, "R", false, 0, "")
	pdf.SetDrawColor(221, 221, 221)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
