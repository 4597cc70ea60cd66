package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"job-portal/internal/filter"
	"job-portal/internal/format"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin    = 14.0
	pdfRowHeight = 7.0
)

// 各列宽度之和等于 A4 宽度减去左右边距。
var pdfWidths = []float64{44, 32, 30, 38, 22, 16}

// WritePDF 输出标题、筛选摘要、结果数、生成时间和结果表格。
func WritePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle("Filtered Job Results", true)
	pdf.SetCreationDate(r.Generated)
	pdf.SetModificationDate(r.Generated)

	// 内置字体只支持 cp1252，无法表示的货币符号替换为文字。
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string {
		return tr(strings.ReplaceAll(s, format.Currency, "Rs."))
	}

	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 20)
	pdf.Text(pdfMargin, 22, "Filtered Job Results")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(pdfMargin, 30, text(filter.SummaryLine(r.Filters)))
	pdf.Text(pdfMargin, 35, "Total results: "+strconv.Itoa(len(r.Jobs)))
	pdf.Text(pdfMargin, 40, text("Generated on: "+format.DateTime(r.Generated)))

	pdf.SetXY(pdfMargin, 45)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(100, 100, 100)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(200, 200, 200)
	for i, col := range reportColumns {
		pdf.CellFormat(pdfWidths[i], pdfRowHeight, col, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(40, 40, 40)
	for _, job := range r.Jobs {
		for i, cell := range reportRow(job) {
			pdf.CellFormat(pdfWidths[i], pdfRowHeight, fit(pdf, text(cell), pdfWidths[i]-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fit 截断超出单元格宽度的文本；s 已转换为单字节 cp1252，可按字节截断。
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	const ellipsis = "..."
	for n := len(s) - 1; n > 0; n-- {
		candidate := s[:n] + ellipsis
		if pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ellipsis
}
