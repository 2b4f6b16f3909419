package render

import (
	"bytes"
	"fmt"
	"time"
	"unicode/utf8"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/report"

	"github.com/go-pdf/fpdf"
)

const (
	ellipsis      = "..."
	unicodeFamily = "ReportUnicode"
)

// PDFRenderer draws with the core Helvetica font unless a UTF-8 TrueType
// font is configured. Core fonts only cover cp1252; other characters are
// replaced and counted in the render log.
type PDFRenderer struct {
	theme    Theme
	styles   map[report.TableKind]TableStyle
	fontPath string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{theme: DefaultTheme, styles: TableStyles}
}

// WithUTF8Font returns a renderer that embeds the TrueType font at path
// for every text style, so any script the font covers is printed as is.
func (r *PDFRenderer) WithUTF8Font(path string) *PDFRenderer {
	out := *r
	out.fontPath = path
	if path != "" {
		out.theme.FontFamily = unicodeFamily
	}
	return &out
}

// Render lays the document out on A4 pages. Any layout or output problem
// is returned wrapped in domain.ErrRenderFailure.
func (r *PDFRenderer) Render(doc *report.Document) (out []byte, err error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrRenderFailure)
	}
	start := time.Now()
	logger.ExternalServiceCall("fpdf", "render", "kind", doc.Kind, "doc_id", doc.ID)
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("%w: %v", domain.ErrRenderFailure, rec)
		}
		logger.ExternalServiceResult("fpdf", "render", err, "kind", doc.Kind, "bytes", len(out), "elapsed", time.Since(start))
	}()

	if err := r.validate(doc); err != nil {
		return nil, err
	}

	t := r.theme
	pdf := fpdf.New(t.Orientation, "mm", t.PageSize, "")
	pdf.SetMargins(t.Margin, t.Margin, t.Margin)
	pdf.SetAutoPageBreak(true, t.Margin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("library-fines-backend", false)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.AliasNbPages("")

	tr := func(s string) string { return s }
	if r.fontPath != "" {
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8Font(unicodeFamily, style, r.fontPath)
		}
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
		if lost := unencodable(doc); lost > 0 {
			logger.Warn("Report text outside cp1252 will not print as written; configure reports.unicode_font",
				"kind", doc.Kind, "doc_id", doc.ID, "runes", lost)
		}
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-t.Margin + 5)
		pdf.SetFont(t.FontFamily, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	for _, s := range doc.Sections {
		if s.Table != nil {
			r.table(pdf, tr, s.Table)
			continue
		}
		r.text(pdf, tr, s)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRenderFailure, err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) validate(doc *report.Document) error {
	for _, tbl := range doc.Tables() {
		style, ok := r.styles[tbl.Kind]
		if !ok {
			return fmt.Errorf("%w: no column widths for table kind %q", domain.ErrRenderFailure, tbl.Kind)
		}
		if len(style.Widths) != len(tbl.Header) {
			return fmt.Errorf("%w: table %q has %d columns but %d widths", domain.ErrRenderFailure,
				tbl.Kind, len(tbl.Header), len(style.Widths))
		}
		for i, row := range tbl.Rows {
			if len(row) != len(tbl.Header) {
				return fmt.Errorf("%w: table %q row %d has %d cells, want %d", domain.ErrRenderFailure,
					tbl.Kind, i, len(row), len(tbl.Header))
			}
		}
	}
	return nil
}

func (r *PDFRenderer) text(pdf *fpdf.Fpdf, tr func(string) string, s report.Section) {
	t := r.theme
	pdf.SetTextColor(0, 0, 0)
	switch s.Style {
	case report.StyleTitle:
		pdf.SetFont(t.FontFamily, "B", t.TitleSize)
		pdf.MultiCell(0, 10, tr(s.Text), "", "C", false)
		pdf.Ln(2)
	case report.StyleHeading:
		pdf.Ln(4)
		pdf.SetFont(t.FontFamily, "B", t.HeadingSize)
		pdf.MultiCell(0, 8, tr(s.Text), "", "L", false)
		pdf.Ln(1)
	case report.StyleNote:
		pdf.SetFont(t.FontFamily, "I", t.TextSize)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 6, tr(s.Text), "", "L", false)
	default:
		pdf.SetFont(t.FontFamily, "", t.TextSize)
		pdf.MultiCell(0, 5, tr(s.Text), "", "L", false)
	}
}

func (r *PDFRenderer) table(pdf *fpdf.Fpdf, tr func(string) string, tbl *report.Table) {
	t := r.theme
	style := r.styles[tbl.Kind]
	_, pageH := pdf.GetPageSize()

	header := func() {
		pdf.SetFont(t.FontFamily, "B", t.TableSize)
		pdf.SetFillColor(style.HeaderFill.R, style.HeaderFill.G, style.HeaderFill.B)
		pdf.SetTextColor(t.HeaderText.R, t.HeaderText.G, t.HeaderText.B)
		pdf.SetDrawColor(t.GridColor.R, t.GridColor.G, t.GridColor.B)
		for i, h := range tbl.Header {
			pdf.CellFormat(style.Widths[i], t.RowHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(t.FontFamily, "", t.TableSize)
		pdf.SetTextColor(0, 0, 0)
	}

	header()
	for n, row := range tbl.Rows {
		// Repeat the header on every page the table spans.
		if pdf.GetY()+t.RowHeight > pageH-t.Margin {
			pdf.AddPage()
			header()
		}
		fill := n%2 == 1
		if fill {
			pdf.SetFillColor(t.StripeFill.R, t.StripeFill.G, t.StripeFill.B)
		}
		for i, cell := range row {
			txt := r.fit(pdf, tr(cell), style.Widths[i]-2)
			pdf.CellFormat(style.Widths[i], t.RowHeight, txt, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit shortens s until it fits width, marking the cut with an ellipsis.
// With core fonts s is already cp1252, one byte per glyph; with a UTF-8
// font whole runes are dropped.
func (r *PDFRenderer) fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+ellipsis) > width {
		if r.fontPath != "" {
			_, size := utf8.DecodeLastRuneInString(s)
			s = s[:len(s)-size]
		} else {
			s = s[:len(s)-1]
		}
	}
	return s + ellipsis
}

// cp1252Extra are the cp1252 code points outside Latin-1
var cp1252Extra = map[rune]bool{
	'€': true, '‚': true, 'ƒ': true, '„': true, '…': true, '†': true, '‡': true,
	'ˆ': true, '‰': true, 'Š': true, '‹': true, 'Œ': true, 'Ž': true, '‘': true,
	'’': true, '“': true, '”': true, '•': true, '–': true, '—': true, '˜': true,
	'™': true, 'š': true, '›': true, 'œ': true, 'ž': true, 'Ÿ': true,
}

func inCP1252(c rune) bool {
	return c < 0x80 || (c >= 0xA0 && c <= 0xFF) || cp1252Extra[c]
}

// unencodable counts the runes in doc that core fonts cannot print
func unencodable(doc *report.Document) int {
	count := func(s string) int {
		n := 0
		for _, c := range s {
			if !inCP1252(c) {
				n++
			}
		}
		return n
	}

	n := count(doc.Title)
	for _, s := range doc.Sections {
		n += count(s.Text)
		if s.Table == nil {
			continue
		}
		for _, h := range s.Table.Header {
			n += count(h)
		}
		for _, row := range s.Table.Rows {
			for _, cell := range row {
				n += count(cell)
			}
		}
	}
	return n
}
