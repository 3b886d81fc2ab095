package render

import (
	"sync"

	"github.com/go-pdf/fpdf"
)

// FontMetrics measures rendered text widths in points with the same core
// font tables the PDF backend draws with.
type FontMetrics struct {
	family string

	mu  sync.Mutex
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewFontMetrics returns metrics for one of the PDF core font families,
// such as "Helvetica" or "Times".
func NewFontMetrics(family string) *FontMetrics {
	pdf := fpdf.New("P", "pt", "A4", "")
	return &FontMetrics{family: family, pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// Helvetica measures the font used by the PDF backend.
var Helvetica = NewFontMetrics(pdfFont)

// Width returns the advance width of text at the given size. Runes outside
// the WinAnsi code page measure as the '.' they are drawn as.
func (m *FontMetrics) Width(text string, size float64, bold bool) float64 {
	if text == "" {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(m.family, fontStyle(bold), size)
	return m.pdf.GetStringWidth(m.tr(text))
}

// Err reports a font loading failure.
func (m *FontMetrics) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pdf.Error()
}
