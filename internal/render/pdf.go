package render

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont     = "Helvetica"
	pdfProducer = "team-schedule"
)

var ErrEmptyDocument = errors.New("render: document has no pages")

// pdfEpoch stamps CreationDate and ModDate so the same document always
// renders to the same bytes.
var pdfEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// PDF renders documents with the built-in Helvetica fonts. Output is
// byte-for-byte deterministic for a given document.
type PDF struct {
	// Compress deflates page content streams.
	Compress bool
}

func (PDF) Extension() string   { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }

// Render implements Backend.
func (p PDF) Render(doc *Document) ([]byte, error) {
	if doc == nil || len(doc.Instructions) == 0 {
		return nil, ErrEmptyDocument
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: doc.Width, Ht: doc.Height},
	})
	pdf.SetCompression(p.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetModificationDate(pdfEpoch)
	pdf.SetProducer(pdfProducer, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	c := &canvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), alpha: 1}
	if doc.Title != "" {
		pdf.SetTitle(c.tr(doc.Title), false)
	}
	for i, in := range doc.Instructions {
		if in.Kind == KindPage || i == 0 {
			pdf.AddPage()
			// A fresh page starts in the default graphics state.
			c.alpha = 1
			if in.Kind == KindPage {
				continue
			}
		}
		c.draw(in)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// canvas replays instructions onto an fpdf document. It only remembers the
// last alpha so unchanged opacity does not repeat the graphics state.
type canvas struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	alpha float64
}

func (c *canvas) draw(in Instruction) {
	c.setAlpha(in.Opacity)

	switch in.Kind {
	case KindRect:
		c.pdf.SetFillColor(int(in.Color.R), int(in.Color.G), int(in.Color.B))
		c.pdf.Rect(in.X, in.Y, in.W, in.H, "F")
	case KindStrokeRect:
		c.pdf.SetDrawColor(int(in.Color.R), int(in.Color.G), int(in.Color.B))
		c.pdf.SetLineWidth(0.5)
		c.pdf.Rect(in.X, in.Y, in.W, in.H, "D")
	case KindText:
		c.pdf.SetFont(pdfFont, fontStyle(in.Bold), in.FontSize)
		c.pdf.SetTextColor(int(in.Color.R), int(in.Color.G), int(in.Color.B))
		text := c.tr(in.Text)
		x := in.X
		if in.Align == AlignCenter {
			x -= c.pdf.GetStringWidth(text) / 2
		}
		c.pdf.Text(x, in.Y, text)
	}
}

func (c *canvas) setAlpha(opacity float64) {
	a := 1.0
	if translucent(opacity) {
		a = opacity
	}
	if a == c.alpha {
		return
	}
	c.pdf.SetAlpha(a, "Normal")
	c.alpha = a
}

// translucent reports whether o needs a graphics state. Zero means unset
// and draws opaque.
func translucent(o float64) bool {
	return o > 0 && o < 1
}

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}
