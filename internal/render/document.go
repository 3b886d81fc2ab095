// Package render holds the draw instruction model produced by the export
// pipeline and the backends that turn it into file bytes.
//
// Coordinates are in points with the origin at the top-left corner of the
// page and y growing downwards. Text Y is the baseline.
package render

import "fmt"

// Color is an RGB triple.
type Color struct {
	R uint8 `mapstructure:"r" json:"r" yaml:"r"`
	G uint8 `mapstructure:"g" json:"g" yaml:"g"`
	B uint8 `mapstructure:"b" json:"b" yaml:"b"`
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
	Gray  = Color{156, 163, 175}
)

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Kind identifies a draw primitive.
type Kind string

const (
	KindPage       Kind = "page"        // start a new page
	KindRect       Kind = "rect"        // filled rectangle
	KindStrokeRect Kind = "stroke_rect" // rectangle outline
	KindText       Kind = "text"        // single line of text
)

// Align positions text relative to X.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// Instruction is one self-contained draw call. It carries its own
// position, color and opacity so backends need no cursor state.
type Instruction struct {
	Kind     Kind    `json:"kind"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	W        float64 `json:"w,omitempty"`
	H        float64 `json:"h,omitempty"`
	Color    Color   `json:"color"`
	Opacity  float64 `json:"opacity,omitempty"`
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
	Align    Align   `json:"align,omitempty"`
}

// Document is an ordered list of instructions for pages of one size.
type Document struct {
	Title        string
	Width        float64
	Height       float64
	Instructions []Instruction
}

// NewDocument creates an empty document with the given page size.
func NewDocument(title string, width, height float64) *Document {
	return &Document{Title: title, Width: width, Height: height}
}

// AddPage starts a new page. Every document must start with AddPage.
func (d *Document) AddPage() {
	d.Instructions = append(d.Instructions, Instruction{Kind: KindPage})
}

// Rect fills a rectangle.
func (d *Document) Rect(x, y, w, h float64, c Color, opacity float64) {
	d.Instructions = append(d.Instructions, Instruction{
		Kind: KindRect, X: x, Y: y, W: w, H: h, Color: c, Opacity: opacity,
	})
}

// StrokeRect outlines a rectangle with a hairline.
func (d *Document) StrokeRect(x, y, w, h float64, c Color) {
	d.Instructions = append(d.Instructions, Instruction{
		Kind: KindStrokeRect, X: x, Y: y, W: w, H: h, Color: c, Opacity: 1,
	})
}

// Text draws one line of text with its baseline at y.
func (d *Document) Text(x, y float64, s string, size float64, bold bool, c Color, opacity float64, align Align) {
	d.Instructions = append(d.Instructions, Instruction{
		Kind: KindText, X: x, Y: y, Text: s, FontSize: size, Bold: bold,
		Color: c, Opacity: opacity, Align: align,
	})
}

// Pages returns the number of pages in the document.
func (d *Document) Pages() int {
	n := 0
	for _, in := range d.Instructions {
		if in.Kind == KindPage {
			n++
		}
	}
	return n
}

// Backend turns a document into file bytes.
type Backend interface {
	Render(doc *Document) ([]byte, error)
	Extension() string   // without the dot, e.g. "pdf"
	ContentType() string // MIME type of the rendered bytes
}
