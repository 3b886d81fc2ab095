// Package export turns a session list and a date range into a paginated,
// printable calendar document and hands the rendered bytes to an Emitter.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"time"

	"alcyxob/team-schedule/internal/calendar"
	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/layout"
	"alcyxob/team-schedule/internal/render"
)

// ErrEmission wraps rendering and emit failures. The session data is never
// touched by a failed export, so the call can be retried.
var ErrEmission = errors.New("export: emission failed")

var weekdayLabels = [calendar.DaysPerWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Geometry is the page layout in points.
type Geometry struct {
	PageWidth         float64
	PageHeight        float64
	Margin            float64
	HeaderHeight      float64 // title band
	WeekdayHeight     float64 // Sun..Sat band above the grid
	DayHeaderHeight   float64 // day number band inside each cell
	SlotGap           float64 // vertical gap between AM and PM boxes
	HeaderFontSize    float64
	WeekdayFontSize   float64
	DayNumberFontSize float64
}

// DefaultGeometry is US Letter landscape.
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:         792,
		PageHeight:        612,
		Margin:            24,
		HeaderHeight:      28,
		WeekdayHeight:     14,
		DayHeaderHeight:   12,
		SlotGap:           2,
		HeaderFontSize:    14,
		WeekdayFontSize:   8,
		DayNumberFontSize: 8,
	}
}

// Options are the document-level settings of a Driver.
type Options struct {
	Title        string
	FilePrefix   string
	WeeksPerPage int
	Geometry     Geometry
}

// Config wires a Driver. Slots, Dates and Backend default to
// NoonClassifier, LongDate and an uncompressed PDF.
type Config struct {
	Options
	Engine  *layout.Engine
	Slots   calendar.SlotClassifier
	Dates   DateFormatter
	Backend render.Backend
	Emitter Emitter
}

// Driver runs the export pipeline. It holds no per-export state and is
// safe for concurrent use.
type Driver struct {
	opts    Options
	engine  *layout.Engine
	slots   calendar.SlotClassifier
	dates   DateFormatter
	backend render.Backend
	emitter Emitter
}

func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Engine == nil {
		return nil, errors.New("export: layout engine is required")
	}
	if cfg.WeeksPerPage < 1 {
		return nil, calendar.ErrInvalidWeeksPerPage
	}
	if cfg.Geometry == (Geometry{}) {
		cfg.Geometry = DefaultGeometry()
	}
	if cfg.Title == "" {
		cfg.Title = "Schedule"
	}
	if cfg.FilePrefix == "" {
		cfg.FilePrefix = "schedule"
	}
	if cfg.Slots == nil {
		cfg.Slots = NoonClassifier{}
	}
	if cfg.Dates == nil {
		cfg.Dates = LongDate
	}
	if cfg.Backend == nil {
		cfg.Backend = render.PDF{}
	}
	return &Driver{
		opts:    cfg.Options,
		engine:  cfg.Engine,
		slots:   cfg.Slots,
		dates:   cfg.Dates,
		backend: cfg.Backend,
		emitter: cfg.Emitter,
	}, nil
}

// Request is one export.
type Request struct {
	Sessions     []domain.Session
	Start        time.Time
	End          time.Time
	WeeksPerPage int // 0 uses the driver default
}

// Artifact describes an emitted document.
type Artifact struct {
	FileName    string
	ContentType string
	Location    string // where the emitter put it
	Size        int64
	Pages       int
}

// Build computes the draw instructions for req without emitting anything.
// Identical requests produce identical documents.
func (d *Driver) Build(req Request) (*render.Document, error) {
	wpp := req.WeeksPerPage
	if wpp == 0 {
		wpp = d.opts.WeeksPerPage
	}

	days, err := calendar.Days(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	days = calendar.Assign(slices.Clone(req.Sessions), days, d.slots)

	pages, err := calendar.Paginate(days, wpp)
	if err != nil {
		return nil, err
	}

	g := d.opts.Geometry
	doc := render.NewDocument(d.opts.Title, g.PageWidth, g.PageHeight)
	for _, p := range pages {
		doc.AddPage()
		d.drawPage(doc, p, req.Start, req.End, wpp)
	}
	return doc, nil
}

// Export builds, renders and emits the document for req.
func (d *Driver) Export(ctx context.Context, req Request) (*Artifact, error) {
	if d.emitter == nil {
		return nil, fmt.Errorf("%w: no emitter configured", ErrEmission)
	}
	doc, err := d.Build(req)
	if err != nil {
		return nil, err
	}

	data, err := d.backend.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: render: %w", ErrEmission, err)
	}

	name := FileName(d.opts.FilePrefix, req.Start, req.End, d.backend.Extension())
	location, err := d.emitter.Emit(ctx, name, d.backend.ContentType(), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEmission, name, err)
	}

	return &Artifact{
		FileName:    name,
		ContentType: d.backend.ContentType(),
		Location:    location,
		Size:        int64(len(data)),
		Pages:       doc.Pages(),
	}, nil
}

// FileName returns "<prefix>-<startISO>-to-<endISO>.<ext>".
func FileName(prefix string, start, end time.Time, ext string) string {
	return fmt.Sprintf("%s-%s-to-%s.%s", prefix, calendar.FormatDate(start), calendar.FormatDate(end), ext)
}

// Header returns the page header, with a page suffix only for multi-page
// documents.
func Header(title string, start, end time.Time, page, total int, format DateFormatter) string {
	h := fmt.Sprintf("%s: %s - %s", title, format(start), format(end))
	if total > 1 {
		h += fmt.Sprintf(" (Page %d/%d)", page, total)
	}
	return h
}

func (d *Driver) drawPage(doc *render.Document, p calendar.Page, start, end time.Time, weeksPerPage int) {
	g := d.opts.Geometry

	doc.Text(g.Margin, g.Margin+g.HeaderFontSize, Header(d.opts.Title, start, end, p.Number, p.Total, d.dates),
		g.HeaderFontSize, true, render.Black, 1, render.AlignLeft)

	gridLeft := g.Margin
	gridTop := g.Margin + g.HeaderHeight + g.WeekdayHeight
	colWidth := (g.PageWidth - 2*g.Margin) / calendar.DaysPerWeek
	// Rows keep the full-page height on a short last page so every page
	// shares one grid.
	rowHeight := (g.PageHeight - g.Margin - gridTop) / float64(weeksPerPage)

	for col, label := range weekdayLabels {
		x := gridLeft + float64(col)*colWidth + colWidth/2
		doc.Text(x, gridTop-4, label, g.WeekdayFontSize, true, render.Gray, 1, render.AlignCenter)
	}

	for i, day := range p.Days {
		row, col := calendar.Cell(i)
		x := gridLeft + float64(col)*colWidth
		y := gridTop + float64(row)*rowHeight
		d.drawCell(doc, day, x, y, colWidth, rowHeight)
	}
}

func (d *Driver) drawCell(doc *render.Document, day calendar.Day, x, y, w, h float64) {
	g := d.opts.Geometry
	m := d.engine.Metrics

	numberColor := render.Black
	if day.OutsideRange {
		doc.Rect(x, y, w, h, render.Gray, 0.25)
		numberColor = render.Gray
	}
	doc.StrokeRect(x, y, w, h, render.Gray)
	doc.Text(x+m.Padding, y+g.DayNumberFontSize+1, strconv.Itoa(day.DayNumber),
		g.DayNumberFontSize, true, numberColor, 1, render.AlignLeft)

	if day.DayOff != nil {
		box := d.engine.Layout(day.DayOff, w, h)
		doc.Rect(x, y, w, h, box.Color, box.Opacity)
		doc.Text(x+w/2, y+h/2+m.DayOffFontSize/3, box.Label, m.DayOffFontSize, true, box.Color, box.Opacity, render.AlignCenter)
		return
	}

	top := y + g.DayHeaderHeight
	slotHeight := (h - g.DayHeaderHeight - g.SlotGap) / 2
	for i, s := range []*domain.Session{day.AM, day.PM} {
		if s == nil {
			continue
		}
		by := top + float64(i)*(slotHeight+g.SlotGap)
		d.drawBox(doc, s, day.Key, x+1, by, w-2, slotHeight)
	}
}

func (d *Driver) drawBox(doc *render.Document, s *domain.Session, dayKey string, x, y, w, h float64) {
	m := d.engine.Metrics
	box := d.engine.Layout(s, w, h)
	if box.Dropped > 0 {
		log.Printf("WARN: export: %d line(s) of %s session on %s did not fit its box", box.Dropped, s.Type, dayKey)
	}

	// The tint and every line share the style's color and opacity.
	doc.Rect(x, y, w, h, box.Color, box.Opacity)
	for i, l := range box.Lines {
		baseline := y + m.Padding + m.HeadRoom + float64(i)*m.LineHeight + m.FontSize
		doc.Text(x+m.Padding, baseline, l.Text, m.FontSize, l.Bold, box.Color, box.Opacity, render.AlignLeft)
	}
}
