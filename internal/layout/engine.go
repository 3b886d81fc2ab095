// Package layout fits a single session into a bounded box: it picks the
// lines to show, truncates them to the box and chooses the tint.
package layout

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/render"
)

const (
	Ellipsis      = "..."
	DayOffLabel   = "Day Off"
	DayOffOpacity = 0.12
)

// TimeFormatter renders a session start time for display.
type TimeFormatter interface {
	FormatTime(startTime string) string
}

// TimeFormatterFunc adapts a function to TimeFormatter.
type TimeFormatterFunc func(startTime string) string

func (f TimeFormatterFunc) FormatTime(startTime string) string { return f(startTime) }

// LabelFormatter renders a session type for display.
type LabelFormatter interface {
	FormatType(t domain.SessionType) string
}

// LabelFormatterFunc adapts a function to LabelFormatter.
type LabelFormatterFunc func(t domain.SessionType) string

func (f LabelFormatterFunc) FormatType(t domain.SessionType) string { return f(t) }

// TextMeasurer returns the rendered width of text in points.
type TextMeasurer interface {
	Width(text string, size float64, bold bool) float64
}

// Metrics are the typographic constants of a session box.
type Metrics struct {
	FontSize       float64 // body text size
	LineHeight     float64
	Padding        float64 // inset on every side
	HeadRoom       float64 // extra space above the first line
	MinChars       int     // truncation never shortens a line below this
	DayOffFontSize float64
}

func DefaultMetrics() Metrics {
	return Metrics{
		FontSize:       6.5,
		LineHeight:     8,
		Padding:        3,
		HeadRoom:       1,
		MinChars:       3,
		DayOffFontSize: 11,
	}
}

// Line is one row of text in a box.
type Line struct {
	Text string
	Bold bool
}

// Box is the layout of one session. Day-off boxes carry a Label, slot
// boxes carry Lines.
type Box struct {
	Color   render.Color
	Opacity float64
	DayOff  bool
	Label   string
	Lines   []Line
	Dropped int // candidate lines that did not fit the height
}

// Engine lays out session boxes. Zero-value strategy fields fall back to
// Helvetica metrics, raw start times, raw type names and no script
// detection.
type Engine struct {
	Styles  StyleTable
	Metrics Metrics
	Measure TextMeasurer
	Times   TimeFormatter
	Labels  LabelFormatter
	Scripts ScriptDetector
	Policy  ScriptPolicy
}

// Layout fits s into a box of the given size.
func (e *Engine) Layout(s *domain.Session, width, height float64) Box {
	if s.IsDayOff() {
		return e.layoutDayOff(width)
	}

	style := e.Styles.Lookup(s.Type)
	box := Box{Color: style.Color, Opacity: style.Alpha}

	candidates := e.Candidates(s)
	maxLines := e.MaxLines(height)
	if len(candidates) > maxLines {
		box.Dropped = len(candidates) - maxLines
		candidates = candidates[:maxLines]
	}

	maxWidth := width - 2*e.Metrics.Padding
	box.Lines = make([]Line, len(candidates))
	for i, l := range candidates {
		box.Lines[i] = Line{Text: e.fit(l.Text, e.Metrics.FontSize, l.Bold, maxWidth), Bold: l.Bold}
	}
	return box
}

func (e *Engine) layoutDayOff(width float64) Box {
	return Box{
		Color:   e.Styles.Lookup(domain.TypeDayOff).Color,
		Opacity: DayOffOpacity,
		DayOff:  true,
		Label:   e.fit(DayOffLabel, e.Metrics.DayOffFontSize, true, width-2*e.Metrics.Padding),
	}
}

// MaxLines returns how many lines fit in a box of the given height.
func (e *Engine) MaxLines(height float64) int {
	if e.Metrics.LineHeight <= 0 {
		return 0
	}
	n := int((height - 2*e.Metrics.Padding - e.Metrics.HeadRoom) / e.Metrics.LineHeight)
	return max(n, 0)
}

// Candidates returns every line s could show, in priority order: start
// time, type label, title, minutes/courts summary, court RPE, gym RPE,
// notes.
func (e *Engine) Candidates(s *domain.Session) []Line {
	var lines []Line

	if t := strings.TrimSpace(e.formatTime(s.StartTime)); t != "" {
		lines = append(lines, Line{Text: t})
	}

	label := e.formatType(s.Type)
	lines = append(lines, Line{Text: label, Bold: true})

	if title := sanitize(s.Title); title != "" && !strings.EqualFold(title, label) {
		if e.unsupported(title) {
			if e.Policy == PlaceholderUnsupported {
				lines = append(lines, Line{Text: UnsupportedPlaceholder})
			}
		} else {
			lines = append(lines, Line{Text: title})
		}
	}

	if s.TotalMinutes > 0 || s.HighIntensityMinutes > 0 || s.Courts > 0 {
		lines = append(lines, Line{Text: fmt.Sprintf("%d/%dm %dc", s.TotalMinutes, s.HighIntensityMinutes, s.Courts)})
	}
	if s.RPECourtPlanned > 0 {
		lines = append(lines, Line{Text: "RPE Court: " + formatRPE(s.RPECourtPlanned)})
	}
	if s.RPEGymPlanned > 0 {
		lines = append(lines, Line{Text: "RPE Gym: " + formatRPE(s.RPEGymPlanned)})
	}

	notes := noteLines(s.Notes)
	if len(notes) > 0 && e.unsupported(strings.Join(notes, " ")) {
		if e.Policy == PlaceholderUnsupported {
			lines = append(lines, Line{Text: UnsupportedPlaceholder})
		}
		notes = nil
	}
	for _, n := range notes {
		lines = append(lines, Line{Text: n})
	}
	return lines
}

// Fit truncates text with an ellipsis until it fits maxWidth at the body
// font size. Text that already fits, or is no longer than MinChars runes,
// is returned unchanged.
func (e *Engine) Fit(text string, bold bool, maxWidth float64) string {
	return e.fit(text, e.Metrics.FontSize, bold, maxWidth)
}

func (e *Engine) fit(text string, size float64, bold bool, maxWidth float64) string {
	m := e.measure()
	// Text at or under the floor is accepted even when it overflows.
	if utf8.RuneCountInString(text) <= e.Metrics.MinChars || m.Width(text, size, bold) <= maxWidth {
		return text
	}
	// Start where the ellipsis still leaves the result shorter than text.
	runes := []rune(text)
	for n := len(runes) - utf8.RuneCountInString(Ellipsis) - 1; n > 0; n-- {
		candidate := strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace) + Ellipsis
		if n <= e.Metrics.MinChars || m.Width(candidate, size, bold) <= maxWidth {
			return candidate
		}
	}
	return Ellipsis
}

func (e *Engine) measure() TextMeasurer {
	if e.Measure == nil {
		return render.Helvetica
	}
	return e.Measure
}

func (e *Engine) formatTime(startTime string) string {
	if e.Times == nil {
		return startTime
	}
	return e.Times.FormatTime(startTime)
}

func (e *Engine) formatType(t domain.SessionType) string {
	if e.Labels == nil {
		return string(t)
	}
	return e.Labels.FormatType(t)
}

func (e *Engine) unsupported(text string) bool {
	return e.Scripts != nil && e.Scripts.Unsupported(text)
}

func formatRPE(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sanitize strips control characters and collapses whitespace.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// noteLines splits notes on line breaks and sanitizes each line, dropping
// empty ones.
func noteLines(notes string) []string {
	var out []string
	for _, raw := range strings.FieldsFunc(notes, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if l := sanitize(raw); l != "" {
			out = append(out, l)
		}
	}
	return out
}
