package layout

import (
	"fmt"

	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/render"
)

// Style is the tint of a session box. Color is shared by the background
// and the text; Alpha is the background opacity.
type Style struct {
	Color render.Color `mapstructure:"color" yaml:"color"`
	Alpha float64      `mapstructure:"alpha" yaml:"alpha"`
}

// StyleTable maps session types to styles. It must carry a
// domain.TypeDefault entry used for unrecognized types.
type StyleTable map[domain.SessionType]Style

// DefaultStyles returns the built-in palette.
func DefaultStyles() StyleTable {
	return StyleTable{
		domain.TypePractice:      {Color: render.Color{R: 37, G: 99, B: 235}, Alpha: 0.15},
		domain.TypeGame:          {Color: render.Color{R: 220, G: 38, B: 38}, Alpha: 0.18},
		domain.TypeDayOff:        {Color: render.Color{R: 5, G: 150, B: 105}, Alpha: 0.12},
		domain.TypeSplitPractice: {Color: render.Color{R: 124, G: 58, B: 237}, Alpha: 0.15},
		domain.TypeMeeting:       {Color: render.Color{R: 217, G: 119, B: 6}, Alpha: 0.15},
		domain.TypeRecovery:      {Color: render.Color{R: 13, G: 148, B: 136}, Alpha: 0.15},
		domain.TypeTravel:        {Color: render.Color{R: 79, G: 70, B: 229}, Alpha: 0.15},
		domain.TypeDefault:       {Color: render.Color{R: 75, G: 85, B: 99}, Alpha: 0.12},
	}
}

var fallbackStyle = Style{Color: render.Gray, Alpha: 0.12}

// Lookup returns the style for t, or the Default entry.
func (t StyleTable) Lookup(typ domain.SessionType) Style {
	if s, ok := t[typ]; ok {
		return s
	}
	if s, ok := t[domain.TypeDefault]; ok {
		return s
	}
	return fallbackStyle
}

// Validate checks that the table has a Default entry and sane alphas.
func (t StyleTable) Validate() error {
	if _, ok := t[domain.TypeDefault]; !ok {
		return fmt.Errorf("style table: missing %q entry", domain.TypeDefault)
	}
	for typ, s := range t {
		if typ != domain.TypeDefault && !typ.Known() {
			return fmt.Errorf("style table: unknown session type %q", typ)
		}
		if s.Alpha < 0 || s.Alpha > 1 {
			return fmt.Errorf("style table: alpha for %q must be within 0..1, got %v", typ, s.Alpha)
		}
	}
	return nil
}

// Merge returns a copy of t with the entries of override applied on top.
func (t StyleTable) Merge(override StyleTable) StyleTable {
	out := make(StyleTable, len(t)+len(override))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
