package layout

import (
	"fmt"
	"strings"
	"unicode"
)

// UnsupportedPlaceholder replaces text the export fonts cannot shape.
const UnsupportedPlaceholder = "[Hebrew text - view in app]"

// ScriptDetector reports text the rendering backend cannot shape.
type ScriptDetector interface {
	Unsupported(text string) bool
}

// RangeDetector flags text whose letters fall in Tables at a ratio of at
// least Threshold.
type RangeDetector struct {
	Tables    []*unicode.RangeTable
	Threshold float64
}

// HebrewDetector flags text that is at least half Hebrew letters.
func HebrewDetector() RangeDetector {
	return RangeDetector{Tables: []*unicode.RangeTable{unicode.Hebrew}, Threshold: 0.5}
}

func (d RangeDetector) Unsupported(text string) bool {
	var letters, flagged int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsOneOf(d.Tables, r) {
			flagged++
		}
	}
	if letters == 0 || flagged == 0 {
		return false
	}
	return float64(flagged)/float64(letters) >= d.Threshold
}

// ScriptPolicy decides what happens to a title or notes field written in
// an unsupported script.
type ScriptPolicy int

const (
	// DropUnsupported removes the field from the box.
	DropUnsupported ScriptPolicy = iota
	// PlaceholderUnsupported renders UnsupportedPlaceholder instead.
	PlaceholderUnsupported
)

// ParseScriptPolicy accepts "drop" or "placeholder".
func ParseScriptPolicy(s string) (ScriptPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return DropUnsupported, nil
	case "placeholder":
		return PlaceholderUnsupported, nil
	}
	return DropUnsupported, fmt.Errorf("unknown unsupported-text policy %q", s)
}

func (p ScriptPolicy) String() string {
	if p == PlaceholderUnsupported {
		return "placeholder"
	}
	return "drop"
}
