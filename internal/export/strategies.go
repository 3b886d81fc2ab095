package export

import (
	"strings"
	"time"

	"alcyxob/team-schedule/internal/domain"
)

var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseClock reads the time of day from a start time string. Timestamps
// are read in UTC.
func ParseClock(s string) (hour, minute int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	upper := strings.ToUpper(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			t = t.UTC()
			return t.Hour(), t.Minute(), true
		}
	}
	return 0, 0, false
}

// NoonClassifier puts sessions starting before Cutoff (hour of day) in the
// AM slot and the rest in PM. Unparseable times go to AM.
type NoonClassifier struct {
	Cutoff int
}

func (c NoonClassifier) Classify(startTime string) domain.Slot {
	h, _, ok := ParseClock(startTime)
	cutoff := c.Cutoff
	if cutoff == 0 {
		cutoff = 12
	}
	if ok && h >= cutoff {
		return domain.SlotPM
	}
	return domain.SlotAM
}

// ClockFormatter renders parseable start times as "9:30 AM" and returns
// anything else unchanged.
type ClockFormatter struct{}

func (ClockFormatter) FormatTime(startTime string) string {
	h, m, ok := ParseClock(startTime)
	if !ok {
		return strings.TrimSpace(startTime)
	}
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC).Format("3:04 PM")
}

var typeLabels = map[domain.SessionType]string{
	domain.TypePractice:      "Practice",
	domain.TypeGame:          "Game",
	domain.TypeDayOff:        "Day Off",
	domain.TypeSplitPractice: "Split Practice",
	domain.TypeMeeting:       "Meeting",
	domain.TypeRecovery:      "Recovery",
	domain.TypeTravel:        "Travel",
}

// TypeLabels renders known types with their display names and unknown
// ones title-cased ("team_dinner" -> "Team Dinner").
type TypeLabels struct{}

func (TypeLabels) FormatType(t domain.SessionType) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	words := strings.FieldsFunc(string(t), func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
	}
	if len(words) == 0 {
		return "Session"
	}
	return strings.Join(words, " ")
}

// DateFormatter renders the range dates in page headers.
type DateFormatter func(t time.Time) string

// LongDate formats dates as "Jun 3, 2024".
func LongDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
