package calendar

import (
	"strings"
	"time"

	"alcyxob/team-schedule/internal/domain"
)

// Day is one cell of the calendar grid. A Day carries either a DayOff
// session or up to one AM and one PM session, never both kinds.
type Day struct {
	Date         time.Time
	Key          string // YYYY-MM-DD
	DayNumber    int
	OutsideRange bool // padding day added to complete a week

	DayOff *domain.Session
	AM     *domain.Session
	PM     *domain.Session
}

// Empty reports whether nothing is scheduled on the day.
func (d Day) Empty() bool {
	return d.DayOff == nil && d.AM == nil && d.PM == nil
}

// Days expands [start, end] to whole weeks and returns one empty Day per
// date, flagging the padding days.
func Days(start, end time.Time) ([]Day, error) {
	dates, err := Expand(start, end)
	if err != nil {
		return nil, err
	}
	start, end = Midnight(start), Midnight(end)

	days := make([]Day, len(dates))
	for i, d := range dates {
		days[i] = Day{
			Date:         d,
			Key:          FormatDate(d),
			DayNumber:    d.Day(),
			OutsideRange: d.Before(start) || d.After(end),
		}
	}
	return days, nil
}

// SlotClassifier decides the slot of a session that has no explicit one.
type SlotClassifier interface {
	Classify(startTime string) domain.Slot
}

// SlotClassifierFunc adapts a function to SlotClassifier.
type SlotClassifierFunc func(startTime string) domain.Slot

func (f SlotClassifierFunc) Classify(startTime string) domain.Slot {
	return f(startTime)
}

// Assign buckets sessions into the given days. The input days are not
// modified.
//
// Sessions are matched by their YYYY-MM-DD day key. The first DayOff
// session of a day takes the whole cell and every other session on that day
// is ignored. Otherwise each session goes to its explicit slot, or to the
// slot chosen by classify; when two sessions compete for one slot the
// earlier one in input order is kept. Padding days outside the requested
// range never receive sessions.
func Assign(sessions []domain.Session, days []Day, classify SlotClassifier) []Day {
	byDay := make(map[string][]int, len(days))
	for i := range sessions {
		key := sessions[i].DayKey()
		byDay[key] = append(byDay[key], i)
	}

	out := make([]Day, len(days))
	for i, day := range days {
		day.DayOff, day.AM, day.PM = nil, nil, nil
		if day.OutsideRange {
			out[i] = day
			continue
		}
		idx := byDay[day.Key]

		for _, j := range idx {
			if sessions[j].IsDayOff() {
				s := sessions[j]
				day.DayOff = &s
				break
			}
		}
		if day.DayOff == nil {
			for _, j := range idx {
				s := sessions[j]
				switch slotOf(&s, classify) {
				case domain.SlotPM:
					if day.PM == nil {
						day.PM = &s
					}
				default:
					if day.AM == nil {
						day.AM = &s
					}
				}
			}
		}
		out[i] = day
	}
	return out
}

// Index maps each day's key to the day.
func Index(days []Day) map[string]Day {
	m := make(map[string]Day, len(days))
	for _, d := range days {
		m[d.Key] = d
	}
	return m
}

func slotOf(s *domain.Session, classify SlotClassifier) domain.Slot {
	if slot, ok := domain.ParseSlot(string(s.Slot)); ok && slot != domain.SlotNone {
		return slot
	}
	if classify == nil || strings.TrimSpace(s.StartTime) == "" {
		return domain.SlotAM
	}
	return classify.Classify(s.StartTime)
}
