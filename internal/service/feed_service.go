package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/team-schedule/internal/calendar"
	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/export"
)

// defaultSessionLength is used for timed sessions without TotalMinutes.
const defaultSessionLength = time.Hour

// FeedService publishes a schedule as an iCalendar feed.
type FeedService interface {
	Feed(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (string, error)
}

type feedService struct {
	schedule ScheduleService
	name     string
	labels   export.TypeLabels
}

// NewFeedService creates a FeedService. name becomes the calendar name.
func NewFeedService(schedule ScheduleService, name string) FeedService {
	return &feedService{schedule: schedule, name: name}
}

func (s *feedService) Feed(ctx context.Context, userID primitive.ObjectID, from, to time.Time) (string, error) {
	coachID, err := s.schedule.Owner(ctx, userID)
	if err != nil {
		return "", err
	}
	sessions, err := s.schedule.ListSessions(ctx, coachID, from, to)
	if err != nil {
		return "", err
	}
	return BuildFeed(s.name, sessions, s.labels), nil
}

// BuildFeed renders sessions as a VCALENDAR. Day-off sessions and sessions
// without a readable start time become all-day events.
func BuildFeed(name string, sessions []domain.Session, labels export.TypeLabels) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//team-schedule//schedule feed//EN")
	cal.SetXWRCalName(name)

	for i := range sessions {
		ss := &sessions[i]
		day, err := calendar.ParseDate(ss.DayKey())
		if err != nil {
			continue
		}

		// Sessions read from a file have no ID yet.
		uid := ss.ID.Hex()
		if ss.ID.IsZero() {
			uid = fmt.Sprintf("%s-%d", calendar.FormatDate(day), i)
		}
		stamp := ss.UpdatedAt.UTC()
		if stamp.IsZero() {
			stamp = day
		}
		ev := cal.AddEvent(uid + "@team-schedule")
		ev.SetDtStampTime(stamp)
		ev.SetModifiedAt(stamp)
		ev.SetSummary(feedSummary(ss, labels))
		if desc := feedDescription(ss); desc != "" {
			ev.SetDescription(desc)
		}

		h, m, ok := export.ParseClock(ss.StartTime)
		if ss.IsDayOff() || !ok {
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}
		start := day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
		length := defaultSessionLength
		if ss.TotalMinutes > 0 {
			length = time.Duration(ss.TotalMinutes) * time.Minute
		}
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(length))
	}
	return cal.Serialize()
}

func feedSummary(ss *domain.Session, labels export.TypeLabels) string {
	label := labels.FormatType(ss.Type)
	title := strings.TrimSpace(ss.Title)
	if title == "" || strings.EqualFold(title, label) {
		return label
	}
	return label + ": " + title
}

func feedDescription(ss *domain.Session) string {
	var parts []string
	if ss.TotalMinutes > 0 || ss.HighIntensityMinutes > 0 || ss.Courts > 0 {
		parts = append(parts, fmt.Sprintf("%d min total, %d min high intensity, %d court(s)", ss.TotalMinutes, ss.HighIntensityMinutes, ss.Courts))
	}
	if ss.RPECourtPlanned > 0 {
		parts = append(parts, fmt.Sprintf("RPE court: %g", ss.RPECourtPlanned))
	}
	if ss.RPEGymPlanned > 0 {
		parts = append(parts, fmt.Sprintf("RPE gym: %g", ss.RPEGymPlanned))
	}
	if notes := strings.TrimSpace(ss.Notes); notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, "\n")
}
