package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the calendar-day format used for Session.Date.
const DateLayout = "2006-01-02"

// SessionType classifies a scheduled activity.
type SessionType string

const (
	TypePractice      SessionType = "practice"
	TypeGame          SessionType = "game"
	TypeDayOff        SessionType = "day_off"
	TypeSplitPractice SessionType = "split_practice"
	TypeMeeting       SessionType = "meeting"
	TypeRecovery      SessionType = "recovery"
	TypeTravel        SessionType = "travel"
	// TypeDefault is the fallback for unknown types. It is never stored.
	TypeDefault SessionType = "default"
)

// SessionTypes lists every storable type in display order.
var SessionTypes = []SessionType{
	TypePractice,
	TypeGame,
	TypeDayOff,
	TypeSplitPractice,
	TypeMeeting,
	TypeRecovery,
	TypeTravel,
}

// Known reports whether t is one of the storable session types.
func (t SessionType) Known() bool {
	for _, known := range SessionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Slot is the half-day position a session occupies in a calendar cell.
type Slot string

const (
	SlotNone Slot = ""
	SlotAM   Slot = "AM"
	SlotPM   Slot = "PM"
)

// ParseSlot normalizes an explicit slot marker. ok is false for anything
// other than am/pm (case-insensitive) or the empty string.
func ParseSlot(s string) (slot Slot, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return SlotNone, true
	case "AM":
		return SlotAM, true
	case "PM":
		return SlotPM, true
	}
	return SlotNone, false
}

// Session is a single scheduled team activity on one calendar day.
type Session struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	CoachID primitive.ObjectID `bson:"coachId" json:"coachId" yaml:"-"` // Owner of the schedule

	Date      string      `bson:"date" json:"date" yaml:"date"` // YYYY-MM-DD, UTC calendar day
	Type      SessionType `bson:"type" json:"type" yaml:"type"`
	Slot      Slot        `bson:"slot,omitempty" json:"slot,omitempty" yaml:"slot,omitempty"`
	StartTime string      `bson:"startTime,omitempty" json:"startTime,omitempty" yaml:"startTime,omitempty"`
	Title     string      `bson:"title,omitempty" json:"title,omitempty" yaml:"title,omitempty"`
	Notes     string      `bson:"notes,omitempty" json:"notes,omitempty" yaml:"notes,omitempty"`

	TotalMinutes         int     `bson:"totalMinutes,omitempty" json:"totalMinutes,omitempty" yaml:"totalMinutes,omitempty"`
	HighIntensityMinutes int     `bson:"highIntensityMinutes,omitempty" json:"highIntensityMinutes,omitempty" yaml:"highIntensityMinutes,omitempty"`
	Courts               int     `bson:"courts,omitempty" json:"courts,omitempty" yaml:"courts,omitempty"`
	RPECourtPlanned      float64 `bson:"rpeCourtPlanned,omitempty" json:"rpeCourtPlanned,omitempty" yaml:"rpeCourtPlanned,omitempty"`
	RPEGymPlanned        float64 `bson:"rpeGymPlanned,omitempty" json:"rpeGymPlanned,omitempty" yaml:"rpeGymPlanned,omitempty"`

	SeriesID *primitive.ObjectID `bson:"seriesId,omitempty" json:"seriesId,omitempty" yaml:"-"` // Set when generated from a SessionSeries

	CreatedAt time.Time `bson:"createdAt" json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt" yaml:"-"`
}

// DayKey returns the YYYY-MM-DD part of Date. Dates stored with a time
// suffix ("2024-06-03T10:00:00Z") still land on their calendar day.
// The prefix is cut by bytes, which assumes ASCII input. A malformed date
// whose cut would split a rune is returned whole.
func (s *Session) DayKey() string {
	d := strings.TrimSpace(s.Date)
	if n := len(DateLayout); len(d) > n && utf8.RuneStart(d[n]) {
		return d[:n]
	}
	return d
}

// IsDayOff reports whether the session occupies a whole day.
func (s *Session) IsDayOff() bool {
	return s.Type == TypeDayOff
}
