package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionSeries is a recurring session template. Its occurrences are
// materialized as ordinary Sessions carrying the series ID.
type SessionSeries struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name      string             `bson:"name" json:"name"`                           // e.g., "Preseason practices"
	RRule     string             `bson:"rrule" json:"rrule"`                         // RFC 5545 recurrence rule, e.g. "FREQ=WEEKLY;BYDAY=MO,WE"
	StartDate string             `bson:"startDate" json:"startDate"`                 // First candidate day (YYYY-MM-DD)
	EndDate   string             `bson:"endDate" json:"endDate"`                     // Last candidate day, inclusive
	ExDates   []string           `bson:"exDates,omitempty" json:"exDates,omitempty"` // Days skipped by the rule
	Template  Session            `bson:"template" json:"template"`                   // Date, ID and SeriesID are ignored
	Count     int                `bson:"count" json:"count"`                         // Number of sessions generated
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
