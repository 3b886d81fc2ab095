package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Export stores metadata about a rendered schedule document.
// The document itself resides in S3.
type Export struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`         // Whose schedule was exported
	RequestedBy primitive.ObjectID `bson:"requestedBy" json:"requestedBy"` // Coach or athlete who asked for it
	StartDate   string             `bson:"startDate" json:"startDate"`
	EndDate     string             `bson:"endDate" json:"endDate"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"`           // Internal use only
	FileName    string             `bson:"fileName" json:"fileName"`       // <prefix>-<start>-to-<end>.<ext>
	ContentType string             `bson:"contentType" json:"contentType"` // e.g. "application/pdf"
	Size        int64              `bson:"size" json:"size"`
	Pages       int                `bson:"pages" json:"pages"`
	Sessions    int                `bson:"sessions" json:"sessions"` // Sessions in the requested range
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
