package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleCoach   Role = "coach"
	RoleAthlete Role = "athlete"
)

// User is either a Coach, who owns a team schedule, or an Athlete who
// follows one coach's schedule.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Athlete only: the coach whose schedule this athlete follows.
	CoachID *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsAthlete() bool {
	return u.Role == RoleAthlete
}

// ScheduleOwner returns the ID of the coach whose sessions this user may
// read and export. ok is false for an athlete without a coach.
func (u *User) ScheduleOwner() (id primitive.ObjectID, ok bool) {
	if u.IsCoach() {
		return u.ID, true
	}
	if u.CoachID != nil && *u.CoachID != primitive.NilObjectID {
		return *u.CoachID, true
	}
	return primitive.NilObjectID, false
}
