package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/team-schedule/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetAthletesByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
}

// SessionRepository stores scheduled sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, sessions []domain.Session) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	// GetByCoachAndRange returns the coach's sessions whose calendar day is
	// within [from, to], ordered by date, then creation time, then ID.
	GetByCoachAndRange(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error // Ensure coach owns the session
	DeleteBySeriesID(ctx context.Context, seriesID primitive.ObjectID, coachID primitive.ObjectID) (int64, error)
}

// SeriesRepository stores recurring session templates.
type SeriesRepository interface {
	Create(ctx context.Context, series *domain.SessionSeries) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionSeries, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.SessionSeries, error)
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error
}

// ExportRepository stores metadata about exported schedule documents.
type ExportRepository interface {
	Create(ctx context.Context, export *domain.Export) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Export, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Export, error) // Newest first
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error
}
