package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/team-schedule/internal/calendar"
	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/repository"
)

const (
	// MaxRangeDays bounds listing, feed and export ranges.
	MaxRangeDays = 366
	// MaxSeriesOccurrences bounds the sessions a single series may generate.
	MaxSeriesOccurrences = 400
)

// --- Error Definitions ---
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSeriesNotFound  = errors.New("session series not found")
	ErrInvalidSession  = errors.New("invalid session")
	ErrInvalidSeries   = errors.New("invalid session series")
	ErrRangeTooLarge   = fmt.Errorf("date range exceeds %d days", MaxRangeDays)
	ErrNoSchedule      = errors.New("user does not follow any coach's schedule")
)

type ScheduleService interface {
	// Owner resolves whose schedule a user reads: their own for coaches,
	// their coach's for athletes.
	Owner(ctx context.Context, userID primitive.ObjectID) (primitive.ObjectID, error)

	CreateSession(ctx context.Context, coachID primitive.ObjectID, session *domain.Session) (*domain.Session, error)
	GetSession(ctx context.Context, ownerID, sessionID primitive.ObjectID) (*domain.Session, error)
	UpdateSession(ctx context.Context, coachID primitive.ObjectID, session *domain.Session) (*domain.Session, error)
	DeleteSession(ctx context.Context, coachID, sessionID primitive.ObjectID) error
	ListSessions(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]domain.Session, error)

	CreateSeries(ctx context.Context, coachID primitive.ObjectID, series *domain.SessionSeries) (*domain.SessionSeries, error)
	GetSeries(ctx context.Context, coachID primitive.ObjectID) ([]domain.SessionSeries, error)
	DeleteSeries(ctx context.Context, coachID, seriesID primitive.ObjectID) (deleted int64, err error)
}

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	seriesRepo  repository.SeriesRepository
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	seriesRepo repository.SeriesRepository,
) ScheduleService {
	return &scheduleService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		seriesRepo:  seriesRepo,
	}
}

func (s *scheduleService) Owner(ctx context.Context, userID primitive.ObjectID) (primitive.ObjectID, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrUserNotFound
		}
		return primitive.NilObjectID, err
	}
	owner, ok := user.ScheduleOwner()
	if !ok {
		return primitive.NilObjectID, ErrNoSchedule
	}
	return owner, nil
}

// CreateSession validates and stores a single session.
func (s *scheduleService) CreateSession(ctx context.Context, coachID primitive.ObjectID, session *domain.Session) (*domain.Session, error) {
	if err := NormalizeSession(session); err != nil {
		return nil, err
	}
	session.CoachID = coachID
	session.SeriesID = nil

	id, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		log.Printf("ERROR: Failed to create session for coach %s: %v", coachID.Hex(), err)
		return nil, err
	}
	session.ID = id
	return session, nil
}

// GetSession returns a session of the owner's schedule. Sessions of other
// coaches are reported as not found.
func (s *scheduleService) GetSession(ctx context.Context, ownerID, sessionID primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.CoachID != ownerID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *scheduleService) UpdateSession(ctx context.Context, coachID primitive.ObjectID, session *domain.Session) (*domain.Session, error) {
	existing, err := s.GetSession(ctx, coachID, session.ID)
	if err != nil {
		return nil, err
	}
	if err := NormalizeSession(session); err != nil {
		return nil, err
	}
	session.CoachID = coachID
	session.SeriesID = existing.SeriesID
	session.CreatedAt = existing.CreatedAt

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, session.ID)
}

func (s *scheduleService) DeleteSession(ctx context.Context, coachID, sessionID primitive.ObjectID) error {
	err := s.sessionRepo.Delete(ctx, sessionID, coachID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// ListSessions returns the owner's sessions between from and to inclusive,
// in date then insertion order.
func (s *scheduleService) ListSessions(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) ([]domain.Session, error) {
	if err := CheckRange(from, to); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByCoachAndRange(ctx, ownerID, from, to)
}

// CheckRange validates a requested day range.
func CheckRange(from, to time.Time) error {
	from, to = calendar.Midnight(from), calendar.Midnight(to)
	if to.Before(from) {
		return calendar.ErrInvalidRange
	}
	if to.Sub(from) >= MaxRangeDays*24*time.Hour {
		return ErrRangeTooLarge
	}
	return nil
}

// CreateSeries expands the series rule between its start and end dates and
// stores one session per occurrence.
func (s *scheduleService) CreateSeries(ctx context.Context, coachID primitive.ObjectID, series *domain.SessionSeries) (*domain.SessionSeries, error) {
	series.CoachID = coachID
	series.ID = primitive.NewObjectID()

	dates, err := ExpandSeries(series)
	if err != nil {
		return nil, err
	}

	template := series.Template
	template.Date = dates[0]
	if err := NormalizeSession(&template); err != nil {
		return nil, fmt.Errorf("%w: template: %w", ErrInvalidSeries, err)
	}

	sessions := make([]domain.Session, len(dates))
	for i, d := range dates {
		sessions[i] = template
		sessions[i].Date = d
		sessions[i].CoachID = coachID
		sessions[i].SeriesID = &series.ID
	}
	series.Count = len(sessions)

	if _, err := s.seriesRepo.Create(ctx, series); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.CreateMany(ctx, sessions); err != nil {
		log.Printf("ERROR: Failed to store sessions of series %s: %v", series.ID.Hex(), err)
		// Best effort: leave no half-created series behind.
		if _, delErr := s.sessionRepo.DeleteBySeriesID(ctx, series.ID, coachID); delErr != nil {
			log.Printf("WARN: Failed to clean up sessions of series %s: %v", series.ID.Hex(), delErr)
		}
		if delErr := s.seriesRepo.Delete(ctx, series.ID, coachID); delErr != nil {
			log.Printf("WARN: Failed to clean up series %s: %v", series.ID.Hex(), delErr)
		}
		return nil, err
	}

	log.Printf("INFO: Created series %s with %d sessions for coach %s", series.ID.Hex(), series.Count, coachID.Hex())
	return series, nil
}

func (s *scheduleService) GetSeries(ctx context.Context, coachID primitive.ObjectID) ([]domain.SessionSeries, error) {
	return s.seriesRepo.GetByCoachID(ctx, coachID)
}

// DeleteSeries removes a series and every session generated from it.
func (s *scheduleService) DeleteSeries(ctx context.Context, coachID, seriesID primitive.ObjectID) (int64, error) {
	series, err := s.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrSeriesNotFound
		}
		return 0, err
	}
	if series.CoachID != coachID {
		return 0, ErrSeriesNotFound
	}

	deleted, err := s.sessionRepo.DeleteBySeriesID(ctx, seriesID, coachID)
	if err != nil {
		return 0, err
	}
	if err := s.seriesRepo.Delete(ctx, seriesID, coachID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return deleted, err
	}
	return deleted, nil
}

// ExpandSeries returns the YYYY-MM-DD days on which the series rule fires
// between StartDate and EndDate inclusive, minus ExDates.
func ExpandSeries(series *domain.SessionSeries) ([]string, error) {
	start, err := calendar.ParseDate(series.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeries, err)
	}
	end, err := calendar.ParseDate(series.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeries, err)
	}
	if err := CheckRange(start, end); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeries, err)
	}

	r, err := rrule.StrToRRule(strings.TrimPrefix(strings.TrimSpace(series.RRule), "RRULE:"))
	if err != nil {
		return nil, fmt.Errorf("%w: rrule: %w", ErrInvalidSeries, err)
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range series.ExDates {
		d, err := calendar.ParseDate(ex)
		if err != nil {
			return nil, fmt.Errorf("%w: exDates: %w", ErrInvalidSeries, err)
		}
		set.ExDate(d)
	}

	occurrences := set.Between(start, end.Add(24*time.Hour-time.Second), true)
	if len(occurrences) == 0 {
		return nil, fmt.Errorf("%w: rule produces no sessions between %s and %s", ErrInvalidSeries, series.StartDate, series.EndDate)
	}
	if len(occurrences) > MaxSeriesOccurrences {
		return nil, fmt.Errorf("%w: rule produces more than %d sessions", ErrInvalidSeries, MaxSeriesOccurrences)
	}

	days := make([]string, len(occurrences))
	for i, t := range occurrences {
		days[i] = calendar.FormatDate(t)
	}
	return days, nil
}

// NormalizeSession validates a session and canonicalizes its date, type
// and slot.
func NormalizeSession(session *domain.Session) error {
	day, err := calendar.ParseDate(session.DayKey())
	if err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidSession)
	}
	session.Date = calendar.FormatDate(day)

	session.Type = domain.SessionType(strings.ToLower(strings.TrimSpace(string(session.Type))))
	if !session.Type.Known() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidSession, session.Type)
	}

	slot, ok := domain.ParseSlot(string(session.Slot))
	if !ok {
		return fmt.Errorf("%w: slot must be AM or PM", ErrInvalidSession)
	}
	session.Slot = slot

	if session.TotalMinutes < 0 || session.HighIntensityMinutes < 0 || session.Courts < 0 {
		return fmt.Errorf("%w: minutes and courts cannot be negative", ErrInvalidSession)
	}
	if session.HighIntensityMinutes > session.TotalMinutes && session.TotalMinutes > 0 {
		return fmt.Errorf("%w: high intensity minutes exceed total minutes", ErrInvalidSession)
	}
	for _, rpe := range []float64{session.RPECourtPlanned, session.RPEGymPlanned} {
		if rpe < 0 || rpe > 10 {
			return fmt.Errorf("%w: planned RPE must be within 0..10", ErrInvalidSession)
		}
	}
	return nil
}
