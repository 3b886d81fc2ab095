package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/repository"
)

// In-memory repositories mirroring the Mongo implementations' contracts.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetAthletesByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		if u.IsAthlete() && u.CoachID != nil && *u.CoachID == coachID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []domain.Session // insertion order
	failMany error
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.Session) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = primitive.NewObjectID()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	r.sessions = append(r.sessions, *s)
	return s.ID, nil
}

func (r *fakeSessionRepo) CreateMany(_ context.Context, sessions []domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMany != nil {
		return r.failMany
	}
	for i := range sessions {
		sessions[i].ID = primitive.NewObjectID()
		r.sessions = append(r.sessions, sessions[i])
	}
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) GetByCoachAndRange(_ context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lo, hi := from.Format(domain.DateLayout), to.Format(domain.DateLayout)
	out := []domain.Session{}
	for _, s := range r.sessions {
		if s.CoachID == coachID && s.DayKey() >= lo && s.DayKey() <= hi {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayKey() < out[j].DayKey() })
	return out, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].ID == s.ID && r.sessions[i].CoachID == s.CoachID {
			r.sessions[i] = *s
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeSessionRepo) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.sessions {
		if s.ID == id && s.CoachID == coachID {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeSessionRepo) DeleteBySeriesID(_ context.Context, seriesID, coachID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.sessions[:0]
	var n int64
	for _, s := range r.sessions {
		if s.SeriesID != nil && *s.SeriesID == seriesID && s.CoachID == coachID {
			n++
			continue
		}
		kept = append(kept, s)
	}
	r.sessions = kept
	return n, nil
}

type fakeSeriesRepo struct {
	mu     sync.Mutex
	series map[primitive.ObjectID]domain.SessionSeries
}

func newFakeSeriesRepo() *fakeSeriesRepo {
	return &fakeSeriesRepo{series: map[primitive.ObjectID]domain.SessionSeries{}}
}

func (r *fakeSeriesRepo) Create(_ context.Context, s *domain.SessionSeries) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == primitive.NilObjectID {
		s.ID = primitive.NewObjectID()
	}
	r.series[s.ID] = *s
	return s.ID, nil
}

func (r *fakeSeriesRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SessionSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSeriesRepo) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.SessionSeries, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.SessionSeries{}
	for _, s := range r.series {
		if s.CoachID == coachID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSeriesRepo) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.series[id]
	if !ok || s.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(r.series, id)
	return nil
}

type fakeExportRepo struct {
	mu      sync.Mutex
	exports []domain.Export
	fail    error
}

func (r *fakeExportRepo) Create(_ context.Context, e *domain.Export) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return primitive.NilObjectID, r.fail
	}
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now().UTC()
	r.exports = append(r.exports, *e)
	return e.ID, nil
}

func (r *fakeExportRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Export, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.exports {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExportRepo) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.Export, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Export{}
	for i := len(r.exports) - 1; i >= 0; i-- {
		if r.exports[i].CoachID == coachID {
			out = append(out, r.exports[i])
		}
	}
	return out, nil
}

func (r *fakeExportRepo) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.exports {
		if e.ID == id && e.CoachID == coachID {
			r.exports = append(r.exports[:i], r.exports[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeStorage keeps uploaded objects in memory.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStorage) PutObject(_ context.Context, key, contentType string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = body
	s.types[key] = contentType
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", errors.New("no such key")
	}
	return "https://s3.test/" + key + "?expires=" + expires.String(), nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
