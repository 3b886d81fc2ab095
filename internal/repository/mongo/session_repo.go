package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/team-schedule/internal/domain"
	"alcyxob/team-schedule/internal/repository"
)

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

func prepareSession(session *domain.Session, now time.Time) error {
	if session.CoachID == primitive.NilObjectID || session.Date == "" || session.Type == "" {
		return errors.New("session requires coachId, date, and type")
	}
	session.ID = primitive.NewObjectID()
	session.CreatedAt = now
	session.UpdatedAt = now
	return nil
}

// Create inserts a new session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if err := prepareSession(session, time.Now().UTC()); err != nil {
		return primitive.NilObjectID, err
	}

	return insertOne(ctx, r.collection, session)
}

// CreateMany inserts generated sessions in order. IDs and timestamps are
// written back into the slice.
func (r *mongoSessionRepository) CreateMany(ctx context.Context, sessions []domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(sessions))
	for i := range sessions {
		if err := prepareSession(&sessions[i], now); err != nil {
			return err
		}
		docs[i] = sessions[i]
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	return findOne[domain.Session](ctx, r.collection, bson.M{"_id": id})
}

// GetByCoachAndRange retrieves a coach's sessions between two calendar days, inclusive.
func (r *mongoSessionRepository) GetByCoachAndRange(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Session, error) {
	// Dates are stored as YYYY-MM-DD, possibly with a time suffix, so a
	// half-open string range on the day after "to" catches both forms.
	filter := bson.M{
		"coachId": coachID,
		"date": bson.M{
			"$gte": from.UTC().Format(domain.DateLayout),
			"$lt":  to.UTC().AddDate(0, 0, 1).Format(domain.DateLayout),
		},
	}
	// Insertion order breaks ties inside a slot, so keep it stable.
	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})

	return findAll[domain.Session](ctx, r.collection, filter, findOptions)
}

func (r *mongoSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	if session.ID == primitive.NilObjectID {
		return errors.New("session ID is required for update")
	}

	// CoachID and SeriesID are not changed here.
	filter := bson.M{"_id": session.ID, "coachId": session.CoachID}
	updateDoc := bson.M{
		"$set": bson.M{
			"date":                 session.Date,
			"type":                 session.Type,
			"slot":                 session.Slot,
			"startTime":            session.StartTime,
			"title":                session.Title,
			"notes":                session.Notes,
			"totalMinutes":         session.TotalMinutes,
			"highIntensityMinutes": session.HighIntensityMinutes,
			"courts":               session.Courts,
			"rpeCourtPlanned":      session.RPECourtPlanned,
			"rpeGymPlanned":        session.RPEGymPlanned,
			"updatedAt":            time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error {
	if id == primitive.NilObjectID || coachID == primitive.NilObjectID {
		return errors.New("session ID and coach ID are required for deletion")
	}

	return deleteOwned(ctx, r.collection, id, coachID)
}

// DeleteBySeriesID removes every session generated from a series.
func (r *mongoSessionRepository) DeleteBySeriesID(ctx context.Context, seriesID primitive.ObjectID, coachID primitive.ObjectID) (int64, error) {
	filter := bson.M{"seriesId": seriesID, "coachId": coachID}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Range listing for the calendar and exports
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "date", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "seriesId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
