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

const seriesCollectionName = "session_series"

// mongoSeriesRepository implements repository.SeriesRepository
type mongoSeriesRepository struct {
	collection *mongo.Collection
}

// NewMongoSeriesRepository creates a new SessionSeries repository.
func NewMongoSeriesRepository(db *mongo.Database) repository.SeriesRepository {
	return &mongoSeriesRepository{
		collection: db.Collection(seriesCollectionName),
	}
}

// Create inserts a new series.
func (r *mongoSeriesRepository) Create(ctx context.Context, series *domain.SessionSeries) (primitive.ObjectID, error) {
	if series.CoachID == primitive.NilObjectID || series.RRule == "" {
		return primitive.NilObjectID, errors.New("series requires coachId and rrule")
	}
	if series.ID == primitive.NilObjectID {
		series.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	series.CreatedAt = now
	series.UpdatedAt = now

	return insertOne(ctx, r.collection, series)
}

// GetByID retrieves a single series by its ID.
func (r *mongoSeriesRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionSeries, error) {
	return findOne[domain.SessionSeries](ctx, r.collection, bson.M{"_id": id})
}

// GetByCoachID retrieves all series of a coach, newest first.
func (r *mongoSeriesRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.SessionSeries, error) {
	newestFirst := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return findAll[domain.SessionSeries](ctx, r.collection, bson.M{"coachId": coachID}, newestFirst)
}

func (r *mongoSeriesRepository) Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error {
	return deleteOwned(ctx, r.collection, id, coachID)
}

// EnsureSeriesIndexes creates necessary indexes. Call during startup.
func EnsureSeriesIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
