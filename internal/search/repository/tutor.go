package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	searcherrors "tutormatch/internal/search/errors"
	"tutormatch/pkg/config"
	"tutormatch/pkg/model"
)

const (
	CollectionName = "Tutors"
)

// TutorRepository is a read-only view over the tutor directory. The search
// core never writes this collection; profile management owns it.
type TutorRepository interface {
	FindNear(ctx context.Context, lat, lng, radiusKm float64) ([]*model.TutorCandidate, error)
	FindByID(ctx context.Context, id string) (*model.TutorCandidate, error)
}

type mongoTutorRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTutorRepository(cfg *config.Config) TutorRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTutorRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoTutorRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// FindNear pre-filters candidates with the 2dsphere index. The index works
// on a spherical approximation, so the service re-validates each candidate's
// distance with the haversine calculator before inclusion.
func (r *mongoTutorRepository) FindNear(ctx context.Context, lat, lng, radiusKm float64) ([]*model.TutorCandidate, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"location": bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": radiusKm * 1000,
			},
		},
		"verification_status": model.VerificationVerified,
		"is_booking_enabled":  true,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find tutors near point: %w", err)
	}
	defer cursor.Close(ctx)

	var tutors []*model.TutorCandidate
	if err = cursor.All(ctx, &tutors); err != nil {
		return nil, fmt.Errorf("failed to decode tutors: %w", err)
	}

	return tutors, nil
}

func (r *mongoTutorRepository) FindByID(ctx context.Context, id string) (*model.TutorCandidate, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", searcherrors.ErrInvalidID, id)
	}

	var tutor model.TutorCandidate
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&tutor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, searcherrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tutor: %w", err)
	}

	return &tutor, nil
}
