package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
)

// ErrProfileNotFound is returned when an author profile is not found in the database.
var ErrProfileNotFound = errors.New("author profile not found")

// ErrNoRatings is returned when an author has no reviews yet.
var ErrNoRatings = errors.New("author has no ratings")

// ProfileRepository represents the MongoDB implementation of the
// IContentRepository author lookups.
type ProfileRepository struct {
	profilesCollection *mongo.Collection
	reviewsCollection  *mongo.Collection
}

// NewProfileRepository creates and returns a new ProfileRepository instance.
func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		profilesCollection: db.Collection("profiles"),
		reviewsCollection:  db.Collection("reviews"),
	}
}

// GetAuthorProfile retrieves an author profile by its ID.
func (r *ProfileRepository) GetAuthorProfile(ctx context.Context, authorID string) (*entity.AuthorProfile, error) {
	var profile entity.AuthorProfile
	err := r.profilesCollection.FindOne(ctx, bson.M{"_id": authorID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to retrieve author profile: %w", err)
	}
	return &profile, nil
}

// GetRatingSummary aggregates the author's review average and count.
func (r *ProfileRepository) GetRatingSummary(ctx context.Context, authorID string) (*entity.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"author_id": authorID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     "$author_id",
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.reviewsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []entity.RatingSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode rating summary: %w", err)
	}
	if len(summaries) == 0 {
		return nil, ErrNoRatings
	}
	summary := summaries[0]
	summary.AuthorID = authorID
	return &summary, nil
}
