package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
)

// ErrItemNotFound is returned when a content item is not found in the database.
var ErrItemNotFound = errors.New("content item not found")

// ContentRepository represents the MongoDB implementation of the
// IContentRepository content item operations.
type ContentRepository struct {
	collection            *mongo.Collection // For content items
	connectionsCollection *mongo.Collection // For resolving a viewer's connections
}

// NewContentRepository creates and returns a new ContentRepository instance.
func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{
		collection:            db.Collection("content_items"),
		connectionsCollection: db.Collection("connections"),
	}
}

// GetPublicItems retrieves every non-deleted public item, newest first.
func (r *ContentRepository) GetPublicItems(ctx context.Context) ([]*entity.ContentItem, error) {
	filter := bson.M{"visibility": entity.VisibilityPublic, "is_deleted": false}
	return r.findItems(ctx, filter)
}

// GetConnectionItems retrieves connections-only items whose authors are
// connected to the viewer, newest first.
func (r *ContentRepository) GetConnectionItems(ctx context.Context, viewerID string) ([]*entity.ContentItem, error) {
	connectionIDs, err := r.connectionIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{
		"visibility": entity.VisibilityConnections,
		"author_id":  bson.M{"$in": connectionIDs},
		"is_deleted": false,
	}
	return r.findItems(ctx, filter)
}

func (r *ContentRepository) findItems(ctx context.Context, filter bson.M) ([]*entity.ContentItem, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query content items: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*entity.ContentItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode content items: %w", err)
	}
	return items, nil
}

func (r *ContentRepository) connectionIDs(ctx context.Context, viewerID string) ([]string, error) {
	cursor, err := r.connectionsCollection.Find(ctx, bson.M{"user_id": viewerID})
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ConnectedID string `bson:"connected_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode connections: %w", err)
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ConnectedID)
	}
	return ids, nil
}

// CommitView records viewerID in the item's viewer set. The $addToSet/$inc
// pair runs only when the viewer is absent, keeping view_count equal to the
// set size at the store.
func (r *ContentRepository) CommitView(ctx context.Context, itemID, viewerID string) error {
	filter := bson.M{"_id": itemID, "is_deleted": false, "viewer_ids": bson.M{"$ne": viewerID}}
	update := bson.M{
		"$addToSet": bson.M{"viewer_ids": viewerID},
		"$inc":      bson.M{"view_count": 1},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to commit view: %w", err)
	}
	if res.MatchedCount == 0 {
		// Already viewed is a success; only a missing item is an error.
		exists, err := r.itemExists(ctx, itemID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrItemNotFound
		}
	}
	return nil
}

// CommitLikeToggle sets viewerID's membership in the item's liker set to
// desired, adjusting like_count to match.
func (r *ContentRepository) CommitLikeToggle(ctx context.Context, itemID, viewerID string, desired bool) error {
	var filter, update bson.M
	if desired {
		filter = bson.M{"_id": itemID, "is_deleted": false, "liker_ids": bson.M{"$ne": viewerID}}
		update = bson.M{
			"$addToSet": bson.M{"liker_ids": viewerID},
			"$inc":      bson.M{"like_count": 1},
		}
	} else {
		filter = bson.M{"_id": itemID, "is_deleted": false, "liker_ids": viewerID}
		update = bson.M{
			"$pull": bson.M{"liker_ids": viewerID},
			"$inc":  bson.M{"like_count": -1},
		}
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to commit like toggle: %w", err)
	}
	if res.MatchedCount == 0 {
		exists, err := r.itemExists(ctx, itemID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrItemNotFound
		}
	}
	return nil
}

// DeleteItem marks a content item as deleted (soft delete) by its unique ID.
func (r *ContentRepository) DeleteItem(ctx context.Context, itemID string) error {
	filter := bson.M{"_id": itemID, "is_deleted": false}
	update := bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": time.Now()}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to delete content item: %w", err)
	}
	if res.ModifiedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ContentRepository) itemExists(ctx context.Context, itemID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": itemID, "is_deleted": false})
	if err != nil {
		return false, fmt.Errorf("failed to check content item existence: %w", err)
	}
	return count > 0, nil
}
