package mongodb

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mikiasgoitom/Pawgram/internal/domain/contract"
)

// FeedRepository composes the content and profile repositories into the
// single IContentRepository port the feed core consumes.
type FeedRepository struct {
	*ContentRepository
	*ProfileRepository
}

// NewFeedRepository creates a FeedRepository over the given database.
func NewFeedRepository(db *mongo.Database) *FeedRepository {
	return &FeedRepository{
		ContentRepository: NewContentRepository(db),
		ProfileRepository: NewProfileRepository(db),
	}
}

var _ contract.IContentRepository = (*FeedRepository)(nil)
