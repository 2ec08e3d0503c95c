package contract

import (
	"context"

	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
)

// IContentRepository provides access to the remote content store. The feed
// core treats it as an opaque, eventually-consistent collaborator: loads
// replace items wholesale and commits target exactly one item each.
type IContentRepository interface {
	GetPublicItems(ctx context.Context) ([]*entity.ContentItem, error)
	GetConnectionItems(ctx context.Context, viewerID string) ([]*entity.ContentItem, error)
	GetAuthorProfile(ctx context.Context, authorID string) (*entity.AuthorProfile, error)
	GetRatingSummary(ctx context.Context, authorID string) (*entity.RatingSummary, error)
	CommitView(ctx context.Context, itemID, viewerID string) error
	CommitLikeToggle(ctx context.Context, itemID, viewerID string, desired bool) error
	DeleteItem(ctx context.Context, itemID string) error
}
