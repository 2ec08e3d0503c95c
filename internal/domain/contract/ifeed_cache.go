package contract

import (
	"context"

	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
)

// CachedFeedPage is the cached payload for the ranked feed endpoint.
type CachedFeedPage struct {
	Items []entity.ContentItem `json:"items"`
	Total int                  `json:"total"`
}

// IFeedCache defines caching operations for served feed pages, keyed by
// viewer and sort mode. Any mutation in a viewer's session invalidates
// that viewer's pages.
type IFeedCache interface {
	GetFeedPage(ctx context.Context, viewerID, sortMode string) (*CachedFeedPage, bool, error)
	SetFeedPage(ctx context.Context, viewerID, sortMode string, page *CachedFeedPage) error
	InvalidateViewer(ctx context.Context, viewerID string) error
}
