package usecasecontract

import (
	"context"

	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
)

// SortMode selects the total order GetRankedFeed applies.
type SortMode string

const (
	SortModeRecency SortMode = "recency"
	SortModeRating  SortMode = "rating"
	SortModeBestFit SortMode = "bestfit"
)

// ItemGeometry describes one rendered item's position within the visible
// frame, as reported by the rendering surface. Offsets and extents share an
// arbitrary unit; only ratios matter.
type ItemGeometry struct {
	ItemID      string  `json:"item_id"`
	Offset      float64 `json:"offset"`
	Extent      float64 `json:"extent"`
	FrameOffset float64 `json:"frame_offset"`
	FrameExtent float64 `json:"frame_extent"`
}

// IFeedSession is the surface one viewer's rendering client drives. All
// methods are safe for concurrent use.
type IFeedSession interface {
	GetRankedFeed() []*entity.ContentItem
	RecordView(itemID string) error
	ToggleLike(itemID string) error
	OnViewportChanged(geometry []ItemGeometry)
	OnDoubleTap(itemID string) bool
	FeedbackActive(itemID string) bool
	SetSortMode(mode SortMode) error
	SortMode() SortMode
	Refresh(ctx context.Context) error
	DeleteItem(ctx context.Context, itemID string) error
	FitScore(item *entity.ContentItem) (score float64, highMatch bool)
	AuthorData(authorID string) (entity.AuthorData, bool)
	Subscribe(fn func()) (unsubscribe func())
	Wait()
	Close()
}

// IFeedUseCase hands out per-viewer feed sessions.
type IFeedUseCase interface {
	Session(ctx context.Context, viewerID string) (IFeedSession, error)
	CloseAll()
}
