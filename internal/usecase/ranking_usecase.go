package usecase

import (
	"sort"

	"github.com/mikiasgoitom/Pawgram/internal/domain/contract"
	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
	"github.com/mikiasgoitom/Pawgram/internal/utils"
)

// RankingEngine turns a loaded item set into a total order for one of the
// three sort modes. Ranking is pure apart from non-blocking reads against
// the author cache: an author whose data is not cached yet simply
// contributes nothing to the score, so a cold cache degrades ordering, never
// availability.
type RankingEngine struct {
	highMatchThreshold float64
}

// NewRankingEngine creates an engine with the given high-match threshold.
func NewRankingEngine(highMatchThreshold float64) *RankingEngine {
	return &RankingEngine{highMatchThreshold: highMatchThreshold}
}

// Rank returns the items in the order selected by mode. Every input item
// appears exactly once in the output; the input slice is not modified.
func (e *RankingEngine) Rank(items []*entity.ContentItem, viewer *entity.AuthorProfile, mode usecasecontract.SortMode, cache contract.IAuthorCache) []*entity.ContentItem {
	ranked := make([]*entity.ContentItem, len(items))
	copy(ranked, items)

	switch mode {
	case usecasecontract.SortModeRating:
		e.rankByRating(ranked, cache)
	case usecasecontract.SortModeBestFit:
		e.rankByBestFit(ranked, viewer, cache)
	default:
		e.rankByRecency(ranked)
	}
	return ranked
}

// rankByRecency sorts by createdAt descending; ties keep repository order.
func (e *RankingEngine) rankByRecency(items []*entity.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// rankByRating puts items with a known author rating first, best rated on
// top; unrated items follow in recency order.
func (e *RankingEngine) rankByRating(items []*entity.ContentItem, cache contract.IAuthorCache) {
	rating := func(item *entity.ContentItem) *entity.RatingSummary {
		data, ok := cache.Peek(item.AuthorID)
		if !ok {
			return nil
		}
		return data.Rating
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := rating(items[i]), rating(items[j])
		if (ri != nil) != (rj != nil) {
			return ri != nil
		}
		if ri != nil && rj != nil {
			if ri.Average != rj.Average {
				return ri.Average > rj.Average
			}
			return false
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// rankByBestFit sorts descending by FitScore, breaking ties by recency.
func (e *RankingEngine) rankByBestFit(items []*entity.ContentItem, viewer *entity.AuthorProfile, cache contract.IAuthorCache) {
	scores := make(map[string]float64, len(items))
	for _, item := range items {
		scores[item.ID] = e.FitScore(item, viewer, cache)
	}
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := scores[items[i].ID], scores[items[j].ID]
		if si != sj {
			return si > sj
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// FitScore computes the multi-factor compatibility score between the viewer
// and one item. Missing or partial author data loses its terms, it never
// errors: the role base comes off the item itself, so even a completely
// uncached author scores something.
func (e *RankingEngine) FitScore(item *entity.ContentItem, viewer *entity.AuthorProfile, cache contract.IAuthorCache) float64 {
	if viewer == nil {
		viewer = &entity.AuthorProfile{}
	}
	score := utils.RoleBase(viewer.Role, item.AuthorRole)

	data, ok := cache.Peek(item.AuthorID)
	if ok && data.Profile != nil {
		score += utils.SizeCompatibility(viewer.SizeTolerances, data.Profile.SizeTolerances)
		score += utils.DurationCompatibility(viewer.DurationBands, data.Profile.DurationBands)
		score += utils.LocationBonus(viewer.City, data.Profile.City)
	}
	if ok {
		score += utils.RatingBonus(data.Rating)
	}
	return score
}

// IsHighMatch reports whether a FitScore total clears the configured badge
// threshold.
func (e *RankingEngine) IsHighMatch(score float64) bool {
	return score >= e.highMatchThreshold
}
