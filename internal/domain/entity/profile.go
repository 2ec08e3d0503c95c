package entity

// SizeTier is an ordinal attribute scale: four ordered pet size tiers used
// to compute partial-credit compatibility distances.
type SizeTier string

const (
	SizeTierSmall  SizeTier = "small"
	SizeTierMedium SizeTier = "medium"
	SizeTierLarge  SizeTier = "large"
	SizeTierGiant  SizeTier = "giant"
)

var sizeTierOrder = map[SizeTier]int{
	SizeTierSmall:  0,
	SizeTierMedium: 1,
	SizeTierLarge:  2,
	SizeTierGiant:  3,
}

// Ordinal returns the tier's position on the size scale, or -1 for an
// unknown tier.
func (s SizeTier) Ordinal() int {
	if ord, ok := sizeTierOrder[s]; ok {
		return ord
	}
	return -1
}

// DurationBand is a categorical walk duration preference.
type DurationBand string

const (
	DurationBandShort  DurationBand = "short"
	DurationBandMedium DurationBand = "medium"
	DurationBandLong   DurationBand = "long"
)

// AuthorProfile represents a feed author as seen by the ranking engine. The
// viewer's own profile uses the same shape and is never mutated by the feed.
type AuthorProfile struct {
	ID             string         `bson:"_id,omitempty" json:"id"`
	DisplayName    string         `bson:"display_name" json:"display_name"`
	Role           AuthorRole     `bson:"role" json:"role"`
	City           *string        `bson:"city,omitempty" json:"city,omitempty"`
	AvatarURL      *string        `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	SizeTolerances []SizeTier     `bson:"size_tolerances,omitempty" json:"size_tolerances,omitempty"`
	DurationBands  []DurationBand `bson:"duration_bands,omitempty" json:"duration_bands,omitempty"`
}

// RatingSummary aggregates the reviews left for an author.
type RatingSummary struct {
	AuthorID string  `bson:"_id,omitempty" json:"author_id"`
	Average  float64 `bson:"average" json:"average"`
	Count    int     `bson:"count" json:"count"`
}

// AuthorData pairs the two per-author lookups the feed memoizes together.
// Either field may be nil when the corresponding fetch failed or the author
// has no ratings yet.
type AuthorData struct {
	Profile *AuthorProfile
	Rating  *RatingSummary
}
