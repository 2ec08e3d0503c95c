package utils

import (
	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
)

// FitScore term weights. The totals these produce are compared against the
// configurable high-match threshold, so the individual weights are the only
// contract here.
const (
	RoleComplementBase = 100
	RoleSameBase       = 20

	SizeExactMatch   = 30
	SizeOneTierOff   = 20
	SizeTwoTiersOff  = 10
	SizeMaxDistance  = 5
	DurationOverlap  = 20
	DurationDisjoint = -15
	CityExactMatch   = 20
	CityDifferent    = 5
	RatingWeight     = 5
)

// RoleBase scores the provider/consumer pairing: complementary roles are
// what the feed is for, same-role items still get a floor.
func RoleBase(viewerRole, authorRole entity.AuthorRole) float64 {
	if viewerRole != authorRole {
		return RoleComplementBase
	}
	return RoleSameBase
}

// SizeCompatibility gives partial credit by minimal ordinal distance between
// the two declared size tier sets. Either side undeclared scores zero.
func SizeCompatibility(viewer, author []entity.SizeTier) float64 {
	if len(viewer) == 0 || len(author) == 0 {
		return 0
	}
	best := -1
	for _, v := range viewer {
		vo := v.Ordinal()
		if vo < 0 {
			continue
		}
		for _, a := range author {
			ao := a.Ordinal()
			if ao < 0 {
				continue
			}
			d := vo - ao
			if d < 0 {
				d = -d
			}
			if best < 0 || d < best {
				best = d
			}
		}
	}
	switch best {
	case 0:
		return SizeExactMatch
	case 1:
		return SizeOneTierOff
	case 2:
		return SizeTwoTiersOff
	case 3:
		return SizeMaxDistance
	}
	return 0
}

// DurationCompatibility rewards any overlap between preferred and offered
// duration bands and penalizes two declared sets with none.
func DurationCompatibility(viewer, author []entity.DurationBand) float64 {
	if len(viewer) == 0 || len(author) == 0 {
		return 0
	}
	for _, v := range viewer {
		for _, a := range author {
			if v == a {
				return DurationOverlap
			}
		}
	}
	return DurationDisjoint
}

// LocationBonus scores city proximity. Either side empty scores zero.
func LocationBonus(viewerCity, authorCity *string) float64 {
	if viewerCity == nil || *viewerCity == "" || authorCity == nil || *authorCity == "" {
		return 0
	}
	if *viewerCity == *authorCity {
		return CityExactMatch
	}
	return CityDifferent
}

// RatingBonus scales the author's average rating; no rating scores zero.
func RatingBonus(rating *entity.RatingSummary) float64 {
	if rating == nil || rating.Count == 0 {
		return 0
	}
	return rating.Average * RatingWeight
}
