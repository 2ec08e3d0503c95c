package contract

import (
	"context"

	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
)

// IAuthorCache memoizes per-author profile and rating lookups for the
// lifetime of one loaded item set.
//
// GetAuthorData is single-flight: the first caller for an author id triggers
// exactly one repository fetch and concurrent or later callers share the
// same result. Peek never fetches; ranking uses it so a cache miss costs a
// zero score instead of a blocked sort.
type IAuthorCache interface {
	GetAuthorData(ctx context.Context, authorID string) (entity.AuthorData, error)
	Peek(authorID string) (entity.AuthorData, bool)
	InvalidateAll()
	// Sweep evicts every cached author id not present in referenced,
	// bounding the cache to the working item set.
	Sweep(referenced map[string]bool)
	Len() int
}
