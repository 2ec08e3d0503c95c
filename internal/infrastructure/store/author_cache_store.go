package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mikiasgoitom/Pawgram/internal/domain/contract"
	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
	"github.com/mikiasgoitom/Pawgram/internal/metrics"
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

// ErrAuthorFetchFailed is returned when the author's profile lookup failed;
// callers fall back to the display data carried on the item itself.
var ErrAuthorFetchFailed = errors.New("author data fetch failed")

type authorEntry struct {
	data entity.AuthorData
	err  error
}

// AuthorCacheStore memoizes per-author profile and rating lookups for the
// current load. Fetches are deduplicated through singleflight, so any number
// of concurrent callers for one author id costs one repository round trip.
// Entries are dropped only by InvalidateAll (refresh, reload) or Sweep; they
// never expire mid-session, which keeps repeated renders flicker free.
type AuthorCacheStore struct {
	repo   contract.IContentRepository
	logger usecasecontract.IAppLogger
	mtr    *metrics.Metrics

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]authorEntry
	gen     uint64
}

// NewAuthorCacheStore creates an empty cache over the given repository.
func NewAuthorCacheStore(repo contract.IContentRepository, logger usecasecontract.IAppLogger) *AuthorCacheStore {
	return &AuthorCacheStore{
		repo:    repo,
		logger:  logger,
		mtr:     metrics.Initialize(),
		entries: make(map[string]authorEntry),
	}
}

// GetAuthorData returns the memoized profile and rating summary for
// authorID, fetching both on first reference. Failed fetches are memoized
// too: within one load the repository is asked exactly once per author.
func (s *AuthorCacheStore) GetAuthorData(ctx context.Context, authorID string) (entity.AuthorData, error) {
	s.mu.RLock()
	entry, ok := s.entries[authorID]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		s.mtr.AuthorCacheHitsTotal.Inc()
		return entry.data, entry.err
	}
	s.mtr.AuthorCacheMissesTotal.Inc()

	// The generation tags the singleflight key so a fetch that was in
	// flight when InvalidateAll ran cannot repopulate the fresh cache.
	key := strconv.FormatUint(gen, 10) + ":" + authorID
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		data, fetchErr := s.fetch(ctx, authorID)
		s.store(gen, authorID, data, fetchErr)
		return data, fetchErr
	})
	data, _ := v.(entity.AuthorData)
	return data, err
}

func (s *AuthorCacheStore) fetch(ctx context.Context, authorID string) (entity.AuthorData, error) {
	profile, err := s.repo.GetAuthorProfile(ctx, authorID)
	if err != nil {
		s.logger.Warnf("author profile fetch failed for %s: %v", authorID, err)
		return entity.AuthorData{}, fmt.Errorf("%w: %v", ErrAuthorFetchFailed, err)
	}
	data := entity.AuthorData{Profile: profile}
	// A missing rating summary is normal for unreviewed authors.
	if rating, err := s.repo.GetRatingSummary(ctx, authorID); err == nil {
		data.Rating = rating
	}
	return data, nil
}

func (s *AuthorCacheStore) store(gen uint64, authorID string, data entity.AuthorData, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.entries[authorID] = authorEntry{data: data, err: err}
}

// Peek returns the resolved author data without ever fetching. It reports
// false for unknown ids and for entries whose fetch failed.
func (s *AuthorCacheStore) Peek(authorID string) (entity.AuthorData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[authorID]
	if !ok || entry.err != nil {
		return entity.AuthorData{}, false
	}
	return entry.data, true
}

// InvalidateAll empties the cache. Called on explicit refresh and full reload.
func (s *AuthorCacheStore) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]authorEntry)
	s.gen++
}

// Sweep evicts every author id not present in referenced.
func (s *AuthorCacheStore) Sweep(referenced map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.entries {
		if !referenced[id] {
			delete(s.entries, id)
		}
	}
}

// Len returns the number of cached authors.
func (s *AuthorCacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ contract.IAuthorCache = (*AuthorCacheStore)(nil)
