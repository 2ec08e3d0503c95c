package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mikiasgoitom/Pawgram/internal/domain/contract"
)

// FeedCacheStore caches serialized ranked feed pages in Redis, keyed per
// viewer and sort mode. Pages are short lived and any mutation in a viewer's
// session invalidates that viewer's keys.
type FeedCacheStore struct {
	rdb     *redis.Client
	pageTTL time.Duration
}

// NewFeedCacheStore creates a feed page cache with the given TTL.
func NewFeedCacheStore(rdb *redis.Client, pageTTL time.Duration) *FeedCacheStore {
	return &FeedCacheStore{rdb: rdb, pageTTL: pageTTL}
}

func feedPageKey(viewerID, sortMode string) string {
	return fmt.Sprintf("feed:page:%s:%s", viewerID, sortMode)
}

func viewerPattern(viewerID string) string {
	return fmt.Sprintf("feed:page:%s:*", viewerID)
}

func (c *FeedCacheStore) GetFeedPage(ctx context.Context, viewerID, sortMode string) (*contract.CachedFeedPage, bool, error) {
	b, err := c.rdb.Get(ctx, feedPageKey(viewerID, sortMode)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var page contract.CachedFeedPage
	if err := json.Unmarshal(b, &page); err != nil {
		return nil, false, nil
	}
	return &page, true, nil
}

func (c *FeedCacheStore) SetFeedPage(ctx context.Context, viewerID, sortMode string, page *contract.CachedFeedPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, feedPageKey(viewerID, sortMode), data, c.pageTTL).Err()
}

// InvalidateViewer drops every cached page belonging to viewerID.
func (c *FeedCacheStore) InvalidateViewer(ctx context.Context, viewerID string) error {
	iter := c.rdb.Scan(ctx, 0, viewerPattern(viewerID), 1000).Iterator()
	pipe := c.rdb.Pipeline()
	n := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		n++
		if n%200 == 0 {
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	_, _ = pipe.Exec(ctx)
	return nil
}

var _ contract.IFeedCache = (*FeedCacheStore)(nil)
