package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mikiasgoitom/Pawgram/internal/domain/contract"
	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

// fakeRepo is an in-memory IContentRepository with failure switches and an
// optional gate that holds commits open until released.
type fakeRepo struct {
	mu sync.Mutex

	public      []*entity.ContentItem
	connections []*entity.ContentItem
	profiles    map[string]*entity.AuthorProfile
	ratings     map[string]*entity.RatingSummary

	ShouldFailCommitView bool
	ShouldFailCommitLike bool
	ShouldFailDelete     bool
	ShouldFailLoad       bool

	commitGate  chan struct{}
	loadGate    chan struct{}
	loadWaiters int

	ViewCommits    []string
	LikeCommits    []string
	LikeDesired    []bool
	Deleted        []string
	ProfileFetches map[string]int
	Loads          int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles:       make(map[string]*entity.AuthorProfile),
		ratings:        make(map[string]*entity.RatingSummary),
		ProfileFetches: make(map[string]int),
	}
}

func (r *fakeRepo) GetPublicItems(ctx context.Context) ([]*entity.ContentItem, error) {
	r.waitLoadGate()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ShouldFailLoad {
		return nil, errors.New("fake load failure")
	}
	r.Loads++
	return r.public, nil
}

func (r *fakeRepo) GetConnectionItems(ctx context.Context, viewerID string) ([]*entity.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ShouldFailLoad {
		return nil, errors.New("fake load failure")
	}
	return r.connections, nil
}

func (r *fakeRepo) GetAuthorProfile(ctx context.Context, authorID string) (*entity.AuthorProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ProfileFetches[authorID]++
	if p, ok := r.profiles[authorID]; ok {
		return p, nil
	}
	return nil, errors.New("profile not found")
}

func (r *fakeRepo) GetRatingSummary(ctx context.Context, authorID string) (*entity.RatingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.ratings[authorID]; ok {
		return s, nil
	}
	return nil, errors.New("no ratings")
}

func (r *fakeRepo) CommitView(ctx context.Context, itemID, viewerID string) error {
	r.waitGate()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ShouldFailCommitView {
		return errors.New("fake commit view failure")
	}
	r.ViewCommits = append(r.ViewCommits, itemID)
	return nil
}

func (r *fakeRepo) CommitLikeToggle(ctx context.Context, itemID, viewerID string, desired bool) error {
	r.waitGate()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ShouldFailCommitLike {
		return errors.New("fake commit like failure")
	}
	r.LikeCommits = append(r.LikeCommits, itemID)
	r.LikeDesired = append(r.LikeDesired, desired)
	return nil
}

func (r *fakeRepo) DeleteItem(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ShouldFailDelete {
		return errors.New("fake delete failure")
	}
	r.Deleted = append(r.Deleted, itemID)
	return nil
}

// openGate makes subsequent commits block until releaseGate.
func (r *fakeRepo) openGate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commitGate = make(chan struct{})
}

func (r *fakeRepo) releaseGate() {
	r.mu.Lock()
	gate := r.commitGate
	r.commitGate = nil
	r.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

func (r *fakeRepo) waitGate() {
	r.mu.Lock()
	gate := r.commitGate
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

// openLoadGate makes subsequent item loads block until releaseLoadGate.
func (r *fakeRepo) openLoadGate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadGate = make(chan struct{})
}

func (r *fakeRepo) releaseLoadGate() {
	r.mu.Lock()
	gate := r.loadGate
	r.loadGate = nil
	r.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

func (r *fakeRepo) waitLoadGate() {
	r.mu.Lock()
	gate := r.loadGate
	if gate != nil {
		r.loadWaiters++
	}
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (r *fakeRepo) loadWaiterCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadWaiters
}

func (r *fakeRepo) setPublic(items ...*entity.ContentItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.public = items
}

// fakeItemStore implements itemStore over a plain item map. reload swaps
// the item set and bumps the load generation, like a session refresh does.
type fakeItemStore struct {
	mu       sync.Mutex
	items    map[string]*entity.ContentItem
	gen      uint64
	notifies int
}

func newFakeItemStore(items ...*entity.ContentItem) *fakeItemStore {
	s := &fakeItemStore{items: make(map[string]*entity.ContentItem)}
	for _, item := range items {
		s.items[item.ID] = item
	}
	return s
}

func (s *fakeItemStore) mutateItem(itemID string, fn func(*entity.ContentItem)) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return s.gen, false
	}
	fn(item)
	return s.gen, true
}

func (s *fakeItemStore) restoreItem(itemID string, gen uint64, fn func(*entity.ContentItem)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	item, ok := s.items[itemID]
	if !ok {
		return false
	}
	fn(item)
	return true
}

func (s *fakeItemStore) reload(items ...*entity.ContentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*entity.ContentItem)
	for _, item := range items {
		s.items[item.ID] = item
	}
	s.gen++
}

func (s *fakeItemStore) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifies++
}

func (s *fakeItemStore) item(itemID string) *entity.ContentItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[itemID]
}

// fakeViewportHost records auto-views and answers itemNeedsView from a set.
type fakeViewportHost struct {
	mu        sync.Mutex
	needsView map[string]bool
	recorded  []string
}

func newFakeViewportHost(ids ...string) *fakeViewportHost {
	h := &fakeViewportHost{needsView: make(map[string]bool)}
	for _, id := range ids {
		h.needsView[id] = true
	}
	return h
}

func (h *fakeViewportHost) itemNeedsView(itemID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.needsView[itemID]
}

func (h *fakeViewportHost) recordAutoView(itemID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recorded = append(h.recorded, itemID)
	h.needsView[itemID] = false
}

func (h *fakeViewportHost) recordedViews() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.recorded))
	copy(out, h.recorded)
	return out
}

// staticAuthorCache is a pre-populated IAuthorCache that never fetches.
type staticAuthorCache struct {
	mu      sync.Mutex
	entries map[string]entity.AuthorData
}

func newStaticAuthorCache() *staticAuthorCache {
	return &staticAuthorCache{entries: make(map[string]entity.AuthorData)}
}

func (c *staticAuthorCache) put(authorID string, data entity.AuthorData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[authorID] = data
}

func (c *staticAuthorCache) GetAuthorData(ctx context.Context, authorID string) (entity.AuthorData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[authorID], nil
}

func (c *staticAuthorCache) Peek(authorID string) (entity.AuthorData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[authorID]
	return data, ok
}

func (c *staticAuthorCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entity.AuthorData)
}

func (c *staticAuthorCache) Sweep(referenced map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.entries {
		if !referenced[id] {
			delete(c.entries, id)
		}
	}
}

func (c *staticAuthorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// fakeFeedCache is an in-memory IFeedCache that records invalidations.
type fakeFeedCache struct {
	mu            sync.Mutex
	invalidations []string
}

func (c *fakeFeedCache) GetFeedPage(ctx context.Context, viewerID, sortMode string) (*contract.CachedFeedPage, bool, error) {
	return nil, false, nil
}

func (c *fakeFeedCache) SetFeedPage(ctx context.Context, viewerID, sortMode string, page *contract.CachedFeedPage) error {
	return nil
}

func (c *fakeFeedCache) InvalidateViewer(ctx context.Context, viewerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations = append(c.invalidations, viewerID)
	return nil
}

func (c *fakeFeedCache) invalidated() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.invalidations))
	copy(out, c.invalidations)
	return out
}

var _ contract.IFeedCache = (*fakeFeedCache)(nil)

// fakeConfig keeps the timing windows tiny so tests settle quickly.
type fakeConfig struct {
	viewportDebounce    time.Duration
	doubleTapCooldown   time.Duration
	likeFeedback        time.Duration
	visibilityThreshold float64
	highMatchThreshold  float64
}

func newFakeConfig() *fakeConfig {
	return &fakeConfig{
		viewportDebounce:    5 * time.Millisecond,
		doubleTapCooldown:   50 * time.Millisecond,
		likeFeedback:        20 * time.Millisecond,
		visibilityThreshold: 0.5,
		highMatchThreshold:  150,
	}
}

func (c *fakeConfig) GetViewportDebounce() time.Duration     { return c.viewportDebounce }
func (c *fakeConfig) GetDoubleTapCooldown() time.Duration    { return c.doubleTapCooldown }
func (c *fakeConfig) GetLikeFeedbackDuration() time.Duration { return c.likeFeedback }
func (c *fakeConfig) GetVisibilityThreshold() float64        { return c.visibilityThreshold }
func (c *fakeConfig) GetHighMatchThreshold() float64         { return c.highMatchThreshold }
func (c *fakeConfig) GetFeedPageTTL() time.Duration          { return time.Minute }
func (c *fakeConfig) GetSessionIdleTimeout() time.Duration   { return time.Hour }

var _ usecasecontract.IConfigProvider = (*fakeConfig)(nil)

func testItem(id, authorID string, role entity.AuthorRole, createdAt time.Time) *entity.ContentItem {
	return &entity.ContentItem{
		ID:         id,
		AuthorID:   authorID,
		AuthorName: "author-" + authorID,
		AuthorRole: role,
		MediaRef:   "media/" + id + ".jpg",
		Visibility: entity.VisibilityPublic,
		CreatedAt:  createdAt,
		ViewerIDs:  []string{},
		LikerIDs:   []string{},
	}
}
