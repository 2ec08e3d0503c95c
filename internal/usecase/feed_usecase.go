package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikiasgoitom/Pawgram/internal/domain/contract"
	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
	"github.com/mikiasgoitom/Pawgram/internal/infrastructure/debounce"
	"github.com/mikiasgoitom/Pawgram/internal/metrics"
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

const prefetchConcurrency = 8

// FeedUsecase hands out one FeedSession per viewer and reaps idle ones.
type FeedUsecase struct {
	repo      contract.IContentRepository
	newCache  func() contract.IAuthorCache
	logger    usecasecontract.IAppLogger
	config    usecasecontract.IConfigProvider
	validator usecasecontract.IValidator
	feedCache contract.IFeedCache

	mu       sync.Mutex
	sessions map[string]*FeedSession
}

// NewFeedUsecase creates the session manager. newCache builds the per-session
// author cache; sessions never share one because cache lifetime is bound to
// a session's loads.
func NewFeedUsecase(repo contract.IContentRepository, newCache func() contract.IAuthorCache, logger usecasecontract.IAppLogger, config usecasecontract.IConfigProvider, validator usecasecontract.IValidator) *FeedUsecase {
	return &FeedUsecase{
		repo:      repo,
		newCache:  newCache,
		logger:    logger,
		config:    config,
		validator: validator,
		sessions:  make(map[string]*FeedSession),
	}
}

// SetFeedCache attaches a served-page cache. Every mutation in a viewer's
// session then drops that viewer's cached pages before the mutation's
// notification returns, so a read issued after a mutation cannot be served
// a page predating it. Call before the first Session.
func (u *FeedUsecase) SetFeedCache(cache contract.IFeedCache) {
	u.feedCache = cache
}

// Session returns the viewer's feed session, creating and loading it on
// first use. The initial load runs outside the manager lock so one viewer's
// cold start never stalls another viewer's warm session.
func (u *FeedUsecase) Session(ctx context.Context, viewerID string) (usecasecontract.IFeedSession, error) {
	u.mu.Lock()
	u.reapIdleLocked()
	if s, ok := u.sessions[viewerID]; ok {
		s.touch()
		u.mu.Unlock()
		return s, nil
	}
	u.mu.Unlock()

	viewer, err := u.repo.GetAuthorProfile(ctx, viewerID)
	if err != nil {
		// Ranking degrades without the viewer profile; the feed itself
		// still works.
		u.logger.Warnf("viewer profile fetch failed for %s: %v", viewerID, err)
		viewer = &entity.AuthorProfile{ID: viewerID}
	}

	s := newFeedSession(viewerID, viewer, u.repo, u.newCache(), u.logger, u.config, u.validator)
	if err := s.Refresh(ctx); err != nil {
		s.Close()
		return nil, err
	}
	if u.feedCache != nil {
		s.Subscribe(func() {
			u.invalidatePages(viewerID)
		})
	}

	u.mu.Lock()
	if existing, ok := u.sessions[viewerID]; ok {
		// Another request built the same viewer's session first.
		existing.touch()
		u.mu.Unlock()
		s.Close()
		return existing, nil
	}
	u.sessions[viewerID] = s
	u.mu.Unlock()
	return s, nil
}

func (u *FeedUsecase) invalidatePages(viewerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.feedCache.InvalidateViewer(ctx, viewerID); err != nil {
		u.logger.Debugf("feed page invalidation failed for %s: %v", viewerID, err)
	}
}

func (u *FeedUsecase) reapIdleLocked() {
	idle := u.config.GetSessionIdleTimeout()
	if idle <= 0 {
		return
	}
	for id, s := range u.sessions {
		if time.Since(s.lastAccess()) > idle {
			s.Close()
			delete(u.sessions, id)
		}
	}
}

// CloseAll tears down every session.
func (u *FeedUsecase) CloseAll() {
	u.mu.Lock()
	defer u.mu.Unlock()
	for id, s := range u.sessions {
		s.Close()
		delete(u.sessions, id)
	}
}

var _ usecasecontract.IFeedUseCase = (*FeedUsecase)(nil)

// FeedSession is the feed state store for one viewer: the loaded item set,
// the sort mode, the interaction coordinator, the viewport tracker and the
// double-tap debouncer, behind a subscription model so rendering code can
// re-derive on every mutation without owning any state itself.
type FeedSession struct {
	viewerID string
	viewer   *entity.AuthorProfile
	repo     contract.IContentRepository
	cache    contract.IAuthorCache
	logger   usecasecontract.IAppLogger
	engine   *RankingEngine
	mtr      *metrics.Metrics

	coordinator *InteractionUsecase
	viewport    *ViewportUsecase
	taps        *debounce.Cooldown
	validator   usecasecontract.IValidator
	feedbackDur time.Duration

	mu       sync.RWMutex
	items    map[string]*entity.ContentItem
	order    []string
	loadGen  uint64
	sortMode usecasecontract.SortMode
	feedback map[string]bool
	subs     map[int]func()
	nextSub  int
	closed   bool
	accessed time.Time
}

func newFeedSession(viewerID string, viewer *entity.AuthorProfile, repo contract.IContentRepository, cache contract.IAuthorCache, logger usecasecontract.IAppLogger, config usecasecontract.IConfigProvider, validator usecasecontract.IValidator) *FeedSession {
	s := &FeedSession{
		viewerID:    viewerID,
		viewer:      viewer,
		repo:        repo,
		cache:       cache,
		logger:      logger,
		validator:   validator,
		engine:      NewRankingEngine(config.GetHighMatchThreshold()),
		mtr:         metrics.Initialize(),
		taps:        debounce.NewCooldown(config.GetDoubleTapCooldown()),
		feedbackDur: config.GetLikeFeedbackDuration(),
		items:       make(map[string]*entity.ContentItem),
		sortMode:    usecasecontract.SortModeRecency,
		feedback:    make(map[string]bool),
		subs:        make(map[int]func()),
		accessed:    time.Now(),
	}
	s.coordinator = NewInteractionUsecase(viewerID, s, repo, logger, func(itemID string, err error) {
		logger.Warnf("interaction on item %s rolled back: %v", itemID, err)
	})
	s.viewport = NewViewportUsecase(config.GetVisibilityThreshold(), config.GetViewportDebounce(), s)
	return s
}

// GetRankedFeed returns the loaded items in the current sort mode's order.
// Optimistically applied interactions are visible immediately.
func (s *FeedSession) GetRankedFeed() []*entity.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*entity.ContentItem, 0, len(s.order))
	for _, id := range s.order {
		if item, ok := s.items[id]; ok {
			items = append(items, item)
		}
	}
	mode := s.sortMode
	s.mtr.FeedRequestsTotal.WithLabelValues(string(mode)).Inc()
	s.mtr.FeedItemsRanked.WithLabelValues(string(mode)).Observe(float64(len(items)))
	return s.engine.Rank(items, s.viewer, mode, s.cache)
}

// Refresh reloads the item set wholesale, invalidates the author cache and
// prefetches data for every referenced author. In-flight commits are allowed
// to settle first; an interaction that starts during the reload belongs to
// the outgoing load generation, so its rollback cannot touch the new items.
func (s *FeedSession) Refresh(ctx context.Context) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	s.coordinator.Wait()

	public, err := s.repo.GetPublicItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load public items: %w", err)
	}
	connections, err := s.repo.GetConnectionItems(ctx, s.viewerID)
	if err != nil {
		return fmt.Errorf("failed to load connection items: %w", err)
	}

	items := make(map[string]*entity.ContentItem)
	order := make([]string, 0, len(public)+len(connections))
	authors := make(map[string]bool)
	for _, item := range append(public, connections...) {
		if _, dup := items[item.ID]; dup {
			continue
		}
		items[item.ID] = item
		order = append(order, item.ID)
		authors[item.AuthorID] = true
	}

	s.cache.InvalidateAll()
	s.viewport.Reset()
	s.prefetchAuthors(ctx, authors)
	s.cache.Sweep(authors)

	s.mu.Lock()
	s.items = items
	s.order = order
	s.loadGen++
	s.accessed = time.Now()
	s.mu.Unlock()

	s.mtr.FeedRefreshesTotal.Inc()
	s.notify()
	return nil
}

// prefetchAuthors warms the cache for every author in the load. Individual
// failures are memoized by the cache and simply leave those items on their
// embedded fallback display data.
func (s *FeedSession) prefetchAuthors(ctx context.Context, authors map[string]bool) {
	g := new(errgroup.Group)
	g.SetLimit(prefetchConcurrency)
	for authorID := range authors {
		g.Go(func() error {
			if _, err := s.cache.GetAuthorData(ctx, authorID); err != nil {
				s.logger.Debugf("author prefetch failed for %s: %v", authorID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// RecordView marks the item viewed by this session's viewer.
func (s *FeedSession) RecordView(itemID string) error {
	s.touch()
	return s.coordinator.RecordView(itemID)
}

// ToggleLike flips this viewer's like on the item.
func (s *FeedSession) ToggleLike(itemID string) error {
	s.touch()
	return s.coordinator.ToggleLike(itemID)
}

// OnViewportChanged forwards rendered geometry to the viewport tracker.
func (s *FeedSession) OnViewportChanged(geometry []usecasecontract.ItemGeometry) {
	s.touch()
	s.viewport.OnViewportChanged(geometry)
}

// OnDoubleTap runs the debounced double-tap-to-like gesture. It reports
// whether the tap was accepted; taps inside the cool-down window are
// suppressed. An accepted tap raises the feedback signal for the configured
// duration and toggles the like.
func (s *FeedSession) OnDoubleTap(itemID string) bool {
	s.touch()
	if s.isClosed() {
		return false
	}
	if !s.taps.Allow(itemID) {
		return false
	}

	s.mu.Lock()
	s.feedback[itemID] = true
	s.mu.Unlock()
	s.notify()
	time.AfterFunc(s.feedbackDur, func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		delete(s.feedback, itemID)
		s.mu.Unlock()
		s.notify()
	})

	if err := s.coordinator.ToggleLike(itemID); err != nil {
		s.logger.Warnf("double-tap like on item %s failed: %v", itemID, err)
	}
	return true
}

// FeedbackActive reports whether the like acknowledgment signal is up for
// the item.
func (s *FeedSession) FeedbackActive(itemID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feedback[itemID]
}

// SetSortMode switches the feed's ordering and notifies subscribers.
func (s *FeedSession) SetSortMode(mode usecasecontract.SortMode) error {
	if err := s.validator.ValidateSortMode(string(mode)); err != nil {
		return err
	}
	s.mu.Lock()
	s.sortMode = mode
	s.accessed = time.Now()
	s.mu.Unlock()
	s.notify()
	return nil
}

// SortMode returns the current sort mode.
func (s *FeedSession) SortMode() usecasecontract.SortMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortMode
}

// DeleteItem removes the item optimistically and commits the deletion,
// restoring the item in place on failure.
func (s *FeedSession) DeleteItem(ctx context.Context, itemID string) error {
	s.touch()

	s.mu.Lock()
	item, ok := s.items[itemID]
	if !ok {
		s.mu.Unlock()
		return ErrItemNotInFeed
	}
	gen := s.loadGen
	idx := -1
	for i, id := range s.order {
		if id == itemID {
			idx = i
			break
		}
	}
	delete(s.items, itemID)
	if idx >= 0 {
		s.order = append(s.order[:idx], s.order[idx+1:]...)
	}
	s.mu.Unlock()
	s.notify()

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		// Restore only into the load the removal came from; a reload that
		// happened meanwhile already decided whether the item exists.
		s.mu.Lock()
		if gen == s.loadGen {
			s.items[itemID] = item
			if idx >= 0 && idx <= len(s.order) {
				s.order = append(s.order[:idx], append([]string{itemID}, s.order[idx:]...)...)
			} else {
				s.order = append(s.order, itemID)
			}
		}
		s.mu.Unlock()
		s.notify()
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	s.mu.RLock()
	existing := make(map[string]bool, len(s.items))
	authors := make(map[string]bool, len(s.items))
	for id, it := range s.items {
		existing[id] = true
		authors[it.AuthorID] = true
	}
	s.mu.RUnlock()
	s.viewport.Prune(existing)
	s.cache.Sweep(authors)
	return nil
}

// FitScore exposes the BestFit score and badge flag for one item, for
// annotation by the serving layer.
func (s *FeedSession) FitScore(item *entity.ContentItem) (float64, bool) {
	score := s.engine.FitScore(item, s.viewer, s.cache)
	return score, s.engine.IsHighMatch(score)
}

// AuthorData returns the cached profile and rating for authorID without
// fetching. Callers fall back to the display data on the item when it
// reports false.
func (s *FeedSession) AuthorData(authorID string) (entity.AuthorData, bool) {
	return s.cache.Peek(authorID)
}

// Subscribe registers fn to run after every item or cache mutation. The
// returned function unsubscribes.
func (s *FeedSession) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Wait blocks until all in-flight interaction commits settle.
func (s *FeedSession) Wait() {
	s.coordinator.Wait()
}

// Close tears the session down. Commits still in flight settle without
// touching state.
func (s *FeedSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.subs = make(map[int]func())
	s.mu.Unlock()

	s.viewport.Stop()
	s.coordinator.Close()
}

// mutateItem gives the coordinator locked access to one loaded item and
// reports the load generation the mutation applied to.
func (s *FeedSession) mutateItem(itemID string, fn func(*entity.ContentItem)) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok {
		return s.loadGen, false
	}
	fn(item)
	return s.loadGen, true
}

// restoreItem applies fn only while the item's load generation still matches
// gen. A rollback targeting a superseded load is dropped.
func (s *FeedSession) restoreItem(itemID string, gen uint64, fn func(*entity.ContentItem)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		return false
	}
	item, ok := s.items[itemID]
	if !ok {
		return false
	}
	fn(item)
	return true
}

// notify runs the subscriber callbacks outside any lock.
func (s *FeedSession) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// itemNeedsView implements viewportHost.
func (s *FeedSession) itemNeedsView(itemID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	return ok && !item.HasViewer(s.viewerID)
}

// recordAutoView implements viewportHost.
func (s *FeedSession) recordAutoView(itemID string) {
	if err := s.coordinator.RecordView(itemID); err != nil {
		s.logger.Warnf("auto-view on item %s failed: %v", itemID, err)
	}
}

func (s *FeedSession) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *FeedSession) touch() {
	s.mu.Lock()
	s.accessed = time.Now()
	s.mu.Unlock()
}

func (s *FeedSession) lastAccess() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessed
}

var _ usecasecontract.IFeedSession = (*FeedSession)(nil)
