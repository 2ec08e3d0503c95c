package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mikiasgoitom/Pawgram/internal/domain/contract"
	"github.com/mikiasgoitom/Pawgram/internal/domain/entity"
	"github.com/mikiasgoitom/Pawgram/internal/metrics"
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

// ErrItemNotInFeed is returned when an interaction targets an item that is
// not part of the loaded feed.
var ErrItemNotInFeed = errors.New("item not in the loaded feed")

// ErrSessionClosed is returned when an interaction arrives after the owning
// session was torn down.
var ErrSessionClosed = errors.New("feed session closed")

// ErrCommitFailed wraps a repository failure during an interaction commit.
// The optimistic mutation has been rolled back; the call may be retried.
var ErrCommitFailed = errors.New("interaction commit failed")

const commitTimeout = 10 * time.Second

type opKind string

const (
	opView opKind = "view"
	opLike opKind = "like"
)

type opKey struct {
	itemID string
	kind   opKind
}

// InteractionSnapshot is an immutable copy of an item's mutable interaction
// state, taken before an optimistic mutation and used for exact rollback.
// Restore reverts only the fields the snapshot's operation owns, so a failed
// view commit can never clobber a like applied while it was in flight.
type InteractionSnapshot struct {
	kind      opKind
	viewerIDs []string
	likerIDs  []string
	viewCount int
	likeCount int
}

func takeSnapshot(kind opKind, item *entity.ContentItem) *InteractionSnapshot {
	return &InteractionSnapshot{
		kind:      kind,
		viewerIDs: entity.CopyIDs(item.ViewerIDs),
		likerIDs:  entity.CopyIDs(item.LikerIDs),
		viewCount: item.ViewCount,
		likeCount: item.LikeCount,
	}
}

// Restore reverts the operation's fields on item to their snapshot values.
func (s *InteractionSnapshot) Restore(item *entity.ContentItem) {
	switch s.kind {
	case opView:
		item.ViewerIDs = entity.CopyIDs(s.viewerIDs)
		item.ViewCount = s.viewCount
	case opLike:
		item.LikerIDs = entity.CopyIDs(s.likerIDs)
		item.LikeCount = s.likeCount
	}
}

// itemStore is the slice of the feed session the coordinator needs: locked
// access to one loaded item, and change notification. mutateItem reports the
// load generation the mutation applied to; restoreItem refuses to touch an
// item from a later load, so a snapshot taken before a reload can never be
// written back over freshly loaded state.
type itemStore interface {
	mutateItem(itemID string, fn func(*entity.ContentItem)) (uint64, bool)
	restoreItem(itemID string, gen uint64, fn func(*entity.ContentItem)) bool
	notify()
}

type pendingOp struct {
	snapshot *InteractionSnapshot
	gen      uint64
}

// InteractionUsecase applies view and like interactions optimistically and
// reconciles them with the content repository.
//
// Per (item, operation) the state machine is Idle -> OptimisticApplied ->
// {Confirmed | RolledBack} -> Idle; a second call while the pair is not Idle
// is coalesced silently. All mutation of a given item funnels through the
// owning session's lock, so readers observe an optimistic mutation
// monotonically until it is confirmed or explicitly rolled back.
type InteractionUsecase struct {
	viewerID string
	store    itemStore
	repo     contract.IContentRepository
	logger   usecasecontract.IAppLogger
	mtr      *metrics.Metrics
	onError  func(itemID string, err error)

	mu       sync.Mutex
	inflight map[opKey]*pendingOp
	wg       sync.WaitGroup
	closed   bool
}

// NewInteractionUsecase creates a coordinator for one viewer session.
// onError is invoked, if non-nil, after a commit failure has been rolled
// back; the error it receives wraps ErrCommitFailed and is retryable.
func NewInteractionUsecase(viewerID string, store itemStore, repo contract.IContentRepository, logger usecasecontract.IAppLogger, onError func(itemID string, err error)) *InteractionUsecase {
	return &InteractionUsecase{
		viewerID: viewerID,
		store:    store,
		repo:     repo,
		logger:   logger,
		mtr:      metrics.Initialize(),
		onError:  onError,
		inflight: make(map[opKey]*pendingOp),
	}
}

// RecordView marks the item as viewed by the session's viewer. Calling it
// for an already viewed item is a no-op.
func (u *InteractionUsecase) RecordView(itemID string) error {
	return u.run(itemID, opView)
}

// ToggleLike flips the viewer's like on the item.
func (u *InteractionUsecase) ToggleLike(itemID string) error {
	return u.run(itemID, opLike)
}

func (u *InteractionUsecase) run(itemID string, kind opKind) error {
	key := opKey{itemID: itemID, kind: kind}

	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return ErrSessionClosed
	}
	if _, busy := u.inflight[key]; busy {
		// DuplicateOperation: coalesced, not an error.
		u.mu.Unlock()
		return nil
	}

	var (
		snapshot *InteractionSnapshot
		desired  bool
		applied  bool
	)
	gen, found := u.store.mutateItem(itemID, func(item *entity.ContentItem) {
		switch kind {
		case opView:
			if item.HasViewer(u.viewerID) {
				return
			}
			snapshot = takeSnapshot(kind, item)
			item.AddViewer(u.viewerID)
		case opLike:
			snapshot = takeSnapshot(kind, item)
			desired = !item.HasLiker(u.viewerID)
			if desired {
				item.AddLiker(u.viewerID)
			} else {
				item.RemoveLiker(u.viewerID)
			}
		}
		applied = true
	})
	if !found {
		u.mu.Unlock()
		return ErrItemNotInFeed
	}
	if !applied {
		// Effect already achieved; nothing to commit.
		u.mu.Unlock()
		return nil
	}

	u.inflight[key] = &pendingOp{snapshot: snapshot, gen: gen}
	u.wg.Add(1)
	u.mu.Unlock()

	u.store.notify()

	go u.commit(key, desired)
	return nil
}

func (u *InteractionUsecase) commit(key opKey, desired bool) {
	defer u.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	var err error
	switch key.kind {
	case opView:
		err = u.repo.CommitView(ctx, key.itemID, u.viewerID)
	case opLike:
		err = u.repo.CommitLikeToggle(ctx, key.itemID, u.viewerID, desired)
	}
	u.settle(key, err)
}

// settle finishes an operation: Confirmed discards the snapshot, a failure
// restores the item from it exactly. A session torn down while the commit
// was in flight is left untouched, and so is an item reloaded since the
// snapshot was taken: the reload already carries the server's state.
func (u *InteractionUsecase) settle(key opKey, commitErr error) {
	u.mu.Lock()
	pending, ok := u.inflight[key]
	delete(u.inflight, key)
	closed := u.closed
	u.mu.Unlock()

	if !ok || closed {
		return
	}

	if commitErr == nil {
		u.mtr.CommitsTotal.WithLabelValues(string(key.kind), "success").Inc()
		return
	}

	u.mtr.CommitsTotal.WithLabelValues(string(key.kind), "failure").Inc()

	restored := u.store.restoreItem(key.itemID, pending.gen, func(item *entity.ContentItem) {
		pending.snapshot.Restore(item)
	})
	if !restored {
		u.logger.Debugf("commit failure for item %s (%s) superseded by reload", key.itemID, key.kind)
		return
	}

	u.mtr.RollbacksTotal.WithLabelValues(string(key.kind)).Inc()
	u.logger.Warnf("commit failed for item %s (%s), rolling back: %v", key.itemID, key.kind, commitErr)
	u.store.notify()

	if u.onError != nil {
		u.onError(key.itemID, fmt.Errorf("%w: %v", ErrCommitFailed, commitErr))
	}
}

// Wait blocks until every in-flight commit has settled.
func (u *InteractionUsecase) Wait() {
	u.wg.Wait()
}

// Close stops the coordinator. Commits still in flight run to completion but
// no longer touch session state.
func (u *InteractionUsecase) Close() {
	u.mu.Lock()
	u.closed = true
	u.mu.Unlock()
}
