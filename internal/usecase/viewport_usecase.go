package usecase

import (
	"sync"
	"time"

	"github.com/mikiasgoitom/Pawgram/internal/infrastructure/debounce"
	"github.com/mikiasgoitom/Pawgram/internal/metrics"
	usecasecontract "github.com/mikiasgoitom/Pawgram/internal/usecase/contract"
)

// viewportHost is the slice of the feed session the tracker needs.
type viewportHost interface {
	// itemNeedsView reports whether itemID is loaded and not yet viewed
	// by the session's viewer.
	itemNeedsView(itemID string) bool
	// recordAutoView fires the actual view interaction.
	recordAutoView(itemID string)
}

// ViewportUsecase samples item visibility reported by the rendering surface
// and fires at most one auto-view per item per load.
//
// Geometry notifications are debounced with restart-on-event semantics:
// scroll jitter collapses into a single check one window after the burst
// ends, and only the latest reported geometry is evaluated. Once an item is
// marked auto-viewed it is never re-evaluated until it leaves the working
// set entirely.
type ViewportUsecase struct {
	threshold float64
	host      viewportHost
	mtr       *metrics.Metrics

	mu         sync.Mutex
	latest     []usecasecontract.ItemGeometry
	autoViewed map[string]bool
	deb        *debounce.Debouncer
}

// NewViewportUsecase creates a tracker firing above the given visible
// fraction, debounced by window.
func NewViewportUsecase(threshold float64, window time.Duration, host viewportHost) *ViewportUsecase {
	u := &ViewportUsecase{
		threshold:  threshold,
		host:       host,
		mtr:        metrics.Initialize(),
		autoViewed: make(map[string]bool),
	}
	u.deb = debounce.NewDebouncer(window, u.check)
	return u
}

// OnViewportChanged records the latest rendered geometry and schedules a
// debounced visibility check.
func (u *ViewportUsecase) OnViewportChanged(geometry []usecasecontract.ItemGeometry) {
	u.mu.Lock()
	u.latest = geometry
	u.mu.Unlock()
	u.deb.Trigger()
}

func (u *ViewportUsecase) check() {
	u.mu.Lock()
	geometry := u.latest
	u.mu.Unlock()

	for _, g := range geometry {
		// Unmeasured items are skipped silently; the next debounce
		// cycle sees them again.
		if g.Extent <= 0 || g.FrameExtent <= 0 {
			continue
		}
		if visibleFraction(g) < u.threshold {
			continue
		}

		u.mu.Lock()
		seen := u.autoViewed[g.ItemID]
		if !seen {
			u.autoViewed[g.ItemID] = true
		}
		u.mu.Unlock()
		if seen {
			continue
		}

		if !u.host.itemNeedsView(g.ItemID) {
			continue
		}
		u.mtr.AutoViewsTotal.Inc()
		u.host.recordAutoView(g.ItemID)
	}
}

// visibleFraction returns how much of the item overlaps the visible frame.
func visibleFraction(g usecasecontract.ItemGeometry) float64 {
	top := g.Offset
	if g.FrameOffset > top {
		top = g.FrameOffset
	}
	bottom := g.Offset + g.Extent
	if frameBottom := g.FrameOffset + g.FrameExtent; frameBottom < bottom {
		bottom = frameBottom
	}
	if bottom <= top {
		return 0
	}
	return (bottom - top) / g.Extent
}

// Prune drops auto-view markers for items no longer in the working set.
func (u *ViewportUsecase) Prune(existing map[string]bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for id := range u.autoViewed {
		if !existing[id] {
			delete(u.autoViewed, id)
		}
	}
}

// Reset clears all markers and pending geometry; called on reload.
func (u *ViewportUsecase) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.autoViewed = make(map[string]bool)
	u.latest = nil
}

// Stop cancels any pending check.
func (u *ViewportUsecase) Stop() {
	u.deb.Stop()
}
