package usecasecontract

import "time"

// IConfigProvider exposes the tunables of the feed core. Every value has an
// environment-backed default; none of them is part of the feed contract.
type IConfigProvider interface {
	GetViewportDebounce() time.Duration
	GetDoubleTapCooldown() time.Duration
	GetLikeFeedbackDuration() time.Duration
	GetVisibilityThreshold() float64
	GetHighMatchThreshold() float64
	GetFeedPageTTL() time.Duration
	GetSessionIdleTimeout() time.Duration
}
