package services

import "time"

// InactivityWindow is how long a customer may go without a finished class,
// and how long a fresh subscription is left alone, before being nudged.
const InactivityWindow = 7 * 24 * time.Hour

// SkipReason explains why a candidate is not notified. The zero value means eligible.
type SkipReason string

const (
	Eligible                 SkipReason = ""
	SkipNoActiveSubscription SkipReason = "no_active_subscription"
	SkipRecentClass          SkipReason = "recent_class"
	SkipFreshSubscription    SkipReason = "fresh_subscription"
)

// InactivityStats are the per-customer facts the rule needs, all relative to
// the same week-ago boundary.
type InactivityStats struct {
	// ActiveSubscriptions counts subscriptions that are not fully used.
	ActiveSubscriptions int64
	// FreshSubscriptions counts active subscriptions bought after the boundary.
	// The most recent active purchase is fresh exactly when this is non-zero.
	FreshSubscriptions int64
	// RecentClasses counts finished classes that ended at or after the boundary.
	RecentClasses int64
}

// EvaluateInactivity applies the checks in order and stops at the first that fails.
func EvaluateInactivity(s InactivityStats) SkipReason {
	if s.ActiveSubscriptions == 0 {
		return SkipNoActiveSubscription
	}
	if s.RecentClasses > 0 {
		return SkipRecentClass
	}
	if s.FreshSubscriptions > 0 {
		return SkipFreshSubscription
	}
	return Eligible
}
