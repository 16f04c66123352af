package moderation

import (
	"context"
	"time"
)

// RestrictionController applies and clears timed restrictions
// (Discord timeouts) on guild members. Implementations return
// ErrRestrictionDenied on permission/hierarchy refusals so callers can
// distinguish them from the member simply being unreachable.
type RestrictionController interface {
	SetTimedRestriction(ctx context.Context, guildID, userID string, until time.Time, reason string) error
	ClearRestriction(ctx context.Context, guildID, userID, reason string) error
}

// MaxRestrictionMs is Discord's timeout hard limit (~28 days).
const MaxRestrictionMs int64 = 28 * 24 * 60 * 60 * 1000
