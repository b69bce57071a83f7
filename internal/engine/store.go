package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lpstats/internal/badges"
	"lpstats/internal/events"
	"lpstats/internal/stats"
)

// ErrNoSnapshot is returned by Store.Snapshot when the user has no stats
// record yet. The engine recovers by initializing one; callers should
// never see it.
var ErrNoSnapshot = errors.New("no stats snapshot for user")

// ValidationError rejects a malformed event before any store write.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event: %s %s", e.Field, e.Reason)
}

// ReviewRecord is one stored review, the unit of the review log used for
// winner fan-out and retroactive rebuilds.
type ReviewRecord struct {
	ReviewID    string
	ReviewerID  string
	PitchID     string
	Rating      events.Rating
	Comments    string
	SubmittedAt time.Time
	IsEdit      bool
}

// Store is the persistence the engine needs: a per-user stats record
// with field-level updates (increments applied atomically), an
// append-only badge list, and a review log. Implemented by the Postgres
// adapter in internal/db and the in-memory store in internal/memstore.
type Store interface {
	// Snapshot reads the user's full stats record. Returns ErrNoSnapshot
	// if none exists.
	Snapshot(ctx context.Context, userID string) (*stats.Snapshot, error)
	// InitSnapshot creates a zeroed stats record. No-op if one exists.
	InitSnapshot(ctx context.Context, userID string) error
	// ApplyUpdates applies a computed update set. Increment updates must
	// be applied as atomic increments, not read-modify-write.
	ApplyUpdates(ctx context.Context, userID string, updates []stats.Update) error
	// ReplaceSnapshot overwrites the user's stats record wholesale.
	// Used by retroactive backfill only.
	ReplaceSnapshot(ctx context.Context, userID string, s *stats.Snapshot) error

	EarnedBadges(ctx context.Context, userID string) ([]badges.Earned, error)
	// AppendBadges adds newly earned badges, ignoring duplicates.
	AppendBadges(ctx context.Context, userID string, earned []badges.Earned) error

	SavePitch(ctx context.Context, pitch events.Pitch) error
	Pitch(ctx context.Context, pitchID string) (events.Pitch, error)
	RecordReview(ctx context.Context, rec ReviewRecord) error
	// ReviewsByPitch returns the latest review per reviewer for a pitch.
	ReviewsByPitch(ctx context.Context, pitchID string) ([]ReviewRecord, error)
	// ReviewsByReviewer returns a reviewer's full history, oldest first.
	ReviewsByReviewer(ctx context.Context, reviewerID string) ([]ReviewRecord, error)

	// MarkWinner records a winner declaration. Reports false if the
	// pitch was already a winner, so credit is fanned out exactly once.
	MarkWinner(ctx context.Context, pitchID string, declaredAt time.Time) (bool, error)
	Winners(ctx context.Context) (map[string]bool, error)
}
