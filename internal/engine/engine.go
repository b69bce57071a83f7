package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lpstats/internal/badges"
	"lpstats/internal/events"
	"lpstats/internal/metrics"
	"lpstats/internal/stats"
)

// Engine sequences stats aggregation and badge evaluation against the
// store. The pipeline for every event is strict: validate, compute the
// update set, write it, read the refreshed snapshot back, evaluate
// badges against that snapshot, append and announce new badges. Badge
// checks read fields the aggregation step just wrote, so the order is
// load-bearing.
type Engine struct {
	store     Store
	evaluator *badges.Evaluator
	bus       *events.Bus

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
	// FoundingCutoff marks the founding LP cohort: reviewers who joined
	// before it get the founding-member flag set on their snapshot.
	FoundingCutoff time.Time
}

func New(store Store, evaluator *badges.Evaluator, bus *events.Bus) *Engine {
	return &Engine{store: store, evaluator: evaluator, bus: bus, Now: time.Now}
}

// ReviewResult is returned to the submission caller for display.
type ReviewResult struct {
	Snapshot  *stats.Snapshot
	NewBadges []badges.Earned
}

// UserOutcome is one reviewer's result within a winner-declaration
// fan-out. Either Snapshot/NewBadges or Err is set.
type UserOutcome struct {
	UserID    string
	Snapshot  *stats.Snapshot
	NewBadges []badges.Earned
	Err       error
}

// WinnerResult collects per-reviewer outcomes of a winner declaration.
type WinnerResult struct {
	PitchID  string
	Outcomes []UserOutcome
}

// OnReviewSubmitted processes one review submission or edit. A store
// write failure is surfaced as a failed submission so the UI can prompt
// a retry. The stats counters are written last: a failure leaves them
// untouched, so the retry never double-counts. A leftover review-log
// row from a failed attempt is harmless because reads keep the latest
// entry per reviewer.
func (e *Engine) OnReviewSubmitted(ctx context.Context, ev events.ReviewEvent, pitch events.Pitch, reviewer events.Reviewer) (*ReviewResult, error) {
	if err := validateReview(ev); err != nil {
		return nil, err
	}

	snap, err := e.ensureSnapshot(ctx, ev.ReviewerID)
	if err != nil {
		return nil, err
	}

	updates := stats.Aggregate(snap, ev, pitch, reviewer)

	if !snap.IsFoundingMember && !reviewer.JoinedAt.IsZero() &&
		!e.FoundingCutoff.IsZero() && reviewer.JoinedAt.Before(e.FoundingCutoff) {
		updates = append(updates, stats.Set(stats.FieldIsFoundingMember, true))
	}

	// First reviewer on a pitch gets credit for it. The reviewer's own
	// log rows don't count: a row left by a failed attempt must not
	// cost them the credit on retry.
	if !ev.IsEdit {
		prior, err := e.store.ReviewsByPitch(ctx, ev.PitchID)
		if err != nil {
			return nil, fmt.Errorf("checking prior reviews: %w", err)
		}
		if !hasOtherReviewer(prior, ev.ReviewerID) {
			updates = append(updates, stats.Inc(stats.FieldFirstToReview, 1))
		}
	}

	if err := e.store.SavePitch(ctx, pitch); err != nil {
		return nil, fmt.Errorf("saving pitch: %w", err)
	}
	if err := e.store.RecordReview(ctx, ReviewRecord{
		ReviewID:    ev.ReviewID,
		ReviewerID:  ev.ReviewerID,
		PitchID:     ev.PitchID,
		Rating:      ev.Rating,
		Comments:    ev.Comments,
		SubmittedAt: ev.SubmittedAt,
		IsEdit:      ev.IsEdit,
	}); err != nil {
		return nil, fmt.Errorf("recording review: %w", err)
	}
	if err := e.store.ApplyUpdates(ctx, ev.ReviewerID, updates); err != nil {
		metrics.StoreErrors.Inc()
		return nil, fmt.Errorf("applying stats updates: %w", err)
	}

	metrics.ReviewsProcessed.WithLabelValues(editLabel(ev.IsEdit)).Inc()

	result, err := e.refreshAndEvaluate(ctx, ev.ReviewerID, reviewer.JoinedAt)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// OnWinnerDeclared re-scores every reviewer who rated the winning pitch
// predictively. Each reviewer's update is independent: one failure is
// recorded in that reviewer's outcome and the rest proceed. Declaring
// the same pitch twice is a no-op: credit would otherwise accumulate
// past totalPredictions.
func (e *Engine) OnWinnerDeclared(ctx context.Context, decl events.WinnerDeclaration) (*WinnerResult, error) {
	if decl.PitchID == "" {
		return nil, &ValidationError{Field: "pitchId", Reason: "is required"}
	}
	declaredAt := decl.DeclaredAt
	if declaredAt.IsZero() {
		declaredAt = e.Now()
	}

	marked, err := e.store.MarkWinner(ctx, decl.PitchID, declaredAt)
	if err != nil {
		return nil, fmt.Errorf("marking winner: %w", err)
	}
	if !marked {
		log.Printf("[Engine] pitch %s is already a winner, skipping credit\n", decl.PitchID)
		return &WinnerResult{PitchID: decl.PitchID}, nil
	}

	reviews, err := e.store.ReviewsByPitch(ctx, decl.PitchID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for pitch: %w", err)
	}

	result := &WinnerResult{PitchID: decl.PitchID}
	for _, rec := range reviews {
		if rec.Rating != events.RatingFavorite && rec.Rating != events.RatingConsideration {
			continue
		}
		outcome := e.creditReviewer(ctx, rec)
		if outcome.Err != nil {
			metrics.FanoutFailures.Inc()
			log.Printf("[Engine] winner credit for %s failed: %v (continuing)\n", rec.ReviewerID, outcome.Err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result, nil
}

func (e *Engine) creditReviewer(ctx context.Context, rec ReviewRecord) UserOutcome {
	snap, err := e.ensureSnapshot(ctx, rec.ReviewerID)
	if err != nil {
		return UserOutcome{UserID: rec.ReviewerID, Err: err}
	}

	updates := stats.WinnerUpdates(snap, rec.Rating)
	if err := e.store.ApplyUpdates(ctx, rec.ReviewerID, updates); err != nil {
		return UserOutcome{UserID: rec.ReviewerID, Err: fmt.Errorf("applying winner credit: %w", err)}
	}

	result, err := e.refreshAndEvaluate(ctx, rec.ReviewerID, time.Time{})
	if err != nil {
		return UserOutcome{UserID: rec.ReviewerID, Err: err}
	}
	return UserOutcome{UserID: rec.ReviewerID, Snapshot: result.Snapshot, NewBadges: result.NewBadges}
}

// InitializeSnapshot creates a zeroed stats record for a user if none
// exists, and returns the current record either way.
func (e *Engine) InitializeSnapshot(ctx context.Context, userID string) (*stats.Snapshot, error) {
	return e.ensureSnapshot(ctx, userID)
}

// BackfillStats rebuilds a user's snapshot from their stored review
// history and replaces the persisted record with the result. Used once
// per user whose reviews predate stats tracking.
func (e *Engine) BackfillStats(ctx context.Context, userID string, reviewer events.Reviewer) (*stats.Snapshot, error) {
	recs, err := e.store.ReviewsByReviewer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading review history: %w", err)
	}
	winners, err := e.store.Winners(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading winners: %w", err)
	}

	history := make([]stats.HistoricalReview, 0, len(recs))
	for _, rec := range recs {
		pitch, err := e.store.Pitch(ctx, rec.PitchID)
		if err != nil {
			// Pitch metadata may be gone for very old reviews; replay
			// with what we have.
			log.Printf("[Engine] pitch %s not found during backfill: %v\n", rec.PitchID, err)
			pitch = events.Pitch{ID: rec.PitchID}
		}
		history = append(history, stats.HistoricalReview{
			Event: events.ReviewEvent{
				ReviewID:    rec.ReviewID,
				ReviewerID:  rec.ReviewerID,
				PitchID:     rec.PitchID,
				Rating:      rec.Rating,
				Comments:    rec.Comments,
				SubmittedAt: rec.SubmittedAt,
				IsEdit:      rec.IsEdit,
			},
			Pitch: pitch,
			Won:   winners[rec.PitchID],
		})
	}

	snap := stats.Retroactive(history, reviewer)
	if err := e.store.ReplaceSnapshot(ctx, userID, snap); err != nil {
		return nil, fmt.Errorf("replacing snapshot: %w", err)
	}
	return snap, nil
}

func (e *Engine) ensureSnapshot(ctx context.Context, userID string) (*stats.Snapshot, error) {
	snap, err := e.store.Snapshot(ctx, userID)
	if errors.Is(err, ErrNoSnapshot) {
		if err := e.store.InitSnapshot(ctx, userID); err != nil {
			return nil, fmt.Errorf("initializing snapshot: %w", err)
		}
		snap, err = e.store.Snapshot(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	snap.EnsureMaps()
	return snap, nil
}

// refreshAndEvaluate re-reads the snapshot after a write and runs the
// badge registry against it. Elite thresholds see the badge count as it
// was before this pass.
func (e *Engine) refreshAndEvaluate(ctx context.Context, userID string, joinedAt time.Time) (*ReviewResult, error) {
	snap, err := e.store.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("re-reading snapshot: %w", err)
	}
	snap.EnsureMaps()

	earned, err := e.store.EarnedBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading earned badges: %w", err)
	}
	earnedSet := make(map[badges.BadgeID]bool, len(earned))
	for _, b := range earned {
		earnedSet[badges.BadgeID(b.BadgeID)] = true
	}

	now := e.Now()
	userCtx := badges.UserContext{Now: now, JoinedAt: joinedAt, BadgeCount: len(earned)}
	newBadges := e.evaluator.Evaluate(snap, userCtx, earnedSet, now)

	if len(newBadges) > 0 {
		if err := e.store.AppendBadges(ctx, userID, newBadges); err != nil {
			return nil, fmt.Errorf("appending badges: %w", err)
		}
		for _, b := range newBadges {
			metrics.BadgesAwarded.WithLabelValues(b.Category).Inc()
			if e.bus != nil {
				e.bus.Publish(events.BadgeEarned{
					UserID:      userID,
					BadgeID:     b.BadgeID,
					Name:        b.Name,
					Description: b.Description,
					Category:    b.Category,
					EarnedAt:    b.EarnedAt,
				})
			}
		}
	}

	return &ReviewResult{Snapshot: snap, NewBadges: newBadges}, nil
}

func validateReview(ev events.ReviewEvent) error {
	switch {
	case ev.ReviewerID == "":
		return &ValidationError{Field: "reviewerId", Reason: "is required"}
	case ev.PitchID == "":
		return &ValidationError{Field: "pitchId", Reason: "is required"}
	case ev.Rating == "":
		return &ValidationError{Field: "overallLpRating", Reason: "is required"}
	case !events.ValidRating(ev.Rating):
		return &ValidationError{Field: "overallLpRating", Reason: fmt.Sprintf("has unknown value %q", ev.Rating)}
	case ev.SubmittedAt.IsZero():
		return &ValidationError{Field: "submittedAt", Reason: "is required"}
	}
	return nil
}

func hasOtherReviewer(recs []ReviewRecord, reviewerID string) bool {
	for _, rec := range recs {
		if rec.ReviewerID != reviewerID {
			return true
		}
	}
	return false
}

func editLabel(isEdit bool) string {
	if isEdit {
		return "edit"
	}
	return "create"
}
