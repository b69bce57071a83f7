package stats

import (
	"sort"

	"lpstats/internal/events"
)

// HistoricalReview is one entry in a reviewer's stored review history,
// used to rebuild a snapshot from scratch.
type HistoricalReview struct {
	Event events.ReviewEvent
	Pitch events.Pitch
	Won   bool // the pitch was later declared a winner
}

// Retroactive rebuilds a snapshot by replaying a reviewer's full history
// in chronological order through the same Aggregate rules the live path
// uses, then applying winner credit for each winning pitch the reviewer
// rated predictively (final rating per pitch). Because it is a fold of
// the incremental rules, it matches incremental accumulation exactly and
// running it twice over the same history yields the same snapshot.
func Retroactive(history []HistoricalReview, reviewer events.Reviewer) *Snapshot {
	sorted := make([]HistoricalReview, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Event.SubmittedAt.Before(sorted[j].Event.SubmittedAt)
	})

	s := NewSnapshot()
	finalRating := make(map[string]events.Rating) // pitchID -> last submitted rating
	wonPitches := make(map[string]bool)

	for _, h := range sorted {
		ApplyUpdates(s, Aggregate(s, h.Event, h.Pitch, reviewer))
		finalRating[h.Event.PitchID] = h.Event.Rating
		if h.Won {
			wonPitches[h.Event.PitchID] = true
		}
	}

	// Stable iteration keeps the rebuild deterministic.
	pitchIDs := make([]string, 0, len(wonPitches))
	for id := range wonPitches {
		pitchIDs = append(pitchIDs, id)
	}
	sort.Strings(pitchIDs)
	for _, id := range pitchIDs {
		ApplyUpdates(s, WinnerUpdates(s, finalRating[id]))
	}

	return s
}
