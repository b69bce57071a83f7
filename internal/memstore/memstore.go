// Package memstore is an in-memory engine.Store used in tests and when
// no DATABASE_URL is configured. Data does not survive a restart.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"lpstats/internal/badges"
	"lpstats/internal/engine"
	"lpstats/internal/events"
	"lpstats/internal/stats"
)

type Store struct {
	mu        sync.Mutex
	snapshots map[string]*stats.Snapshot
	badges    map[string][]badges.Earned
	pitches   map[string]events.Pitch
	reviews   []engine.ReviewRecord
	winners   map[string]time.Time
}

func New() *Store {
	return &Store{
		snapshots: make(map[string]*stats.Snapshot),
		badges:    make(map[string][]badges.Earned),
		pitches:   make(map[string]events.Pitch),
		winners:   make(map[string]time.Time),
	}
}

func (s *Store) Snapshot(_ context.Context, userID string) (*stats.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[userID]
	if !ok {
		return nil, engine.ErrNoSnapshot
	}
	return cloneSnapshot(snap), nil
}

func (s *Store) InitSnapshot(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[userID]; !ok {
		s.snapshots[userID] = stats.NewSnapshot()
	}
	return nil
}

func (s *Store) ApplyUpdates(_ context.Context, userID string, updates []stats.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[userID]
	if !ok {
		return fmt.Errorf("applying updates for %s: %w", userID, engine.ErrNoSnapshot)
	}
	stats.ApplyUpdates(snap, updates)
	return nil
}

func (s *Store) ReplaceSnapshot(_ context.Context, userID string, snap *stats.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[userID] = cloneSnapshot(snap)
	return nil
}

func (s *Store) EarnedBadges(_ context.Context, userID string) ([]badges.Earned, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	earned := make([]badges.Earned, len(s.badges[userID]))
	copy(earned, s.badges[userID])
	return earned, nil
}

func (s *Store) AppendBadges(_ context.Context, userID string, earned []badges.Earned) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	held := make(map[string]bool)
	for _, b := range s.badges[userID] {
		held[b.BadgeID] = true
	}
	for _, b := range earned {
		if !held[b.BadgeID] {
			s.badges[userID] = append(s.badges[userID], b)
			held[b.BadgeID] = true
		}
	}
	return nil
}

func (s *Store) SavePitch(_ context.Context, pitch events.Pitch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pitches[pitch.ID] = pitch
	return nil
}

func (s *Store) Pitch(_ context.Context, pitchID string) (events.Pitch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pitch, ok := s.pitches[pitchID]
	if !ok {
		return events.Pitch{}, fmt.Errorf("pitch %s not found", pitchID)
	}
	return pitch, nil
}

func (s *Store) RecordReview(_ context.Context, rec engine.ReviewRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, rec)
	return nil
}

func (s *Store) ReviewsByPitch(_ context.Context, pitchID string) ([]engine.ReviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Latest review per reviewer.
	latest := make(map[string]engine.ReviewRecord)
	for _, rec := range s.reviews {
		if rec.PitchID != pitchID {
			continue
		}
		cur, ok := latest[rec.ReviewerID]
		if !ok || !rec.SubmittedAt.Before(cur.SubmittedAt) {
			latest[rec.ReviewerID] = rec
		}
	}

	out := make([]engine.ReviewRecord, 0, len(latest))
	for _, rec := range latest {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReviewerID < out[j].ReviewerID })
	return out, nil
}

func (s *Store) ReviewsByReviewer(_ context.Context, reviewerID string) ([]engine.ReviewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []engine.ReviewRecord
	for _, rec := range s.reviews {
		if rec.ReviewerID == reviewerID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

func (s *Store) MarkWinner(_ context.Context, pitchID string, declaredAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.winners[pitchID]; ok {
		return false, nil
	}
	s.winners[pitchID] = declaredAt
	return true, nil
}

func (s *Store) Winners(_ context.Context) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.winners))
	for id := range s.winners {
		out[id] = true
	}
	return out, nil
}

func cloneSnapshot(s *stats.Snapshot) *stats.Snapshot {
	c := *s
	c.RatingDistribution = cloneMap(s.RatingDistribution)
	c.QuarterlyReviews = cloneMap(s.QuarterlyReviews)
	c.ReviewsByQuarter = cloneMap(s.ReviewsByQuarter)
	c.ReviewsByTimeOfDay = cloneMap(s.ReviewsByTimeOfDay)
	c.ReviewsByDayOfWeek = cloneMap(s.ReviewsByDayOfWeek)
	return &c
}

func cloneMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
