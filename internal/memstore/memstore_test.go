package memstore

import (
	"context"
	"testing"
	"time"

	"lpstats/internal/badges"
	"lpstats/internal/engine"
	"lpstats/internal/events"
	"lpstats/internal/stats"
)

func TestSnapshot_MissingUser(t *testing.T) {
	s := New()

	_, err := s.Snapshot(context.Background(), "lp-1")
	if err != engine.ErrNoSnapshot {
		t.Errorf("Snapshot() error = %v, want ErrNoSnapshot", err)
	}
}

func TestSnapshot_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.InitSnapshot(ctx, "lp-1"); err != nil {
		t.Fatalf("InitSnapshot() error = %v", err)
	}

	snap, err := s.Snapshot(ctx, "lp-1")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	snap.TotalReviews = 99
	snap.RatingDistribution["Favorite"] = 99

	fresh, err := s.Snapshot(ctx, "lp-1")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if fresh.TotalReviews != 0 || fresh.RatingDistribution["Favorite"] != 0 {
		t.Error("mutating a returned snapshot leaked into the store")
	}
}

func TestApplyUpdates_RequiresSnapshot(t *testing.T) {
	s := New()

	err := s.ApplyUpdates(context.Background(), "lp-1", []stats.Update{stats.Inc(stats.FieldTotalReviews, 1)})
	if err == nil {
		t.Error("ApplyUpdates() on missing user succeeded, want error")
	}
}

func TestReviewsByPitch_LatestPerReviewer(t *testing.T) {
	ctx := context.Background()
	s := New()
	at := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	records := []engine.ReviewRecord{
		{ReviewID: "r-1", ReviewerID: "lp-b", PitchID: "p-1", Rating: events.RatingPass, SubmittedAt: at},
		{ReviewID: "r-1", ReviewerID: "lp-b", PitchID: "p-1", Rating: events.RatingFavorite, SubmittedAt: at.Add(time.Hour), IsEdit: true},
		{ReviewID: "r-2", ReviewerID: "lp-a", PitchID: "p-1", Rating: events.RatingConsideration, SubmittedAt: at},
		{ReviewID: "r-3", ReviewerID: "lp-c", PitchID: "p-2", Rating: events.RatingFavorite, SubmittedAt: at},
	}
	for _, rec := range records {
		if err := s.RecordReview(ctx, rec); err != nil {
			t.Fatalf("RecordReview() error = %v", err)
		}
	}

	got, err := s.ReviewsByPitch(ctx, "p-1")
	if err != nil {
		t.Fatalf("ReviewsByPitch() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].ReviewerID != "lp-a" || got[1].ReviewerID != "lp-b" {
		t.Errorf("order = [%s %s], want [lp-a lp-b]", got[0].ReviewerID, got[1].ReviewerID)
	}
	if got[1].Rating != events.RatingFavorite {
		t.Errorf("lp-b rating = %s, want the edited Favorite", got[1].Rating)
	}
}

func TestReviewsByReviewer_ChronologicalOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	at := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"r-3", "r-1", "r-2"} {
		offset := []time.Duration{2 * time.Hour, 0, time.Hour}[i]
		err := s.RecordReview(ctx, engine.ReviewRecord{
			ReviewID: id, ReviewerID: "lp-1", PitchID: "p-1",
			Rating: events.RatingPass, SubmittedAt: at.Add(offset),
		})
		if err != nil {
			t.Fatalf("RecordReview() error = %v", err)
		}
	}

	got, err := s.ReviewsByReviewer(ctx, "lp-1")
	if err != nil {
		t.Fatalf("ReviewsByReviewer() error = %v", err)
	}
	want := []string{"r-1", "r-2", "r-3"}
	for i, id := range want {
		if got[i].ReviewID != id {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ReviewID, id)
		}
	}
}

func TestAppendBadges_Dedupes(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()

	earned := []badges.Earned{{BadgeID: "first_review", Name: "First Review", EarnedAt: now}}
	if err := s.AppendBadges(ctx, "lp-1", earned); err != nil {
		t.Fatalf("AppendBadges() error = %v", err)
	}
	if err := s.AppendBadges(ctx, "lp-1", earned); err != nil {
		t.Fatalf("second AppendBadges() error = %v", err)
	}

	held, err := s.EarnedBadges(ctx, "lp-1")
	if err != nil {
		t.Fatalf("EarnedBadges() error = %v", err)
	}
	if len(held) != 1 {
		t.Errorf("held %d badges, want 1", len(held))
	}
}

func TestMarkWinner_FirstDeclarationWins(t *testing.T) {
	ctx := context.Background()
	s := New()
	first := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	marked, err := s.MarkWinner(ctx, "p-1", first)
	if err != nil {
		t.Fatalf("MarkWinner() error = %v", err)
	}
	if !marked {
		t.Error("MarkWinner() = false on first declaration, want true")
	}
	marked, err = s.MarkWinner(ctx, "p-1", first.Add(time.Hour))
	if err != nil {
		t.Fatalf("repeated MarkWinner() error = %v", err)
	}
	if marked {
		t.Error("MarkWinner() = true on repeat declaration, want false")
	}

	winners, err := s.Winners(ctx)
	if err != nil {
		t.Fatalf("Winners() error = %v", err)
	}
	if !winners["p-1"] || len(winners) != 1 {
		t.Errorf("winners = %v, want only p-1", winners)
	}
}
