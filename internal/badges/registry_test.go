package badges

import (
	"testing"
	"time"

	"lpstats/internal/stats"
)

func TestRegistry_UniqueIDs(t *testing.T) {
	seen := make(map[BadgeID]bool)
	for _, def := range Registry {
		if def.ID == "" {
			t.Error("registry contains a badge with an empty ID")
		}
		if seen[def.ID] {
			t.Errorf("duplicate badge ID %q", def.ID)
		}
		seen[def.ID] = true
	}
}

func TestRegistry_DefinitionsComplete(t *testing.T) {
	for _, def := range Registry {
		if def.Name == "" {
			t.Errorf("badge %s has no name", def.ID)
		}
		if def.Check == nil {
			t.Errorf("badge %s has no check", def.ID)
		}
		if def.Progress == nil {
			t.Errorf("badge %s has no progress function", def.ID)
		}
		if def.Hidden && def.HiddenDescription == "" {
			t.Errorf("hidden badge %s has no hidden description", def.ID)
		}
	}
}

func TestRegistry_ZeroSnapshotEarnsNothing(t *testing.T) {
	s := stats.NewSnapshot()
	ctx := UserContext{Now: time.Now(), JoinedAt: time.Now()}

	for _, def := range Registry {
		if def.Check(s, ctx) {
			t.Errorf("badge %s earned on a zero snapshot", def.ID)
		}
	}
}

func TestRegistry_ProgressBoundedOnZeroSnapshot(t *testing.T) {
	s := stats.NewSnapshot()
	ctx := UserContext{Now: time.Now()}

	for _, def := range Registry {
		p := def.Progress(s, ctx)
		if p < 0 || p > 1 {
			t.Errorf("badge %s progress = %v on zero snapshot, want within [0,1]", def.ID, p)
		}
	}
}

func TestRegistry_ProgressFullWhenEarned(t *testing.T) {
	// A snapshot saturated enough to satisfy every counter badge.
	s := stats.NewSnapshot()
	s.TotalReviews = 500
	s.TotalComments = 500
	s.LongComments = 100
	s.DetailedReviews = 100
	s.PassWithComments = 100
	s.PassWithDetailedComments = 100
	s.WinnersIdentified = 20
	s.FavoriteWinners = 20
	s.TotalPredictions = 50
	s.AccuracyRate = 100
	s.EarlyReviews = 50
	s.NightReviews = 50
	s.LateNightReviews = 50
	s.WeekendReviews = 50
	s.ChristmasReview = 1
	s.AnniversaryReview = 1
	s.FourTwentyReview = 1
	s.MaxReviewsInDay = 20
	s.ReviewsByTimeOfDay = map[string]int{"morning": 1, "afternoon": 1, "evening": 1, "night": 1}
	s.ReviewsByDayOfWeek = map[string]int{"Mon": 1, "Tue": 1, "Wed": 1, "Thu": 1, "Fri": 1, "Sat": 1, "Sun": 1}
	s.QuarterlyReviews = map[string]int{"Q1 2025": 40}
	s.BusinessesWithWebsites = 50
	s.CommunityBusinessReviews = 50
	s.TransportationBusinessReviews = 50
	s.IsFoundingMember = true
	s.IsChapterLeaderThisQuarter = true
	s.PerfectQuarters = 2
	s.QuarterlyTop3 = 2
	s.LongestStreak = 400
	s.YearLongStreak = 1
	s.AsAMomComment = 1
	s.NeighborWordCount = 50
	s.Exactly50WordComments = 1
	s.ChangedRatings = 10
	s.FirstToReview = 10

	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	ctx := UserContext{Now: now, JoinedAt: now.AddDate(-2, 0, 0), BadgeCount: 40}

	for _, def := range Registry {
		if !def.Check(s, ctx) {
			t.Errorf("badge %s not earned on saturated snapshot", def.ID)
			continue
		}
		if p := def.Progress(s, ctx); p != 1 {
			t.Errorf("badge %s earned but progress = %v, want 1", def.ID, p)
		}
	}
}

func TestEliteBadges_ReadPrePassCount(t *testing.T) {
	s := stats.NewSnapshot()

	tests := []struct {
		id    BadgeID
		count int
		want  bool
	}{
		{BadgeBronzeLP, 9, false},
		{BadgeBronzeLP, 10, true},
		{BadgeSilverLP, 19, false},
		{BadgeSilverLP, 20, true},
		{BadgeGoldLP, 29, false},
		{BadgeGoldLP, 30, true},
	}
	for _, tt := range tests {
		def := findBadge(t, tt.id)
		got := def.Check(s, UserContext{BadgeCount: tt.count})
		if got != tt.want {
			t.Errorf("%s with %d earned badges: check = %v, want %v", tt.id, tt.count, got, tt.want)
		}
	}
}

func findBadge(t *testing.T, id BadgeID) Definition {
	t.Helper()
	for _, def := range Registry {
		if def.ID == id {
			return def
		}
	}
	t.Fatalf("badge %s not in registry", id)
	return Definition{}
}
