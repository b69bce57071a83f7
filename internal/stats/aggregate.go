package stats

import (
	"math"
	"strings"
	"time"

	"lpstats/internal/events"
)

// Comment length / word-count thresholds used by the engagement rules.
const (
	longCommentChars    = 100
	detailedReviewChars = 300
	detailedPassChars   = 50
	exactWordCount      = 50
	earlyReviewWindow   = 48 * time.Hour
)

// communityKeywords flag pitches for community-oriented businesses when
// they appear in the business name or description.
var communityKeywords = []string{
	"community", "neighborhood", "local", "co-op", "cooperative",
	"nonprofit", "family-owned", "family owned",
}

// transportationKeywords flag transportation and mobility businesses.
var transportationKeywords = []string{
	"transport", "shuttle", "delivery", "courier", "rideshare",
	"bike", "bicycle", "bus", "logistics",
}

// Aggregate computes the update set for one review submission or edit
// against the reviewer's current snapshot. It never mutates s; the caller
// applies the returned updates through the store (or ApplyUpdates for the
// in-memory reference semantics).
//
// Edits skip the volume counters but still fire the comment-derived,
// timestamp-derived and pitch-derived rules. That means ratingDistribution
// and totalComments can grow past totalReviews across repeated edits; the
// original system behaved this way and callers rely on the edit scenarios
// documented in the tests.
func Aggregate(s *Snapshot, ev events.ReviewEvent, pitch events.Pitch, reviewer events.Reviewer) []Update {
	var ups []Update
	at := ev.SubmittedAt

	totalComments := s.TotalComments
	totalCommentLength := s.TotalCommentLength
	totalPredictions := s.TotalPredictions

	if !ev.IsEdit {
		ups = append(ups,
			Inc(FieldTotalReviews, 1),
			IncBucket(FieldQuarterlyReviews, QuarterLabel(at), 1),
			IncBucket(FieldReviewsByQuarter, QuarterLabel(at), 1),
			IncBucket(FieldReviewsByTimeOfDay, TimeOfDayBucket(at), 1),
			IncBucket(FieldReviewsByDayOfWeek, DayCode(at), 1),
		)

		switch ev.Rating {
		case events.RatingFavorite:
			ups = append(ups, Inc(FieldFavoritesPicked, 1))
		case events.RatingConsideration:
			ups = append(ups, Inc(FieldConsiderationsPicked, 1))
		case events.RatingPass:
			ups = append(ups, Inc(FieldPassedPicked, 1))
		case events.RatingIneligible:
			ups = append(ups, Inc(FieldIneligiblePicked, 1))
		}

		if !pitch.CreatedAt.IsZero() && at.Sub(pitch.CreatedAt) <= earlyReviewWindow {
			ups = append(ups, Inc(FieldEarlyReviews, 1))
		}
		if IsNightHour(at) {
			ups = append(ups, Inc(FieldNightReviews, 1))
		}
		if IsLateNightHour(at) {
			ups = append(ups, Inc(FieldLateNightReviews, 1))
		}
		if IsWeekend(at) {
			ups = append(ups, Inc(FieldWeekendReviews, 1))
		}

		ups = append(ups, dayTrackerUpdates(s, at)...)

		if ev.Rating == events.RatingFavorite || ev.Rating == events.RatingConsideration {
			ups = append(ups, Inc(FieldTotalPredictions, 1))
			totalPredictions++
			if ev.Rating == events.RatingFavorite {
				ups = append(ups, Inc(FieldTotalFavorites, 1))
			}
		}
	} else {
		// An edit is a changed rating for stats purposes.
		ups = append(ups, Inc(FieldChangedRatings, 1))
	}

	// The distribution tracks every submitted rating, edits included. The
	// previous rating's bucket is never decremented.
	ups = append(ups, IncBucket(FieldRatingDistribution, string(ev.Rating), 1))

	if ev.Comments != "" {
		ups = append(ups, commentUpdates(ev)...)
		totalComments++
		totalCommentLength += len(ev.Comments)
	}

	// Timestamp literals fire on edits too: the submission time is the
	// edit time.
	if at.Hour() == 16 && at.Minute() == 20 {
		ups = append(ups, Inc(FieldFourTwentyReview, 1))
	}
	if at.Month() == time.December && at.Day() == 25 {
		ups = append(ups, Inc(FieldChristmasReview, 1))
	}
	if a := reviewer.Anniversary; a != nil && at.Month() == a.Month() && at.Day() == a.Day() {
		ups = append(ups, Inc(FieldAnniversaryReview, 1))
	}

	ups = append(ups, pitchContentUpdates(pitch)...)

	// Derived fields are recomputed wholesale from the projected totals.
	ups = append(ups,
		Set(FieldAccuracyRate, rate(s.CorrectPredictions, totalPredictions)),
		Set(FieldAverageReviewLength, average(totalCommentLength, totalComments)),
		Set(FieldLastReviewDate, at),
	)

	return ups
}

func dayTrackerUpdates(s *Snapshot, at time.Time) []Update {
	today := DayKey(at)

	if s.LastReviewDay == today {
		reviewsToday := s.ReviewsToday + 1
		ups := []Update{Set(FieldReviewsToday, reviewsToday)}
		if reviewsToday > s.MaxReviewsInDay {
			ups = append(ups, Set(FieldMaxReviewsInDay, reviewsToday))
		}
		return ups
	}

	ups := []Update{
		Set(FieldReviewsToday, 1),
		Set(FieldLastReviewDay, today),
	}
	if s.MaxReviewsInDay < 1 {
		ups = append(ups, Set(FieldMaxReviewsInDay, 1))
	}

	streak := 1
	if IsConsecutiveDay(s.LastReviewDay, today) {
		streak = s.CurrentStreak + 1
	}
	ups = append(ups, Set(FieldCurrentStreak, streak))
	if streak > s.LongestStreak {
		ups = append(ups, Set(FieldLongestStreak, streak))
	}
	if streak >= 365 {
		ups = append(ups, Set(FieldYearLongStreak, 1))
	}
	return ups
}

func commentUpdates(ev events.ReviewEvent) []Update {
	comment := ev.Comments
	length := len(comment)
	lower := strings.ToLower(comment)

	ups := []Update{
		Inc(FieldTotalComments, 1),
		Inc(FieldTotalCommentLength, length),
	}
	if length > longCommentChars {
		ups = append(ups, Inc(FieldLongComments, 1))
	}
	if length >= detailedReviewChars {
		ups = append(ups, Inc(FieldDetailedReviews, 1))
	}
	if len(strings.Fields(comment)) == exactWordCount {
		ups = append(ups, Inc(FieldExactly50WordComments, 1))
	}
	if ev.Rating == events.RatingPass {
		ups = append(ups, Inc(FieldPassWithComments, 1))
		if length >= detailedPassChars {
			ups = append(ups, Inc(FieldPassWithDetailedComments, 1))
		}
	}
	if n := strings.Count(lower, "neighbor"); n > 0 {
		ups = append(ups, Inc(FieldNeighborWordCount, n))
	}
	if strings.Contains(lower, "as a mom") {
		ups = append(ups, Inc(FieldAsAMomComment, 1))
	}
	return ups
}

func pitchContentUpdates(pitch events.Pitch) []Update {
	var ups []Update
	if strings.TrimSpace(pitch.Website) != "" {
		ups = append(ups, Inc(FieldBusinessesWithWebsites, 1))
	}
	text := strings.ToLower(pitch.BusinessName + " " + pitch.Description)
	if containsAny(text, communityKeywords) {
		ups = append(ups, Inc(FieldCommunityBusinessReviews, 1))
	}
	if containsAny(text, transportationKeywords) {
		ups = append(ups, Inc(FieldTransportationBusinessReviews, 1))
	}
	return ups
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// WinnerUpdates computes the accuracy credit for one reviewer whose
// earlier rating of a now-winning pitch was predictive. Ratings of Pass
// or Ineligible earn nothing. totalPredictions was already counted at
// review time and is left alone, which keeps correctPredictions bounded
// by it and makes a perfect record score 100.
func WinnerUpdates(s *Snapshot, rating events.Rating) []Update {
	if rating != events.RatingFavorite && rating != events.RatingConsideration {
		return nil
	}

	ups := []Update{
		Inc(FieldCorrectPredictions, 1),
		Inc(FieldWinnersIdentified, 1),
	}
	if rating == events.RatingFavorite {
		ups = append(ups, Inc(FieldFavoriteWinners, 1))
	}

	correct := s.CorrectPredictions + 1
	ups = append(ups, Set(FieldAccuracyRate, rate(correct, s.TotalPredictions)))
	return ups
}

// rate returns round(100*correct/total) clamped to [0,100].
func rate(correct, total int) int {
	if total <= 0 {
		return 0
	}
	r := int(math.Round(100 * float64(correct) / float64(total)))
	if r > 100 {
		r = 100
	}
	return r
}

func average(sum, n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
