package db

import (
	"fmt"

	"lpstats/internal/stats"
)

// columns maps every snapshot field to its lp_stats column. Bucketed
// fields are jsonb columns; the rest are plain columns with defaults.
var columns = map[stats.Field]string{
	stats.FieldTotalReviews:                  "total_reviews",
	stats.FieldTotalComments:                 "total_comments",
	stats.FieldTotalCommentLength:            "total_comment_length",
	stats.FieldTotalPredictions:              "total_predictions",
	stats.FieldCorrectPredictions:            "correct_predictions",
	stats.FieldWinnersIdentified:             "winners_identified",
	stats.FieldFavoritesPicked:               "favorites_picked",
	stats.FieldConsiderationsPicked:          "considerations_picked",
	stats.FieldPassedPicked:                  "passed_picked",
	stats.FieldIneligiblePicked:              "ineligible_picked",
	stats.FieldTotalFavorites:                "total_favorites",
	stats.FieldFavoriteWinners:               "favorite_winners",
	stats.FieldRatingDistribution:            "rating_distribution",
	stats.FieldQuarterlyReviews:              "quarterly_reviews",
	stats.FieldReviewsByQuarter:              "reviews_by_quarter",
	stats.FieldReviewsByTimeOfDay:            "reviews_by_time_of_day",
	stats.FieldReviewsByDayOfWeek:            "reviews_by_day_of_week",
	stats.FieldLongComments:                  "long_comments",
	stats.FieldDetailedReviews:               "detailed_reviews",
	stats.FieldExactly50WordComments:         "exactly_50_word_comments",
	stats.FieldPassWithComments:              "pass_with_comments",
	stats.FieldPassWithDetailedComments:      "pass_with_detailed_comments",
	stats.FieldEarlyReviews:                  "early_reviews",
	stats.FieldNightReviews:                  "night_reviews",
	stats.FieldLateNightReviews:              "late_night_reviews",
	stats.FieldWeekendReviews:                "weekend_reviews",
	stats.FieldMaxReviewsInDay:               "max_reviews_in_day",
	stats.FieldReviewsToday:                  "reviews_today",
	stats.FieldLastReviewDay:                 "last_review_day",
	stats.FieldChangedRatings:                "changed_ratings",
	stats.FieldFirstToReview:                 "first_to_review",
	stats.FieldChristmasReview:               "christmas_review",
	stats.FieldAnniversaryReview:             "anniversary_review",
	stats.FieldFourTwentyReview:              "four_twenty_review",
	stats.FieldAsAMomComment:                 "as_a_mom_comment",
	stats.FieldNeighborWordCount:             "neighbor_word_count",
	stats.FieldBusinessesWithWebsites:        "businesses_with_websites",
	stats.FieldCommunityBusinessReviews:      "community_business_reviews",
	stats.FieldTransportationBusinessReviews: "transportation_business_reviews",
	stats.FieldCurrentStreak:                 "current_streak",
	stats.FieldLongestStreak:                 "longest_streak",
	stats.FieldLongestWeeklyStreak:           "longest_weekly_streak",
	stats.FieldYearLongStreak:                "year_long_streak",
	stats.FieldPerfectQuarters:               "perfect_quarters",
	stats.FieldPerfectQuarterCompletion:      "perfect_quarter_completion",
	stats.FieldQuarterlyTop3:                 "quarterly_top3",
	stats.FieldQuarterCompletionRate:         "quarter_completion_rate",
	stats.FieldIsChapterLeaderThisQuarter:    "is_chapter_leader_this_quarter",
	stats.FieldIsFoundingMember:              "is_founding_member",
	stats.FieldAccuracyRate:                  "accuracy_rate",
	stats.FieldAverageReviewLength:           "average_review_length",
	stats.FieldLastReviewDate:                "last_review_date",
}

// buildUpdateQuery turns an update set into a single UPDATE statement.
// Per-column expressions are composed left to right, so two updates to
// the same column (or two buckets of the same jsonb map) nest instead of
// producing an illegal duplicate assignment.
func buildUpdateQuery(userID string, updates []stats.Update) (string, []any, error) {
	exprs := make(map[string]string)
	var order []string
	args := []any{userID}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, u := range updates {
		col, ok := columns[u.Field]
		if !ok {
			return "", nil, fmt.Errorf("no column for field %s", u.Field)
		}
		base, seen := exprs[col]
		if !seen {
			base = col
			order = append(order, col)
		}

		switch {
		case u.Field.Bucketed():
			key := arg(u.Bucket)
			delta := arg(u.Delta)
			exprs[col] = fmt.Sprintf(
				"jsonb_set(%s, ARRAY[%s], (COALESCE(%s->>%s, '0')::int + %s)::text::jsonb)",
				base, key, base, key, delta)
		case u.Kind == stats.Increment:
			exprs[col] = fmt.Sprintf("(%s + %s)", base, arg(u.Delta))
		default:
			exprs[col] = arg(u.Value)
		}
	}

	query := "UPDATE lp_stats SET "
	for i, col := range order {
		if i > 0 {
			query += ", "
		}
		query += col + " = " + exprs[col]
	}
	query += " WHERE user_id = $1"
	return query, args, nil
}
