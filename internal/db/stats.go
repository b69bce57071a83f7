package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"lpstats/internal/engine"
	"lpstats/internal/stats"
)

const snapshotColumns = `
	total_reviews, total_comments, total_comment_length,
	total_predictions, correct_predictions, winners_identified,
	favorites_picked, considerations_picked, passed_picked, ineligible_picked,
	total_favorites, favorite_winners,
	rating_distribution, quarterly_reviews, reviews_by_quarter,
	reviews_by_time_of_day, reviews_by_day_of_week,
	long_comments, detailed_reviews, exactly_50_word_comments,
	pass_with_comments, pass_with_detailed_comments,
	early_reviews, night_reviews, late_night_reviews, weekend_reviews,
	max_reviews_in_day, reviews_today, last_review_day,
	changed_ratings, first_to_review, christmas_review, anniversary_review,
	four_twenty_review, as_a_mom_comment, neighbor_word_count,
	businesses_with_websites, community_business_reviews, transportation_business_reviews,
	current_streak, longest_streak, longest_weekly_streak, year_long_streak,
	perfect_quarters, perfect_quarter_completion, quarterly_top3,
	quarter_completion_rate, is_chapter_leader_this_quarter, is_founding_member,
	accuracy_rate, average_review_length, last_review_date`

func (d *DB) Snapshot(ctx context.Context, userID string) (*stats.Snapshot, error) {
	s := stats.NewSnapshot()
	var (
		ratingDist, byQuarterLegacy, byQuarter, byTimeOfDay, byDayOfWeek []byte
		lastReviewDate                                                  sql.NullTime
	)

	err := d.conn.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM lp_stats WHERE user_id = $1`, userID,
	).Scan(
		&s.TotalReviews, &s.TotalComments, &s.TotalCommentLength,
		&s.TotalPredictions, &s.CorrectPredictions, &s.WinnersIdentified,
		&s.FavoritesPicked, &s.ConsiderationsPicked, &s.PassedPicked, &s.IneligiblePicked,
		&s.TotalFavorites, &s.FavoriteWinners,
		&ratingDist, &byQuarterLegacy, &byQuarter,
		&byTimeOfDay, &byDayOfWeek,
		&s.LongComments, &s.DetailedReviews, &s.Exactly50WordComments,
		&s.PassWithComments, &s.PassWithDetailedComments,
		&s.EarlyReviews, &s.NightReviews, &s.LateNightReviews, &s.WeekendReviews,
		&s.MaxReviewsInDay, &s.ReviewsToday, &s.LastReviewDay,
		&s.ChangedRatings, &s.FirstToReview, &s.ChristmasReview, &s.AnniversaryReview,
		&s.FourTwentyReview, &s.AsAMomComment, &s.NeighborWordCount,
		&s.BusinessesWithWebsites, &s.CommunityBusinessReviews, &s.TransportationBusinessReviews,
		&s.CurrentStreak, &s.LongestStreak, &s.LongestWeeklyStreak, &s.YearLongStreak,
		&s.PerfectQuarters, &s.PerfectQuarterCompletion, &s.QuarterlyTop3,
		&s.QuarterCompletionRate, &s.IsChapterLeaderThisQuarter, &s.IsFoundingMember,
		&s.AccuracyRate, &s.AverageReviewLength, &lastReviewDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, engine.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	if lastReviewDate.Valid {
		s.LastReviewDate = lastReviewDate.Time
	}
	for _, m := range []struct {
		raw []byte
		dst *map[string]int
	}{
		{ratingDist, &s.RatingDistribution},
		{byQuarterLegacy, &s.QuarterlyReviews},
		{byQuarter, &s.ReviewsByQuarter},
		{byTimeOfDay, &s.ReviewsByTimeOfDay},
		{byDayOfWeek, &s.ReviewsByDayOfWeek},
	} {
		if len(m.raw) > 0 {
			if err := json.Unmarshal(m.raw, m.dst); err != nil {
				return nil, fmt.Errorf("decoding distribution: %w", err)
			}
		}
	}
	s.EnsureMaps()
	return s, nil
}

func (d *DB) InitSnapshot(ctx context.Context, userID string) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO lp_stats (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return fmt.Errorf("initializing snapshot: %w", err)
	}
	return nil
}

func (d *DB) ApplyUpdates(ctx context.Context, userID string, updates []stats.Update) error {
	if len(updates) == 0 {
		return nil
	}
	query, args, err := buildUpdateQuery(userID, updates)
	if err != nil {
		return err
	}
	res, err := d.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("applying updates: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("applying updates for %s: %w", userID, engine.ErrNoSnapshot)
	}
	return nil
}

func (d *DB) ReplaceSnapshot(ctx context.Context, userID string, s *stats.Snapshot) error {
	marshal := func(m map[string]int) ([]byte, error) {
		if m == nil {
			m = map[string]int{}
		}
		return json.Marshal(m)
	}
	ratingDist, err := marshal(s.RatingDistribution)
	if err != nil {
		return fmt.Errorf("encoding distribution: %w", err)
	}
	byQuarterLegacy, _ := marshal(s.QuarterlyReviews)
	byQuarter, _ := marshal(s.ReviewsByQuarter)
	byTimeOfDay, _ := marshal(s.ReviewsByTimeOfDay)
	byDayOfWeek, _ := marshal(s.ReviewsByDayOfWeek)

	var lastReviewDate sql.NullTime
	if !s.LastReviewDate.IsZero() {
		lastReviewDate = sql.NullTime{Time: s.LastReviewDate, Valid: true}
	}

	_, err = d.conn.ExecContext(ctx, `
		INSERT INTO lp_stats (user_id,`+snapshotColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			$28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
			$41, $42, $43, $44, $45, $46, $47, $48, $49, $50, $51, $52, $53)
		ON CONFLICT (user_id) DO UPDATE SET
			(`+snapshotColumns+`) =
			($2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			$28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
			$41, $42, $43, $44, $45, $46, $47, $48, $49, $50, $51, $52, $53)
	`,
		userID,
		s.TotalReviews, s.TotalComments, s.TotalCommentLength,
		s.TotalPredictions, s.CorrectPredictions, s.WinnersIdentified,
		s.FavoritesPicked, s.ConsiderationsPicked, s.PassedPicked, s.IneligiblePicked,
		s.TotalFavorites, s.FavoriteWinners,
		ratingDist, byQuarterLegacy, byQuarter, byTimeOfDay, byDayOfWeek,
		s.LongComments, s.DetailedReviews, s.Exactly50WordComments,
		s.PassWithComments, s.PassWithDetailedComments,
		s.EarlyReviews, s.NightReviews, s.LateNightReviews, s.WeekendReviews,
		s.MaxReviewsInDay, s.ReviewsToday, s.LastReviewDay,
		s.ChangedRatings, s.FirstToReview, s.ChristmasReview, s.AnniversaryReview,
		s.FourTwentyReview, s.AsAMomComment, s.NeighborWordCount,
		s.BusinessesWithWebsites, s.CommunityBusinessReviews, s.TransportationBusinessReviews,
		s.CurrentStreak, s.LongestStreak, s.LongestWeeklyStreak, s.YearLongStreak,
		s.PerfectQuarters, s.PerfectQuarterCompletion, s.QuarterlyTop3,
		s.QuarterCompletionRate, s.IsChapterLeaderThisQuarter, s.IsFoundingMember,
		s.AccuracyRate, s.AverageReviewLength, lastReviewDate,
	)
	if err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
