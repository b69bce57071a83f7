package db

import (
	"strings"
	"testing"

	"lpstats/internal/stats"
)

func TestColumns_CoverEveryField(t *testing.T) {
	for f := stats.FieldTotalReviews; f <= stats.FieldLastReviewDate; f++ {
		if _, ok := columns[f]; !ok {
			t.Errorf("field %s has no column mapping", f)
		}
	}
}

func TestBuildUpdateQuery_PlainIncrements(t *testing.T) {
	query, args, err := buildUpdateQuery("lp-1", []stats.Update{
		stats.Inc(stats.FieldTotalReviews, 1),
		stats.Inc(stats.FieldTotalComments, 1),
	})
	if err != nil {
		t.Fatalf("buildUpdateQuery() error = %v", err)
	}

	want := "UPDATE lp_stats SET total_reviews = (total_reviews + $2), total_comments = (total_comments + $3) WHERE user_id = $1"
	if query != want {
		t.Errorf("query = %q\nwant    %q", query, want)
	}
	if len(args) != 3 || args[0] != "lp-1" || args[1] != 1 || args[2] != 1 {
		t.Errorf("args = %v, want [lp-1 1 1]", args)
	}
}

func TestBuildUpdateQuery_RepeatedColumnNests(t *testing.T) {
	query, _, err := buildUpdateQuery("lp-1", []stats.Update{
		stats.Inc(stats.FieldTotalReviews, 1),
		stats.Inc(stats.FieldTotalReviews, 2),
	})
	if err != nil {
		t.Fatalf("buildUpdateQuery() error = %v", err)
	}

	want := "UPDATE lp_stats SET total_reviews = ((total_reviews + $2) + $3) WHERE user_id = $1"
	if query != want {
		t.Errorf("query = %q\nwant    %q", query, want)
	}
	if strings.Count(query, "total_reviews =") != 1 {
		t.Error("column assigned more than once")
	}
}

func TestBuildUpdateQuery_BucketedFields(t *testing.T) {
	query, args, err := buildUpdateQuery("lp-1", []stats.Update{
		stats.IncBucket(stats.FieldRatingDistribution, "Favorite", 1),
	})
	if err != nil {
		t.Fatalf("buildUpdateQuery() error = %v", err)
	}

	want := "UPDATE lp_stats SET rating_distribution = jsonb_set(rating_distribution, ARRAY[$2], (COALESCE(rating_distribution->>$2, '0')::int + $3)::text::jsonb) WHERE user_id = $1"
	if query != want {
		t.Errorf("query = %q\nwant    %q", query, want)
	}
	if len(args) != 3 || args[1] != "Favorite" || args[2] != 1 {
		t.Errorf("args = %v, want [lp-1 Favorite 1]", args)
	}
}

func TestBuildUpdateQuery_TwoBucketsSameColumnNest(t *testing.T) {
	query, _, err := buildUpdateQuery("lp-1", []stats.Update{
		stats.IncBucket(stats.FieldRatingDistribution, "Pass", 1),
		stats.IncBucket(stats.FieldRatingDistribution, "Favorite", 1),
	})
	if err != nil {
		t.Fatalf("buildUpdateQuery() error = %v", err)
	}

	if strings.Count(query, "rating_distribution =") != 1 {
		t.Errorf("jsonb column assigned more than once: %q", query)
	}
	if strings.Count(query, "jsonb_set") != 3 {
		// Outer set wraps the inner set, which appears twice (target and COALESCE read).
		t.Errorf("expected nested jsonb_set composition, got %q", query)
	}
}

func TestBuildUpdateQuery_ReplaceUsesPlaceholder(t *testing.T) {
	query, args, err := buildUpdateQuery("lp-1", []stats.Update{
		stats.Set(stats.FieldLastReviewDay, "2025-03-14"),
		stats.Set(stats.FieldAccuracyRate, 85),
	})
	if err != nil {
		t.Fatalf("buildUpdateQuery() error = %v", err)
	}

	want := "UPDATE lp_stats SET last_review_day = $2, accuracy_rate = $3 WHERE user_id = $1"
	if query != want {
		t.Errorf("query = %q\nwant    %q", query, want)
	}
	if args[1] != "2025-03-14" || args[2] != 85 {
		t.Errorf("args = %v", args)
	}
}
