package stats

import (
	"fmt"
	"time"
)

// Field identifies one addressable slot in a Snapshot. Bucketed fields
// (the distribution maps) are addressed as (Field, Bucket) pairs. Keeping
// this a closed enum lets the store adapter translate updates into atomic
// per-column increments without free-form path strings.
type Field int

const (
	FieldTotalReviews Field = iota
	FieldTotalComments
	FieldTotalCommentLength
	FieldTotalPredictions
	FieldCorrectPredictions
	FieldWinnersIdentified
	FieldFavoritesPicked
	FieldConsiderationsPicked
	FieldPassedPicked
	FieldIneligiblePicked
	FieldTotalFavorites
	FieldFavoriteWinners
	FieldRatingDistribution
	FieldQuarterlyReviews
	FieldReviewsByQuarter
	FieldReviewsByTimeOfDay
	FieldReviewsByDayOfWeek
	FieldLongComments
	FieldDetailedReviews
	FieldExactly50WordComments
	FieldPassWithComments
	FieldPassWithDetailedComments
	FieldEarlyReviews
	FieldNightReviews
	FieldLateNightReviews
	FieldWeekendReviews
	FieldMaxReviewsInDay
	FieldReviewsToday
	FieldLastReviewDay
	FieldChangedRatings
	FieldFirstToReview
	FieldChristmasReview
	FieldAnniversaryReview
	FieldFourTwentyReview
	FieldAsAMomComment
	FieldNeighborWordCount
	FieldBusinessesWithWebsites
	FieldCommunityBusinessReviews
	FieldTransportationBusinessReviews
	FieldCurrentStreak
	FieldLongestStreak
	FieldLongestWeeklyStreak
	FieldYearLongStreak
	FieldPerfectQuarters
	FieldPerfectQuarterCompletion
	FieldQuarterlyTop3
	FieldQuarterCompletionRate
	FieldIsChapterLeaderThisQuarter
	FieldIsFoundingMember
	FieldAccuracyRate
	FieldAverageReviewLength
	FieldLastReviewDate
)

var fieldNames = map[Field]string{
	FieldTotalReviews:                  "totalReviews",
	FieldTotalComments:                 "totalComments",
	FieldTotalCommentLength:            "totalCommentLength",
	FieldTotalPredictions:              "totalPredictions",
	FieldCorrectPredictions:            "correctPredictions",
	FieldWinnersIdentified:             "winnersIdentified",
	FieldFavoritesPicked:               "favoritesPicked",
	FieldConsiderationsPicked:          "considerationsPicked",
	FieldPassedPicked:                  "passedPicked",
	FieldIneligiblePicked:              "ineligiblePicked",
	FieldTotalFavorites:                "totalFavorites",
	FieldFavoriteWinners:               "favoriteWinners",
	FieldRatingDistribution:            "ratingDistribution",
	FieldQuarterlyReviews:              "quarterlyReviews",
	FieldReviewsByQuarter:              "reviewsByQuarter",
	FieldReviewsByTimeOfDay:            "reviewsByTimeOfDay",
	FieldReviewsByDayOfWeek:            "reviewsByDayOfWeek",
	FieldLongComments:                  "longComments",
	FieldDetailedReviews:               "detailedReviews",
	FieldExactly50WordComments:         "exactly50WordComments",
	FieldPassWithComments:              "passWithComments",
	FieldPassWithDetailedComments:      "passWithDetailedComments",
	FieldEarlyReviews:                  "earlyReviews",
	FieldNightReviews:                  "nightReviews",
	FieldLateNightReviews:              "lateNightReviews",
	FieldWeekendReviews:                "weekendReviews",
	FieldMaxReviewsInDay:               "maxReviewsInDay",
	FieldReviewsToday:                  "reviewsToday",
	FieldLastReviewDay:                 "lastReviewDay",
	FieldChangedRatings:                "changedRatings",
	FieldFirstToReview:                 "firstToReview",
	FieldChristmasReview:               "christmasReview",
	FieldAnniversaryReview:             "anniversaryReview",
	FieldFourTwentyReview:              "fourTwentyReview",
	FieldAsAMomComment:                 "asAMomComment",
	FieldNeighborWordCount:             "neighborWordCount",
	FieldBusinessesWithWebsites:        "businessesWithWebsites",
	FieldCommunityBusinessReviews:      "communityBusinessReviews",
	FieldTransportationBusinessReviews: "transportationBusinessReviews",
	FieldCurrentStreak:                 "currentStreak",
	FieldLongestStreak:                 "longestStreak",
	FieldLongestWeeklyStreak:           "longestWeeklyStreak",
	FieldYearLongStreak:                "yearLongStreak",
	FieldPerfectQuarters:               "perfectQuarters",
	FieldPerfectQuarterCompletion:      "perfectQuarterCompletion",
	FieldQuarterlyTop3:                 "quarterlyTop3",
	FieldQuarterCompletionRate:         "quarterCompletionRate",
	FieldIsChapterLeaderThisQuarter:    "isChapterLeaderThisQuarter",
	FieldIsFoundingMember:              "isFoundingMember",
	FieldAccuracyRate:                  "accuracyRate",
	FieldAverageReviewLength:           "averageReviewLength",
	FieldLastReviewDate:                "lastReviewDate",
}

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Bucketed reports whether f is one of the map-valued distribution fields.
func (f Field) Bucketed() bool {
	switch f {
	case FieldRatingDistribution, FieldQuarterlyReviews, FieldReviewsByQuarter,
		FieldReviewsByTimeOfDay, FieldReviewsByDayOfWeek:
		return true
	}
	return false
}

// Kind distinguishes delta updates, which the store can apply as atomic
// increments, from absolute replacements, which are last-write-wins.
type Kind int

const (
	Increment Kind = iota
	Replace
)

// Update is one field-level change to a snapshot. For Increment, Delta
// holds the amount; for Replace, Value holds the new value (int, string,
// bool or time.Time depending on the field).
type Update struct {
	Field  Field
	Bucket string // set only for bucketed fields
	Kind   Kind
	Delta  int
	Value  any
}

// Inc builds a delta update.
func Inc(f Field, delta int) Update {
	return Update{Field: f, Kind: Increment, Delta: delta}
}

// IncBucket builds a delta update against one bucket of a map field.
func IncBucket(f Field, bucket string, delta int) Update {
	return Update{Field: f, Bucket: bucket, Kind: Increment, Delta: delta}
}

// Set builds an absolute replacement update.
func Set(f Field, value any) Update {
	return Update{Field: f, Kind: Replace, Value: value}
}

// ApplyUpdates mutates s in place with the given update set. The store
// adapters replicate exactly this logic against their own representation;
// this in-memory form is the reference semantics.
func ApplyUpdates(s *Snapshot, updates []Update) {
	s.EnsureMaps()
	for _, u := range updates {
		if u.Field.Bucketed() {
			bucketMap(s, u.Field)[u.Bucket] += u.Delta
			continue
		}
		if u.Kind == Increment {
			*intSlot(s, u.Field) += u.Delta
			continue
		}
		applyReplace(s, u)
	}
}

func bucketMap(s *Snapshot, f Field) map[string]int {
	switch f {
	case FieldRatingDistribution:
		return s.RatingDistribution
	case FieldQuarterlyReviews:
		return s.QuarterlyReviews
	case FieldReviewsByQuarter:
		return s.ReviewsByQuarter
	case FieldReviewsByTimeOfDay:
		return s.ReviewsByTimeOfDay
	case FieldReviewsByDayOfWeek:
		return s.ReviewsByDayOfWeek
	}
	panic(fmt.Sprintf("stats: field %s is not bucketed", f))
}

func intSlot(s *Snapshot, f Field) *int {
	switch f {
	case FieldTotalReviews:
		return &s.TotalReviews
	case FieldTotalComments:
		return &s.TotalComments
	case FieldTotalCommentLength:
		return &s.TotalCommentLength
	case FieldTotalPredictions:
		return &s.TotalPredictions
	case FieldCorrectPredictions:
		return &s.CorrectPredictions
	case FieldWinnersIdentified:
		return &s.WinnersIdentified
	case FieldFavoritesPicked:
		return &s.FavoritesPicked
	case FieldConsiderationsPicked:
		return &s.ConsiderationsPicked
	case FieldPassedPicked:
		return &s.PassedPicked
	case FieldIneligiblePicked:
		return &s.IneligiblePicked
	case FieldTotalFavorites:
		return &s.TotalFavorites
	case FieldFavoriteWinners:
		return &s.FavoriteWinners
	case FieldLongComments:
		return &s.LongComments
	case FieldDetailedReviews:
		return &s.DetailedReviews
	case FieldExactly50WordComments:
		return &s.Exactly50WordComments
	case FieldPassWithComments:
		return &s.PassWithComments
	case FieldPassWithDetailedComments:
		return &s.PassWithDetailedComments
	case FieldEarlyReviews:
		return &s.EarlyReviews
	case FieldNightReviews:
		return &s.NightReviews
	case FieldLateNightReviews:
		return &s.LateNightReviews
	case FieldWeekendReviews:
		return &s.WeekendReviews
	case FieldMaxReviewsInDay:
		return &s.MaxReviewsInDay
	case FieldReviewsToday:
		return &s.ReviewsToday
	case FieldChangedRatings:
		return &s.ChangedRatings
	case FieldFirstToReview:
		return &s.FirstToReview
	case FieldChristmasReview:
		return &s.ChristmasReview
	case FieldAnniversaryReview:
		return &s.AnniversaryReview
	case FieldFourTwentyReview:
		return &s.FourTwentyReview
	case FieldAsAMomComment:
		return &s.AsAMomComment
	case FieldNeighborWordCount:
		return &s.NeighborWordCount
	case FieldBusinessesWithWebsites:
		return &s.BusinessesWithWebsites
	case FieldCommunityBusinessReviews:
		return &s.CommunityBusinessReviews
	case FieldTransportationBusinessReviews:
		return &s.TransportationBusinessReviews
	case FieldCurrentStreak:
		return &s.CurrentStreak
	case FieldLongestStreak:
		return &s.LongestStreak
	case FieldLongestWeeklyStreak:
		return &s.LongestWeeklyStreak
	case FieldYearLongStreak:
		return &s.YearLongStreak
	case FieldPerfectQuarters:
		return &s.PerfectQuarters
	case FieldPerfectQuarterCompletion:
		return &s.PerfectQuarterCompletion
	case FieldQuarterlyTop3:
		return &s.QuarterlyTop3
	case FieldQuarterCompletionRate:
		return &s.QuarterCompletionRate
	case FieldAccuracyRate:
		return &s.AccuracyRate
	case FieldAverageReviewLength:
		return &s.AverageReviewLength
	}
	panic(fmt.Sprintf("stats: field %s is not an int counter", f))
}

func applyReplace(s *Snapshot, u Update) {
	switch u.Field {
	case FieldLastReviewDay:
		s.LastReviewDay = u.Value.(string)
	case FieldLastReviewDate:
		s.LastReviewDate = u.Value.(time.Time)
	case FieldIsChapterLeaderThisQuarter:
		s.IsChapterLeaderThisQuarter = u.Value.(bool)
	case FieldIsFoundingMember:
		s.IsFoundingMember = u.Value.(bool)
	default:
		*intSlot(s, u.Field) = u.Value.(int)
	}
}
