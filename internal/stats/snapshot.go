package stats

import "time"

// Snapshot is the complete cumulative statistics record for one LP.
// All counters start at zero and, with the exception of ReviewsToday and
// the wholesale-recomputed rate fields, only ever grow.
type Snapshot struct {
	TotalReviews       int `json:"totalReviews"`
	TotalComments      int `json:"totalComments"`
	TotalCommentLength int `json:"totalCommentLength"`

	TotalPredictions   int `json:"totalPredictions"`
	CorrectPredictions int `json:"correctPredictions"`
	WinnersIdentified  int `json:"winnersIdentified"`

	FavoritesPicked      int `json:"favoritesPicked"`
	ConsiderationsPicked int `json:"considerationsPicked"`
	PassedPicked         int `json:"passedPicked"`
	IneligiblePicked     int `json:"ineligiblePicked"`
	TotalFavorites       int `json:"totalFavorites"`
	FavoriteWinners      int `json:"favoriteWinners"`

	RatingDistribution map[string]int `json:"ratingDistribution"`
	QuarterlyReviews   map[string]int `json:"quarterlyReviews"`
	ReviewsByQuarter   map[string]int `json:"reviewsByQuarter"`
	ReviewsByTimeOfDay map[string]int `json:"reviewsByTimeOfDay"`
	ReviewsByDayOfWeek map[string]int `json:"reviewsByDayOfWeek"`

	LongComments             int `json:"longComments"`
	DetailedReviews          int `json:"detailedReviews"`
	Exactly50WordComments    int `json:"exactly50WordComments"`
	PassWithComments         int `json:"passWithComments"`
	PassWithDetailedComments int `json:"passWithDetailedComments"`

	EarlyReviews     int `json:"earlyReviews"`
	NightReviews     int `json:"nightReviews"`
	LateNightReviews int `json:"lateNightReviews"`
	WeekendReviews   int `json:"weekendReviews"`

	MaxReviewsInDay int    `json:"maxReviewsInDay"`
	ReviewsToday    int    `json:"reviewsToday"`
	LastReviewDay   string `json:"lastReviewDay"` // YYYY-MM-DD

	ChangedRatings    int `json:"changedRatings"`
	FirstToReview     int `json:"firstToReview"`
	ChristmasReview   int `json:"christmasReview"`
	AnniversaryReview int `json:"anniversaryReview"`
	FourTwentyReview  int `json:"fourTwentyReview"`
	AsAMomComment     int `json:"asAMomComment"`
	NeighborWordCount int `json:"neighborWordCount"`

	BusinessesWithWebsites        int `json:"businessesWithWebsites"`
	CommunityBusinessReviews      int `json:"communityBusinessReviews"`
	TransportationBusinessReviews int `json:"transportationBusinessReviews"`

	CurrentStreak       int `json:"currentStreak"`
	LongestStreak       int `json:"longestStreak"`
	LongestWeeklyStreak int `json:"longestWeeklyStreak"`
	YearLongStreak      int `json:"yearLongStreak"`

	PerfectQuarters            int  `json:"perfectQuarters"`
	PerfectQuarterCompletion   int  `json:"perfectQuarterCompletion"`
	QuarterlyTop3              int  `json:"quarterlyTop3"`
	QuarterCompletionRate      int  `json:"quarterCompletionRate"` // 0-100
	IsChapterLeaderThisQuarter bool `json:"isChapterLeaderThisQuarter"`
	IsFoundingMember           bool `json:"isFoundingMember"`

	AccuracyRate        int       `json:"accuracyRate"`        // 0-100, derived
	AverageReviewLength int       `json:"averageReviewLength"` // derived
	LastReviewDate      time.Time `json:"lastReviewDate"`
}

// NewSnapshot returns a zeroed snapshot with the bucket maps initialized,
// so callers never have to nil-check before indexing.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		RatingDistribution: make(map[string]int),
		QuarterlyReviews:   make(map[string]int),
		ReviewsByQuarter:   make(map[string]int),
		ReviewsByTimeOfDay: make(map[string]int),
		ReviewsByDayOfWeek: make(map[string]int),
	}
}

// EnsureMaps initializes any nil bucket maps on a snapshot loaded from
// storage, where empty maps may round-trip as nil.
func (s *Snapshot) EnsureMaps() {
	if s.RatingDistribution == nil {
		s.RatingDistribution = make(map[string]int)
	}
	if s.QuarterlyReviews == nil {
		s.QuarterlyReviews = make(map[string]int)
	}
	if s.ReviewsByQuarter == nil {
		s.ReviewsByQuarter = make(map[string]int)
	}
	if s.ReviewsByTimeOfDay == nil {
		s.ReviewsByTimeOfDay = make(map[string]int)
	}
	if s.ReviewsByDayOfWeek == nil {
		s.ReviewsByDayOfWeek = make(map[string]int)
	}
}
