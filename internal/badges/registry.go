package badges

import (
	"time"

	"lpstats/internal/stats"
)

type BadgeID string

type Category string

const (
	CategoryMilestones Category = "milestones"
	CategoryEngagement Category = "engagement"
	CategoryAccuracy   Category = "accuracy"
	CategoryTiming     Category = "timing"
	CategoryPatterns   Category = "patterns"
	CategoryGeneral    Category = "general"
	CategoryElite      Category = "elite"
	CategoryStreak     Category = "streak"
	CategoryEasterEgg  Category = "easter_egg"
)

// UserContext carries the per-user fields badge checks need beyond the
// snapshot itself. BadgeCount is the number of badges earned before the
// current evaluation pass; elite badges read it, so a pass's own awards
// never count toward thresholds until the next pass.
type UserContext struct {
	Now        time.Time
	JoinedAt   time.Time
	BadgeCount int
}

// Definition is one entry in the static badge registry. Check decides
// whether the badge is earned; Progress reports completion in [0,1] for
// progress bars and must tolerate a zeroed snapshot.
type Definition struct {
	ID                BadgeID
	Category          Category
	Name              string
	Description       string
	Hidden            bool
	HiddenDescription string
	Check             func(s *stats.Snapshot, ctx UserContext) bool
	Progress          func(s *stats.Snapshot, ctx UserContext) float64
}

const (
	BadgeFirstReview      BadgeID = "first_review"
	BadgeTenReviews       BadgeID = "ten_reviews"
	BadgeTwentyFive       BadgeID = "twenty_five_reviews"
	BadgeFiftyReviews     BadgeID = "fifty_reviews"
	BadgeCenturyClub      BadgeID = "century_club"
	BadgeCommentator      BadgeID = "commentator"
	BadgeEssayist         BadgeID = "essayist"
	BadgeDeepDiver        BadgeID = "deep_diver"
	BadgeConstructivePass BadgeID = "constructive_pass"
	BadgeThoroughSkeptic  BadgeID = "thorough_skeptic"
	BadgeTalentScout      BadgeID = "talent_scout"
	BadgeKingmaker        BadgeID = "kingmaker"
	BadgeSharpEye         BadgeID = "sharp_eye"
	BadgeOracle           BadgeID = "oracle"
	BadgeEarlyBird        BadgeID = "early_bird"
	BadgeNightOwl         BadgeID = "night_owl"
	BadgeInsomniac        BadgeID = "insomniac"
	BadgeWeekendWarrior   BadgeID = "weekend_warrior"
	BadgeHolidaySpirit    BadgeID = "holiday_spirit"
	BadgeAnniversary      BadgeID = "anniversary_review"
	BadgeFourTwenty       BadgeID = "four_twenty"
	BadgeMarathoner       BadgeID = "marathoner"
	BadgeAroundTheClock   BadgeID = "around_the_clock"
	BadgeFullWeek         BadgeID = "full_week"
	BadgeQuarterMachine   BadgeID = "quarter_machine"
	BadgeWebsiteChecker   BadgeID = "website_checker"
	BadgeCommunityChamp   BadgeID = "community_champion"
	BadgeTransitAdvocate  BadgeID = "transit_advocate"
	BadgeFoundingMember   BadgeID = "founding_member"
	BadgeChapterLeader    BadgeID = "chapter_leader"
	BadgePerfectQuarter   BadgeID = "perfect_quarter"
	BadgeQuarterlyTop3    BadgeID = "quarterly_top3"
	BadgeOneYearLP        BadgeID = "one_year_lp"
	BadgeBronzeLP         BadgeID = "bronze_lp"
	BadgeSilverLP         BadgeID = "silver_lp"
	BadgeGoldLP           BadgeID = "gold_lp"
	BadgeStreak3          BadgeID = "streak_3"
	BadgeStreak7          BadgeID = "streak_7"
	BadgeStreak30         BadgeID = "streak_30"
	BadgeYearLong         BadgeID = "year_long_streak"
	BadgeAsAMom           BadgeID = "as_a_mom"
	BadgeGoodNeighbor     BadgeID = "good_neighbor"
	BadgeExactly50        BadgeID = "word_count_perfectionist"
	BadgeMindChanger      BadgeID = "mind_changer"
	BadgeFirstResponder   BadgeID = "first_responder"
)

// Registry is the full badge catalog in award-notification order. It is
// built once at package init and never mutated afterwards.
var Registry = buildRegistry()

func buildRegistry() []Definition {
	return []Definition{
		// milestones
		counter(BadgeFirstReview, CategoryMilestones, "First Review",
			"Submit your first pitch review",
			func(s *stats.Snapshot) int { return s.TotalReviews }, 1),
		counter(BadgeTenReviews, CategoryMilestones, "Getting Started",
			"Review 10 pitches",
			func(s *stats.Snapshot) int { return s.TotalReviews }, 10),
		counter(BadgeTwentyFive, CategoryMilestones, "Regular",
			"Review 25 pitches",
			func(s *stats.Snapshot) int { return s.TotalReviews }, 25),
		counter(BadgeFiftyReviews, CategoryMilestones, "Dedicated Reviewer",
			"Review 50 pitches",
			func(s *stats.Snapshot) int { return s.TotalReviews }, 50),
		counter(BadgeCenturyClub, CategoryMilestones, "Century Club",
			"Review 100 pitches",
			func(s *stats.Snapshot) int { return s.TotalReviews }, 100),

		// engagement
		counter(BadgeCommentator, CategoryEngagement, "Commentator",
			"Leave comments on 10 reviews",
			func(s *stats.Snapshot) int { return s.TotalComments }, 10),
		counter(BadgeEssayist, CategoryEngagement, "Essayist",
			"Write 5 comments over 100 characters",
			func(s *stats.Snapshot) int { return s.LongComments }, 5),
		counter(BadgeDeepDiver, CategoryEngagement, "Deep Diver",
			"Write 10 detailed reviews of 300+ characters",
			func(s *stats.Snapshot) int { return s.DetailedReviews }, 10),
		counter(BadgeConstructivePass, CategoryEngagement, "Constructive Pass",
			"Explain your reasoning on 5 Pass ratings",
			func(s *stats.Snapshot) int { return s.PassWithComments }, 5),
		counter(BadgeThoroughSkeptic, CategoryEngagement, "Thorough Skeptic",
			"Leave 3 detailed comments on Pass ratings",
			func(s *stats.Snapshot) int { return s.PassWithDetailedComments }, 3),

		// accuracy
		counter(BadgeTalentScout, CategoryAccuracy, "Talent Scout",
			"Rate a pitch highly before it wins a grant",
			func(s *stats.Snapshot) int { return s.WinnersIdentified }, 1),
		counter(BadgeKingmaker, CategoryAccuracy, "Kingmaker",
			"Pick 3 grant winners as Favorites",
			func(s *stats.Snapshot) int { return s.FavoriteWinners }, 3),
		{
			ID: BadgeSharpEye, Category: CategoryAccuracy, Name: "Sharp Eye",
			Description: "Reach 75% prediction accuracy over 5+ predictions",
			Check: func(s *stats.Snapshot, _ UserContext) bool {
				return s.TotalPredictions >= 5 && s.AccuracyRate >= 75
			},
			Progress: func(s *stats.Snapshot, _ UserContext) float64 {
				return clamp(float64(s.AccuracyRate) / 75 * ratio(s.TotalPredictions, 5))
			},
		},
		{
			ID: BadgeOracle, Category: CategoryAccuracy, Name: "Oracle",
			Description: "Reach 90% prediction accuracy over 10+ predictions",
			Check: func(s *stats.Snapshot, _ UserContext) bool {
				return s.TotalPredictions >= 10 && s.AccuracyRate >= 90
			},
			Progress: func(s *stats.Snapshot, _ UserContext) float64 {
				return clamp(float64(s.AccuracyRate) / 90 * ratio(s.TotalPredictions, 10))
			},
		},

		// timing
		counter(BadgeEarlyBird, CategoryTiming, "Early Bird",
			"Review 5 pitches within 48 hours of submission",
			func(s *stats.Snapshot) int { return s.EarlyReviews }, 5),
		counter(BadgeNightOwl, CategoryTiming, "Night Owl",
			"Review 10 pitches between 10pm and 5am",
			func(s *stats.Snapshot) int { return s.NightReviews }, 10),
		counter(BadgeInsomniac, CategoryTiming, "Insomniac",
			"Review 5 pitches between 2am and 4am",
			func(s *stats.Snapshot) int { return s.LateNightReviews }, 5),
		counter(BadgeWeekendWarrior, CategoryTiming, "Weekend Warrior",
			"Review 10 pitches on weekends",
			func(s *stats.Snapshot) int { return s.WeekendReviews }, 10),
		counter(BadgeHolidaySpirit, CategoryTiming, "Holiday Spirit",
			"Review a pitch on December 25th",
			func(s *stats.Snapshot) int { return s.ChristmasReview }, 1),
		counter(BadgeAnniversary, CategoryTiming, "Full Circle",
			"Review a pitch on your own anniversary",
			func(s *stats.Snapshot) int { return s.AnniversaryReview }, 1),
		hiddenCounter(BadgeFourTwenty, CategoryTiming, "Nice",
			"Review a pitch at exactly 4:20pm",
			func(s *stats.Snapshot) int { return s.FourTwentyReview }, 1),

		// patterns
		counter(BadgeMarathoner, CategoryPatterns, "Marathoner",
			"Review 5 pitches in a single day",
			func(s *stats.Snapshot) int { return s.MaxReviewsInDay }, 5),
		{
			ID: BadgeAroundTheClock, Category: CategoryPatterns, Name: "Around the Clock",
			Description: "Review in the morning, afternoon, evening and night",
			Check: func(s *stats.Snapshot, _ UserContext) bool {
				return bucketsCovered(s.ReviewsByTimeOfDay, 4)
			},
			Progress: func(s *stats.Snapshot, _ UserContext) float64 {
				return ratio(nonZeroBuckets(s.ReviewsByTimeOfDay), 4)
			},
		},
		{
			ID: BadgeFullWeek, Category: CategoryPatterns, Name: "Full Week",
			Description: "Review on all seven days of the week",
			Check: func(s *stats.Snapshot, _ UserContext) bool {
				return bucketsCovered(s.ReviewsByDayOfWeek, 7)
			},
			Progress: func(s *stats.Snapshot, _ UserContext) float64 {
				return ratio(nonZeroBuckets(s.ReviewsByDayOfWeek), 7)
			},
		},
		{
			ID: BadgeQuarterMachine, Category: CategoryPatterns, Name: "Quarter Machine",
			Description: "Review 20 pitches in a single quarter",
			Check: func(s *stats.Snapshot, _ UserContext) bool {
				return maxBucket(s.QuarterlyReviews) >= 20
			},
			Progress: func(s *stats.Snapshot, _ UserContext) float64 {
				return ratio(maxBucket(s.QuarterlyReviews), 20)
			},
		},

		// general
		counter(BadgeWebsiteChecker, CategoryGeneral, "Due Diligence",
			"Review 10 businesses that have websites",
			func(s *stats.Snapshot) int { return s.BusinessesWithWebsites }, 10),
		counter(BadgeCommunityChamp, CategoryGeneral, "Community Champion",
			"Review 5 community-focused businesses",
			func(s *stats.Snapshot) int { return s.CommunityBusinessReviews }, 5),
		counter(BadgeTransitAdvocate, CategoryGeneral, "Transit Advocate",
			"Review 3 transportation businesses",
			func(s *stats.Snapshot) int { return s.TransportationBusinessReviews }, 3),
		boolBadge(BadgeFoundingMember, CategoryGeneral, "Founding Member",
			"Be part of the founding LP cohort",
			func(s *stats.Snapshot) bool { return s.IsFoundingMember }),
		boolBadge(BadgeChapterLeader, CategoryGeneral, "Chapter Leader",
			"Lead your chapter in reviews this quarter",
			func(s *stats.Snapshot) bool { return s.IsChapterLeaderThisQuarter }),
		counter(BadgePerfectQuarter, CategoryGeneral, "Perfect Quarter",
			"Complete every assigned review in a quarter",
			func(s *stats.Snapshot) int { return s.PerfectQuarters }, 1),
		counter(BadgeQuarterlyTop3, CategoryGeneral, "Podium Finish",
			"Finish a quarter in the top 3 reviewers",
			func(s *stats.Snapshot) int { return s.QuarterlyTop3 }, 1),
		{
			ID: BadgeOneYearLP, Category: CategoryGeneral, Name: "One Year In",
			Description: "Stay active for a full year after joining",
			Check: func(s *stats.Snapshot, ctx UserContext) bool {
				return s.TotalReviews > 0 && !ctx.JoinedAt.IsZero() &&
					ctx.Now.Sub(ctx.JoinedAt) >= 365*24*time.Hour
			},
			Progress: func(s *stats.Snapshot, ctx UserContext) float64 {
				if ctx.JoinedAt.IsZero() || s.TotalReviews == 0 {
					return 0
				}
				return clamp(ctx.Now.Sub(ctx.JoinedAt).Hours() / (365 * 24))
			},
		},

		// elite: thresholds read the pre-pass earned count, never the
		// snapshot, so awards from the current pass don't self-count.
		eliteBadge(BadgeBronzeLP, "Bronze LP", "Earn 10 badges", 10),
		eliteBadge(BadgeSilverLP, "Silver LP", "Earn 20 badges", 20),
		eliteBadge(BadgeGoldLP, "Gold LP", "Earn 30 badges", 30),

		// streak
		counter(BadgeStreak3, CategoryStreak, "Warming Up",
			"Review on 3 consecutive days",
			func(s *stats.Snapshot) int { return s.LongestStreak }, 3),
		counter(BadgeStreak7, CategoryStreak, "On a Roll",
			"Review on 7 consecutive days",
			func(s *stats.Snapshot) int { return s.LongestStreak }, 7),
		counter(BadgeStreak30, CategoryStreak, "Unrelenting",
			"Review on 30 consecutive days",
			func(s *stats.Snapshot) int { return s.LongestStreak }, 30),
		counter(BadgeYearLong, CategoryStreak, "Perennial",
			"Keep a review streak alive for a year",
			func(s *stats.Snapshot) int { return s.YearLongStreak }, 1),

		// easter eggs
		hiddenCounter(BadgeAsAMom, CategoryEasterEgg, "As a Mom",
			`Write "as a mom" in a review comment`,
			func(s *stats.Snapshot) int { return s.AsAMomComment }, 1),
		hiddenCounter(BadgeGoodNeighbor, CategoryEasterEgg, "Good Neighbor",
			`Mention "neighbor" 10 times across your comments`,
			func(s *stats.Snapshot) int { return s.NeighborWordCount }, 10),
		hiddenCounter(BadgeExactly50, CategoryEasterEgg, "Word Count Perfectionist",
			"Write a comment of exactly 50 words",
			func(s *stats.Snapshot) int { return s.Exactly50WordComments }, 1),
		hiddenCounter(BadgeMindChanger, CategoryEasterEgg, "Mind Changer",
			"Change your rating on 5 reviews",
			func(s *stats.Snapshot) int { return s.ChangedRatings }, 5),
		hiddenCounter(BadgeFirstResponder, CategoryEasterEgg, "First Responder",
			"Be the first LP to review 3 pitches",
			func(s *stats.Snapshot) int { return s.FirstToReview }, 3),
	}
}

// counter builds the common threshold-over-a-counter badge shape.
func counter(id BadgeID, cat Category, name, desc string, get func(*stats.Snapshot) int, threshold int) Definition {
	return Definition{
		ID: id, Category: cat, Name: name, Description: desc,
		Check: func(s *stats.Snapshot, _ UserContext) bool {
			return get(s) >= threshold
		},
		Progress: func(s *stats.Snapshot, _ UserContext) float64 {
			return ratio(get(s), threshold)
		},
	}
}

func hiddenCounter(id BadgeID, cat Category, name, desc string, get func(*stats.Snapshot) int, threshold int) Definition {
	d := counter(id, cat, name, desc, get, threshold)
	d.Hidden = true
	d.HiddenDescription = "Hidden badge. Keep reviewing to find out."
	return d
}

func boolBadge(id BadgeID, cat Category, name, desc string, get func(*stats.Snapshot) bool) Definition {
	return Definition{
		ID: id, Category: cat, Name: name, Description: desc,
		Check: func(s *stats.Snapshot, _ UserContext) bool { return get(s) },
		Progress: func(s *stats.Snapshot, _ UserContext) float64 {
			if get(s) {
				return 1
			}
			return 0
		},
	}
}

func eliteBadge(id BadgeID, name, desc string, threshold int) Definition {
	return Definition{
		ID: id, Category: CategoryElite, Name: name, Description: desc,
		Check: func(_ *stats.Snapshot, ctx UserContext) bool {
			return ctx.BadgeCount >= threshold
		},
		Progress: func(_ *stats.Snapshot, ctx UserContext) float64 {
			return ratio(ctx.BadgeCount, threshold)
		},
	}
}

func ratio(n, target int) float64 {
	if target <= 0 {
		return 1
	}
	return clamp(float64(n) / float64(target))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func bucketsCovered(m map[string]int, want int) bool {
	return nonZeroBuckets(m) >= want
}

func nonZeroBuckets(m map[string]int) int {
	n := 0
	for _, v := range m {
		if v > 0 {
			n++
		}
	}
	return n
}

func maxBucket(m map[string]int) int {
	max := 0
	for _, v := range m {
		if v > max {
			max = v
		}
	}
	return max
}
