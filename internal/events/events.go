package events

import "time"

// Rating is the overall judgment an LP gives a pitch.
type Rating string

const (
	RatingFavorite      Rating = "Favorite"
	RatingConsideration Rating = "Consideration"
	RatingPass          Rating = "Pass"
	RatingIneligible    Rating = "Ineligible"
)

// ValidRating reports whether r is one of the four known rating labels.
func ValidRating(r Rating) bool {
	switch r {
	case RatingFavorite, RatingConsideration, RatingPass, RatingIneligible:
		return true
	}
	return false
}

// Pitch is the slice of a pitch record the stats engine needs.
type Pitch struct {
	ID           string
	BusinessName string
	Website      string
	Description  string
	CreatedAt    time.Time
}

// Reviewer is the slice of an LP profile the stats engine needs.
type Reviewer struct {
	ID          string
	JoinedAt    time.Time
	Anniversary *time.Time
}

// ReviewEvent is emitted when an LP submits or edits a pitch review.
type ReviewEvent struct {
	ReviewID    string
	ReviewerID  string
	PitchID     string
	Rating      Rating
	Comments    string
	SubmittedAt time.Time
	IsEdit      bool
}

// WinnerDeclaration is emitted when an admin marks a pitch as a grant winner.
type WinnerDeclaration struct {
	PitchID    string
	DeclaredAt time.Time
}

// BadgeEarned is published on the bus whenever a user earns a new badge.
type BadgeEarned struct {
	UserID      string
	BadgeID     string
	Name        string
	Description string
	Category    string
	EarnedAt    time.Time
}

type Bus struct {
	BadgeEarnings chan BadgeEarned
}

func NewBus() *Bus {
	return &Bus{
		BadgeEarnings: make(chan BadgeEarned, 64),
	}
}

// Publish sends a badge notification without blocking. Notifications are
// best-effort: if the channel is full the event is dropped.
func (b *Bus) Publish(ev BadgeEarned) {
	select {
	case b.BadgeEarnings <- ev:
	default:
	}
}
