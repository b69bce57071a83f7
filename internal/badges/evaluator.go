package badges

import (
	"log"
	"time"

	"lpstats/internal/stats"
)

// Earned is one badge held by a user. Entries are append-only: once
// earned, a badge is never revoked or rewritten.
type Earned struct {
	BadgeID     string    `json:"badgeId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	EarnedAt    time.Time `json:"earnedDate"`
}

// Evaluator runs the static registry against a snapshot. The registry is
// injected at construction and never mutated, so a single Evaluator is
// safe for concurrent use.
type Evaluator struct {
	registry []Definition
}

func NewEvaluator(registry []Definition) *Evaluator {
	return &Evaluator{registry: registry}
}

// Evaluate returns the badges newly earned by this snapshot, in registry
// order, skipping any already in alreadyEarned. A check that panics is
// treated as not-earned and logged; one bad definition never aborts the
// rest of the pass.
func (e *Evaluator) Evaluate(s *stats.Snapshot, ctx UserContext, alreadyEarned map[BadgeID]bool, now time.Time) []Earned {
	var earned []Earned
	for _, def := range e.registry {
		if alreadyEarned[def.ID] {
			continue
		}
		if !safeCheck(def, s, ctx) {
			continue
		}
		earned = append(earned, Earned{
			BadgeID:     string(def.ID),
			Name:        def.Name,
			Description: def.Description,
			Category:    string(def.Category),
			EarnedAt:    now,
		})
	}
	return earned
}

// ProgressReport is the progress of one badge toward being earned.
type ProgressReport struct {
	BadgeID     string  `json:"badgeId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Hidden      bool    `json:"hidden"`
	Earned      bool    `json:"earned"`
	Progress    float64 `json:"progress"`
}

// ProgressAll reports progress for every badge in registry order. Hidden
// badges that are not yet earned expose their hidden description instead
// of the real one.
func (e *Evaluator) ProgressAll(s *stats.Snapshot, ctx UserContext, alreadyEarned map[BadgeID]bool) []ProgressReport {
	reports := make([]ProgressReport, 0, len(e.registry))
	for _, def := range e.registry {
		r := ProgressReport{
			BadgeID:     string(def.ID),
			Name:        def.Name,
			Description: def.Description,
			Category:    string(def.Category),
			Hidden:      def.Hidden,
			Earned:      alreadyEarned[def.ID],
			Progress:    safeProgress(def, s, ctx),
		}
		if def.Hidden && !r.Earned {
			r.Description = def.HiddenDescription
		}
		reports = append(reports, r)
	}
	return reports
}

func safeCheck(def Definition, s *stats.Snapshot, ctx UserContext) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Badges] check %s panicked: %v (skipping)\n", def.ID, r)
			ok = false
		}
	}()
	return def.Check(s, ctx)
}

func safeProgress(def Definition, s *stats.Snapshot, ctx UserContext) (p float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Badges] progress %s panicked: %v (reporting 0)\n", def.ID, r)
			p = 0
		}
	}()
	return clamp(def.Progress(s, ctx))
}
