package db

import (
	"context"
	"fmt"

	"lpstats/internal/badges"
)

func (d *DB) EarnedBadges(ctx context.Context, userID string) ([]badges.Earned, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT badge_id, name, description, category, earned_at
		FROM lp_badges WHERE user_id = $1 ORDER BY earned_at, badge_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("getting badges: %w", err)
	}
	defer rows.Close()

	var earned []badges.Earned
	for rows.Next() {
		var b badges.Earned
		if err := rows.Scan(&b.BadgeID, &b.Name, &b.Description, &b.Category, &b.EarnedAt); err != nil {
			return nil, err
		}
		earned = append(earned, b)
	}
	return earned, rows.Err()
}

// AppendBadges inserts newly earned badges. The badge list is
// append-only; re-awarding an already held badge is a no-op.
func (d *DB) AppendBadges(ctx context.Context, userID string, earned []badges.Earned) error {
	for _, b := range earned {
		_, err := d.conn.ExecContext(ctx, `
			INSERT INTO lp_badges (user_id, badge_id, name, description, category, earned_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, badge_id) DO NOTHING
		`, userID, b.BadgeID, b.Name, b.Description, b.Category, b.EarnedAt)
		if err != nil {
			return fmt.Errorf("awarding badge %s: %w", b.BadgeID, err)
		}
	}
	return nil
}
