package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lpstats/internal/engine"
	"lpstats/internal/events"
)

func (d *DB) SavePitch(ctx context.Context, pitch events.Pitch) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO pitches (id, business_name, website, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			business_name = $2, website = $3, description = $4
	`, pitch.ID, pitch.BusinessName, pitch.Website, pitch.Description, pitch.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting pitch: %w", err)
	}
	return nil
}

func (d *DB) Pitch(ctx context.Context, pitchID string) (events.Pitch, error) {
	var p events.Pitch
	err := d.conn.QueryRowContext(ctx, `
		SELECT id, business_name, website, description, created_at
		FROM pitches WHERE id = $1
	`, pitchID).Scan(&p.ID, &p.BusinessName, &p.Website, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return events.Pitch{}, fmt.Errorf("pitch %s not found", pitchID)
	}
	if err != nil {
		return events.Pitch{}, fmt.Errorf("getting pitch: %w", err)
	}
	return p, nil
}

func (d *DB) RecordReview(ctx context.Context, rec engine.ReviewRecord) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO reviews (review_id, reviewer_id, pitch_id, rating, comments, submitted_at, is_edit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rec.ReviewID, rec.ReviewerID, rec.PitchID, string(rec.Rating), rec.Comments, rec.SubmittedAt, rec.IsEdit)
	if err != nil {
		return fmt.Errorf("recording review: %w", err)
	}
	return nil
}

// ReviewsByPitch returns each reviewer's most recent review of a pitch.
func (d *DB) ReviewsByPitch(ctx context.Context, pitchID string) ([]engine.ReviewRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT DISTINCT ON (reviewer_id)
			review_id, reviewer_id, pitch_id, rating, comments, submitted_at, is_edit
		FROM reviews
		WHERE pitch_id = $1
		ORDER BY reviewer_id, submitted_at DESC
	`, pitchID)
	if err != nil {
		return nil, fmt.Errorf("getting reviews for pitch: %w", err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

// ReviewsByReviewer returns a reviewer's full history, oldest first.
func (d *DB) ReviewsByReviewer(ctx context.Context, reviewerID string) ([]engine.ReviewRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT review_id, reviewer_id, pitch_id, rating, comments, submitted_at, is_edit
		FROM reviews
		WHERE reviewer_id = $1
		ORDER BY submitted_at
	`, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("getting reviews for reviewer: %w", err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

func scanReviews(rows *sql.Rows) ([]engine.ReviewRecord, error) {
	var recs []engine.ReviewRecord
	for rows.Next() {
		var rec engine.ReviewRecord
		var rating string
		if err := rows.Scan(&rec.ReviewID, &rec.ReviewerID, &rec.PitchID, &rating,
			&rec.Comments, &rec.SubmittedAt, &rec.IsEdit); err != nil {
			return nil, err
		}
		rec.Rating = events.Rating(rating)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// MarkWinner inserts a winner row. Reports false when the pitch was
// already declared, so the caller can skip re-crediting reviewers.
func (d *DB) MarkWinner(ctx context.Context, pitchID string, declaredAt time.Time) (bool, error) {
	res, err := d.conn.ExecContext(ctx, `
		INSERT INTO winners (pitch_id, declared_at)
		VALUES ($1, $2)
		ON CONFLICT (pitch_id) DO NOTHING
	`, pitchID, declaredAt)
	if err != nil {
		return false, fmt.Errorf("marking winner: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("marking winner: %w", err)
	}
	return n > 0, nil
}

func (d *DB) Winners(ctx context.Context) (map[string]bool, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT pitch_id FROM winners`)
	if err != nil {
		return nil, fmt.Errorf("getting winners: %w", err)
	}
	defer rows.Close()

	winners := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		winners[id] = true
	}
	return winners, rows.Err()
}
