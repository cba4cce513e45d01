package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrDailyLimit is returned by Take when the user has exhausted their
// daily generation allowance.
var ErrDailyLimit = errors.New("daily generation limit reached")

// RateLimitRepo tracks a per-user daily generation counter. The counter
// resets when a request crosses the UTC midnight boundary. Check and
// increment are two statements; the small race window between them is
// accepted for this domain.
type RateLimitRepo struct {
	db *sql.DB
}

// Take consumes one generation from the user's daily allowance.
// It returns the remaining count after the take, or ErrDailyLimit when
// the counter is already at the limit.
func (r *RateLimitRepo) Take(ctx context.Context, userID string, limit int, now time.Time) (int, error) {
	count, lastReset, err := r.read(ctx, userID)
	if err != nil {
		return 0, err
	}

	dayStart := now.UTC().Truncate(24 * time.Hour)
	if lastReset.Before(dayStart) {
		count = 0
	}

	if count >= limit {
		return 0, ErrDailyLimit
	}

	count++
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO rate_limits (user_id, count, last_reset) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET count = excluded.count, last_reset = excluded.last_reset`,
		userID, count, now.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("update rate limit: %w", err)
	}

	return limit - count, nil
}

// Remaining reports how many generations the user has left today without
// consuming one.
func (r *RateLimitRepo) Remaining(ctx context.Context, userID string, limit int, now time.Time) (int, error) {
	count, lastReset, err := r.read(ctx, userID)
	if err != nil {
		return 0, err
	}

	dayStart := now.UTC().Truncate(24 * time.Hour)
	if lastReset.Before(dayStart) {
		count = 0
	}
	if count > limit {
		count = limit
	}
	return limit - count, nil
}

func (r *RateLimitRepo) read(ctx context.Context, userID string) (int, time.Time, error) {
	var count int
	var lastReset time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT count, last_reset FROM rate_limits WHERE user_id = ?`, userID,
	).Scan(&count, &lastReset)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, nil
	}
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("read rate limit: %w", err)
	}
	return count, lastReset, nil
}
