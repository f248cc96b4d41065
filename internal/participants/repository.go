// Package participants persists draw registrations and enforces the
// one-entry-per-user-per-day rule at the storage level.
package participants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prizedraw/backend/internal/models"
)

const dateLayout = "2006-01-02"

// NewEntry is the caller-supplied part of a registration. Date and
// registration time are computed at save time from the repository clock,
// never accepted from the caller.
type NewEntry struct {
	UserID      int64
	CodeWord    string
	DisplayName string
	Handle      string
	Phone       string
}

// SaveResult is the tagged outcome of Save: exactly one of Entry or
// Existing is set on a nil error.
type SaveResult struct {
	Entry    *models.ParticipantEntry // the saved entry, on success
	Existing *models.ParticipantEntry // the prior entry for today, on conflict
}

// Conflicted reports whether the save lost to an existing entry.
func (r SaveResult) Conflicted() bool { return r.Existing != nil }

// Repository handles participant persistence.
type Repository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewRepository creates a participants repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, now: time.Now}
}

const entryColumns = `id, date, code_word, user_id,
	COALESCE(display_name, ''), COALESCE(handle, ''), phone, registration_time, created_at`

// Save atomically inserts a registration for today. The unique index on
// (user_id, date) resolves concurrent attempts to exactly one success;
// the loser gets the winner's entry back in SaveResult.Existing.
func (r *Repository) Save(ctx context.Context, e NewEntry) (SaveResult, error) {
	now := r.now()
	day := now.Format(dateLayout)

	const q = `INSERT INTO participants (date, code_word, user_id, display_name, handle, phone, registration_time)
		VALUES ($1::date, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
		RETURNING id, created_at`

	entry := models.ParticipantEntry{
		Date:             midnight(now),
		CodeWord:         e.CodeWord,
		UserID:           e.UserID,
		DisplayName:      e.DisplayName,
		Handle:           e.Handle,
		Phone:            e.Phone,
		RegistrationTime: now,
	}
	err := r.pool.QueryRow(ctx, q, day, e.CodeWord, e.UserID, e.DisplayName, e.Handle, e.Phone, now).
		Scan(&entry.ID, &entry.CreatedAt)
	if err == nil {
		return SaveResult{Entry: &entry}, nil
	}
	if !isUniqueViolation(err) {
		return SaveResult{}, fmt.Errorf("insert participant: %w", err)
	}

	existing, lookupErr := r.entryOn(ctx, e.UserID, day)
	if lookupErr != nil {
		return SaveResult{}, fmt.Errorf("load conflicting entry: %w", lookupErr)
	}
	if existing == nil {
		// Conflict raised but the row is gone; should not happen since
		// entries are never deleted.
		return SaveResult{}, fmt.Errorf("insert participant: %w", err)
	}
	return SaveResult{Existing: existing}, nil
}

// HasEntry reports whether the user already has an entry for the given
// day. A fast pre-check only: uniqueness is guaranteed by Save, not here.
func (r *Repository) HasEntry(ctx context.Context, userID int64, day time.Time) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM participants WHERE user_id = $1 AND date = $2::date)`
	var exists bool
	if err := r.pool.QueryRow(ctx, q, userID, day.Format(dateLayout)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check entry: %w", err)
	}
	return exists, nil
}

// HasEntryToday is HasEntry against the repository clock.
func (r *Repository) HasEntryToday(ctx context.Context, userID int64) (bool, error) {
	return r.HasEntry(ctx, userID, r.now())
}

// TodayEntry returns the user's entry for today, or nil when none exists.
func (r *Repository) TodayEntry(ctx context.Context, userID int64) (*models.ParticipantEntry, error) {
	return r.entryOn(ctx, userID, r.now().Format(dateLayout))
}

func (r *Repository) entryOn(ctx context.Context, userID int64, day string) (*models.ParticipantEntry, error) {
	q := `SELECT ` + entryColumns + ` FROM participants WHERE user_id = $1 AND date = $2::date`
	var e models.ParticipantEntry
	err := r.pool.QueryRow(ctx, q, userID, day).Scan(
		&e.ID, &e.Date, &e.CodeWord, &e.UserID, &e.DisplayName, &e.Handle,
		&e.Phone, &e.RegistrationTime, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByDate returns all entries for a calendar day ordered by
// registration time ascending. No entries is an empty slice, not an error.
func (r *Repository) ListByDate(ctx context.Context, day time.Time) ([]models.ParticipantEntry, error) {
	q := `SELECT ` + entryColumns + ` FROM participants WHERE date = $1::date ORDER BY registration_time ASC`
	rows, err := r.pool.Query(ctx, q, day.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	list := []models.ParticipantEntry{}
	for rows.Next() {
		var e models.ParticipantEntry
		if err := rows.Scan(
			&e.ID, &e.Date, &e.CodeWord, &e.UserID, &e.DisplayName, &e.Handle,
			&e.Phone, &e.RegistrationTime, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// ListDates returns the distinct days that have entries, newest first.
func (r *Repository) ListDates(ctx context.Context, limit int) ([]time.Time, error) {
	const q = `SELECT DISTINCT date FROM participants ORDER BY date DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// DayCount is a per-day entry count for the stats report.
type DayCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Stats is the aggregate view of the store. FirstDate and LastDate are
// nil when the store is empty.
type Stats struct {
	Total         int        `json:"total"`
	DistinctDays  int        `json:"distinct_days"`
	DistinctUsers int        `json:"distinct_users"`
	FirstDate     *time.Time `json:"first_date,omitempty"`
	LastDate      *time.Time `json:"last_date,omitempty"`
	LastDays      []DayCount `json:"last_days"`
}

// Stats returns aggregate counts plus per-day counts for the most recent
// five days with entries.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	const q = `SELECT COUNT(*), COUNT(DISTINCT date), COUNT(DISTINCT user_id), MIN(date), MAX(date) FROM participants`
	var s Stats
	if err := r.pool.QueryRow(ctx, q).Scan(&s.Total, &s.DistinctDays, &s.DistinctUsers, &s.FirstDate, &s.LastDate); err != nil {
		return Stats{}, fmt.Errorf("stats totals: %w", err)
	}

	const recentQ = `SELECT date, COUNT(*) FROM participants GROUP BY date ORDER BY date DESC LIMIT 5`
	rows, err := r.pool.Query(ctx, recentQ)
	if err != nil {
		return Stats{}, fmt.Errorf("stats recent days: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return Stats{}, fmt.Errorf("scan day count: %w", err)
		}
		s.LastDays = append(s.LastDays, dc)
	}
	return s, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
