package participants

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/prizedraw/backend/internal/models"
)

func TestIsUniqueViolation(t *testing.T) {
	uniq := &pgconn.PgError{Code: "23505", ConstraintName: "idx_participants_user_date"}
	require.True(t, isUniqueViolation(uniq))
	require.True(t, isUniqueViolation(fmt.Errorf("insert participant: %w", uniq)))

	require.False(t, isUniqueViolation(&pgconn.PgError{Code: "23502"}))
	require.False(t, isUniqueViolation(errors.New("connection refused")))
	require.False(t, isUniqueViolation(nil))
}

func TestSaveResultConflicted(t *testing.T) {
	require.False(t, SaveResult{Entry: &models.ParticipantEntry{}}.Conflicted())
	require.True(t, SaveResult{Existing: &models.ParticipantEntry{}}.Conflicted())
}

func TestMidnight(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	in := time.Date(2025, 12, 4, 23, 59, 59, 1, loc)
	got := midnight(in)
	require.Equal(t, time.Date(2025, 12, 4, 0, 0, 0, 0, loc), got)
	require.Equal(t, loc, got.Location())
}
