package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prizedraw/backend/internal/models"
	"github.com/prizedraw/backend/internal/participants"
)

func TestParticipantList(t *testing.T) {
	day := time.Date(2025, 12, 4, 0, 0, 0, 0, time.Local)
	entries := []models.ParticipantEntry{
		{
			CodeWord:         "1234",
			DisplayName:      "Ivan",
			Handle:           "ivan",
			Phone:            "+79123456789",
			RegistrationTime: time.Date(2025, 12, 4, 9, 15, 0, 0, time.Local),
		},
		{
			CodeWord:         "приз",
			DisplayName:      "Olga",
			Phone:            "+79991234567",
			RegistrationTime: time.Date(2025, 12, 4, 10, 0, 5, 0, time.Local),
		},
	}

	got := ParticipantList(day, entries)
	require.Contains(t, got, "04.12.2025")
	require.Contains(t, got, "09:15:00 | 1234 | Ivan (@ivan) | +79123456789")
	require.Contains(t, got, "10:00:05 | приз | Olga (нет username) | +79991234567")
	require.Contains(t, got, "Всего участников: 2")
}

func TestParticipantListEmpty(t *testing.T) {
	day := time.Date(2025, 12, 4, 0, 0, 0, 0, time.Local)
	got := ParticipantList(day, nil)
	require.Contains(t, got, "участников нет")
	require.Contains(t, got, "04.12.2025")
}

func TestStatsReportWithData(t *testing.T) {
	first := time.Date(2025, 11, 1, 0, 0, 0, 0, time.Local)
	last := time.Date(2025, 12, 4, 0, 0, 0, 0, time.Local)
	got := StatsReport(participants.Stats{
		Total:         120,
		DistinctDays:  30,
		DistinctUsers: 95,
		FirstDate:     &first,
		LastDate:      &last,
		LastDays: []participants.DayCount{
			{Date: last, Count: 7},
		},
	})
	require.Contains(t, got, "Всего участников: 120")
	require.Contains(t, got, "01.11.2025")
	require.Contains(t, got, "04.12.2025: 7 участников")
}

func TestStatsReportEmptyStore(t *testing.T) {
	got := StatsReport(participants.Stats{})
	require.Contains(t, got, "Всего участников: 0")
	require.Contains(t, got, "Нет данных")
	require.NotContains(t, got, "Последние дни")
}

func TestChunkShortTextSinglePart(t *testing.T) {
	parts := Chunk("короткое сообщение", 100)
	require.Equal(t, []string{"короткое сообщение"}, parts)
}

func TestChunkSplitsOnLines(t *testing.T) {
	text := strings.TrimRight(strings.Repeat("строка отчета\n", 50), "\n")
	parts := Chunk(text, 100)
	require.Greater(t, len(parts), 1)
	for _, p := range parts {
		require.LessOrEqual(t, len([]rune(p)), 100)
		require.NotEmpty(t, p)
	}
	joined := strings.Join(parts, "\n")
	require.Equal(t, strings.Count(text, "строка"), strings.Count(joined, "строка"))
}

func TestChunkHardSplitsLongLineOnRuneBoundaries(t *testing.T) {
	text := strings.Repeat("ю", 250)
	parts := Chunk(text, 100)
	require.Len(t, parts, 3)
	require.Equal(t, 100, len([]rune(parts[0])))
	require.Equal(t, 100, len([]rune(parts[1])))
	require.Equal(t, 50, len([]rune(parts[2])))
	require.Equal(t, text, strings.Join(parts, ""))
}
