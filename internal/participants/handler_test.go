package participants

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/prizedraw/backend/internal/models"
)

type stubReader struct {
	entries []models.ParticipantEntry
	dates   []time.Time
	stats   Stats
	err     error

	gotDay   time.Time
	gotLimit int
}

func (s *stubReader) ListByDate(_ context.Context, day time.Time) ([]models.ParticipantEntry, error) {
	s.gotDay = day
	return s.entries, s.err
}

func (s *stubReader) ListDates(_ context.Context, limit int) ([]time.Time, error) {
	s.gotLimit = limit
	return s.dates, s.err
}

func (s *stubReader) Stats(_ context.Context) (Stats, error) {
	return s.stats, s.err
}

func setupRouter(store *stubReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, nil)
	r := gin.New()
	r.GET("/participants", h.ListByDate)
	r.GET("/participants/dates", h.ListDates)
	r.GET("/stats", h.GetStats)
	return r
}

func TestListByDate(t *testing.T) {
	store := &stubReader{entries: []models.ParticipantEntry{
		{ID: 1, UserID: 100, CodeWord: "весна", Phone: "+79123456789"},
	}}
	r := setupRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/participants?date=15.03.2025", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 2025, store.gotDay.Year())
	require.Equal(t, time.March, store.gotDay.Month())
	require.Equal(t, 15, store.gotDay.Day())

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Date         string                    `json:"date"`
			Total        int                       `json:"total"`
			Participants []models.ParticipantEntry `json:"participants"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "15.03.2025", body.Data.Date)
	require.Equal(t, 1, body.Data.Total)
	require.Len(t, body.Data.Participants, 1)
	require.Equal(t, "весна", body.Data.Participants[0].CodeWord)
}

func TestListByDateEmptyDayIsOK(t *testing.T) {
	store := &stubReader{entries: []models.ParticipantEntry{}}
	r := setupRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/participants?date=01.01.2025", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":0`)
}

func TestListByDateRejectsBadInput(t *testing.T) {
	r := setupRouter(&stubReader{})

	for _, q := range []string{"", "date=2025-03-15", "date=99.99.2025", "date=garbage"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/participants?"+q, nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, "query %q", q)
	}
}

func TestListByDateStoreError(t *testing.T) {
	store := &stubReader{err: errors.New("connection refused")}
	r := setupRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/participants?date=15.03.2025", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "connection refused")
}

func TestListDates(t *testing.T) {
	store := &stubReader{dates: []time.Time{
		time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}}
	r := setupRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/participants/dates", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, defaultDatesLimit, store.gotLimit)
	require.Contains(t, w.Body.String(), "16.03.2025")
	require.Contains(t, w.Body.String(), "15.03.2025")
}

func TestListDatesLimitBounds(t *testing.T) {
	store := &stubReader{}
	r := setupRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/participants/dates?limit=7", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 7, store.gotLimit)

	for _, q := range []string{"limit=0", "limit=-1", "limit=1000", "limit=abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/participants/dates?"+q, nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, "query %q", q)
	}
}

func TestGetStats(t *testing.T) {
	first := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	store := &stubReader{stats: Stats{
		Total:         42,
		DistinctDays:  3,
		DistinctUsers: 40,
		FirstDate:     &first,
		LastDate:      &last,
		LastDays:      []DayCount{{Date: last, Count: 10}},
	}}
	r := setupRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"total":42`)
	require.Contains(t, w.Body.String(), `"distinct_users":40`)
}
