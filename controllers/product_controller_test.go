package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/wemake/models"
	"github.com/cppla/wemake/store"
)

// fakeProductStore implements the leaderboard part of ProductStore; other methods panic.
type fakeProductStore struct {
	ProductStore
	clock store.Clock
	pages []store.Window
	page  int
}

func (f *fakeProductStore) Clock() store.Clock { return f.clock }

func (f *fakeProductStore) LeaderboardPage(_ context.Context, w store.Window, page int) (store.Page[models.Product], error) {
	f.pages = append(f.pages, w)
	f.page = page
	return store.Page[models.Product]{
		Items:      []models.Product{{ID: 1, Name: "Rocket"}},
		Pagination: store.Pagination{Page: page, PageSize: 7, Total: 1, TotalPages: 1},
	}, nil
}

func leaderboardRouter(f *fakeProductStore) *gin.Engine {
	r := gin.New()
	c := NewProductController(f)
	r.GET("/leaderboards/daily/:year/:month/:day", c.DailyLeaderboard)
	r.GET("/leaderboards/weekly/:year/:week", c.WeeklyLeaderboard)
	r.GET("/leaderboards/monthly/:year/:month", c.MonthlyLeaderboard)
	r.GET("/leaderboards/yearly/:year", c.YearlyLeaderboard)
	return r
}

func newFakeProducts() *fakeProductStore {
	now := time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)
	return &fakeProductStore{clock: store.Clock{Loc: time.UTC, Now: func() time.Time { return now }}}
}

func TestLeaderboardRejectsBadDates(t *testing.T) {
	tests := []struct {
		path   string
		status int
		code   int
	}{
		{"/leaderboards/daily/2024/06/13", http.StatusBadRequest, 40041},
		{"/leaderboards/daily/2024/02/30", http.StatusBadRequest, 40040},
		{"/leaderboards/daily/year/02/01", http.StatusBadRequest, 40040},
		{"/leaderboards/weekly/2024/25", http.StatusBadRequest, 40041},
		{"/leaderboards/weekly/2024/54", http.StatusBadRequest, 40040},
		{"/leaderboards/monthly/2024/07", http.StatusBadRequest, 40041},
		{"/leaderboards/yearly/2025", http.StatusBadRequest, 40041},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := newFakeProducts()
			w := httptest.NewRecorder()
			leaderboardRouter(f).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode(t, w).Code)
			assert.Empty(t, f.pages, "no query for a rejected window")
		})
	}
}

func TestDailyLeaderboardWindowAndPage(t *testing.T) {
	f := newFakeProducts()
	w := httptest.NewRecorder()
	leaderboardRouter(f).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboards/daily/2024/06/11?page=3", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, f.pages, 1)
	assert.Equal(t, time.Date(2024, time.June, 11, 0, 0, 0, 0, time.UTC), f.pages[0].Start)
	assert.Equal(t, time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC), f.pages[0].End)
	assert.Equal(t, 3, f.page)
	assert.Contains(t, w.Body.String(), `"total_pages":1`)
}

func TestLeaderboardBadPageFallsBackToFirst(t *testing.T) {
	f := newFakeProducts()
	w := httptest.NewRecorder()
	leaderboardRouter(f).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboards/yearly/2024?page=-2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.page)
}
