package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamesByDate(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"player_id":"trout","game_date":"2025-06-15","at_bats":4,"hits":2}]`))
	}))
	defer srv.Close()

	c := NewWithOpts(Opts{
		Endpoints: []string{srv.URL},
		APIKey:    "sekrit",
	})

	lines, err := c.GamesByDate(context.Background(), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "trout", lines[0].PlayerID)
	assert.Equal(t, uint32(4), lines[0].AtBats)
	assert.Equal(t, "Bearer sekrit", gotAuth)
	assert.Equal(t, "/v1/games?date=2025-06-15", gotPath)
}

func TestGamesByDateRotatesPastFailedEndpoint(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer good.Close()

	c := NewWithOpts(Opts{Endpoints: []string{bad.URL, good.URL}})

	lines, err := c.GamesByDate(context.Background(), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGamesByDateAllBreakersOpen(t *testing.T) {
	c := NewWithOpts(Opts{
		Endpoints:       []string{"http://feed-a.invalid", "http://feed-b.invalid"},
		BreakerFailures: 1,
		BreakerCooldown: time.Hour,
	})
	for _, ep := range c.endpoints {
		c.noteFailure(ep)
	}

	// With every breaker open no request is even attempted; that must be an
	// error, not a clean zero-game day.
	_, err := c.GamesByDate(context.Background(), time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}
