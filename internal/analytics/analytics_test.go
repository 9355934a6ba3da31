package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
)

func TestHeatmapShape(t *testing.T) {
	// Saturday.
	today := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	cells := Heatmap(nil, today)

	require.Len(t, cells, HeatmapWeeks*7)
	assert.Equal(t, time.Sunday, cells[0].Date.Weekday())
	assert.True(t, cells[len(cells)-1].Date.Equal(
		time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)),
		"a Saturday today is the last cell of its own week")

	for i := 1; i < len(cells); i++ {
		assert.Equal(t, 24*time.Hour, cells[i].Date.Sub(cells[i-1].Date))
	}
	for _, c := range cells {
		assert.Zero(t, c.Count)
	}
}

func TestHeatmapMidweekCoversFullFinalWeek(t *testing.T) {
	// Wednesday: the final column is still a full Sunday..Saturday week, so
	// the grid ends on the Saturday that closes today's week.
	today := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
	cells := Heatmap(nil, today)

	require.Len(t, cells, 84)
	assert.Equal(t, time.Sunday, cells[0].Date.Weekday())

	last := cells[len(cells)-1].Date
	assert.Equal(t, time.Saturday, last.Weekday())
	assert.Equal(t, "2026-08-29", last.Format("2006-01-02"))

	// Today falls inside the final column.
	found := false
	for _, c := range cells[len(cells)-7:] {
		if c.Date.Format("2006-01-02") == "2026-08-26" {
			found = true
		}
	}
	assert.True(t, found, "today must be inside the last week of the grid")
}

func TestHeatmapCounts(t *testing.T) {
	today := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	entries := []api.Entry{
		{ID: 1, CreatedAt: "2026-08-29T08:00:00"},
		{ID: 2, CreatedAt: "2026-08-29T21:15:00"},
		{ID: 3, CreatedAt: "2026-08-28T10:00:00"},
		{ID: 4, CreatedAt: "2026-08-21T10:00:00"},
		{ID: 5, CreatedAt: "2020-01-01T00:00:00"}, // far outside the window
		{ID: 6, CreatedAt: "garbage"},             // unparseable, skipped
	}

	cells := Heatmap(entries, today)
	byDay := map[string]int{}
	for _, c := range cells {
		byDay[c.Date.Format("2006-01-02")] = c.Count
	}

	assert.Equal(t, 2, byDay["2026-08-29"])
	assert.Equal(t, 1, byDay["2026-08-28"])
	assert.Equal(t, 1, byDay["2026-08-21"])
	assert.Equal(t, 0, byDay["2026-08-27"])
	_, inWindow := byDay["2020-01-01"]
	assert.False(t, inWindow)
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2026-08-29T08:00:00Z", true},
		{"2026-08-29T08:00:00.123456", true},
		{"2026-08-29T08:00:00", true},
		{"2026-08-29 08:00:00", true},
		{"2026-08-29", true},
		{"yesterday", false},
		{"", false},
	}
	for _, tc := range cases {
		_, ok := ParseTime(tc.in, time.UTC)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
	}
}

type fakeInsights struct {
	insights map[int]api.Insight
	calls    int
}

func (f *fakeInsights) InsightByEntry(ctx context.Context, entryID int) (api.Insight, error) {
	f.calls++
	ins, ok := f.insights[entryID]
	if !ok {
		return api.Insight{}, api.ErrNotFound
	}
	return ins, nil
}

func TestSentimentSeriesOrderAndGaps(t *testing.T) {
	src := &fakeInsights{insights: map[int]api.Insight{
		1: {EntryID: 1, Sentiment: -0.5},
		3: {EntryID: 3, Sentiment: 0.8},
	}}
	a := NewAggregator(src, nil)

	// Deliberately out of order; entry 2 has no insight yet.
	entries := []api.Entry{
		{ID: 3, CreatedAt: "2026-08-29T10:00:00"},
		{ID: 1, CreatedAt: "2026-08-27T10:00:00"},
		{ID: 2, CreatedAt: "2026-08-28T10:00:00"},
	}

	points := a.SentimentSeries(context.Background(), entries)
	require.Len(t, points, 2)
	assert.InDelta(t, -0.5, points[0].Sentiment, 1e-9)
	assert.InDelta(t, 0.8, points[1].Sentiment, 1e-9)
	assert.True(t, points[0].Date.Before(points[1].Date))

	// Input slice order is untouched.
	assert.Equal(t, 3, entries[0].ID)
}

func TestSentimentSeriesCachesInsights(t *testing.T) {
	src := &fakeInsights{insights: map[int]api.Insight{
		1: {EntryID: 1, Sentiment: 0.1},
	}}
	a := NewAggregator(src, nil)
	entries := []api.Entry{{ID: 1, CreatedAt: "2026-08-29T10:00:00"}}

	a.SentimentSeries(context.Background(), entries)
	a.SentimentSeries(context.Background(), entries)
	assert.Equal(t, 1, src.calls)

	a.Invalidate(1)
	a.SentimentSeries(context.Background(), entries)
	assert.Equal(t, 2, src.calls)
}
