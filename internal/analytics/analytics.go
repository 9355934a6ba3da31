// Package analytics derives the activity heatmap and the per-entry
// sentiment series from the raw entry list. The heavy lifting (sentiment
// scoring, theming, summarization) happens on the backend; this package
// only buckets dates and assembles series.
package analytics

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/GregorioSC/Journaling-Companion/internal/api"
)

// HeatmapWeeks is the number of trailing Sunday-aligned weeks in the
// activity grid.
const HeatmapWeeks = 12

// DayCount is one heatmap cell: a local calendar day and the number of
// entries created on it.
type DayCount struct {
	Date  time.Time
	Count int
}

// Point is one sample of the sentiment series.
type Point struct {
	Date      time.Time
	Sentiment float64
}

// Heatmap buckets entries by local calendar day and projects 12 full
// Sunday-aligned weeks (7×12) covering today, ending on the Saturday that
// closes the current week. Days with no entries default to zero. The result
// is always exactly 84 sequential days; renderers chunk it into weekly
// columns.
func Heatmap(entries []api.Entry, today time.Time) []DayCount {
	loc := today.Location()
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		created, ok := ParseTime(e.CreatedAt, loc)
		if !ok {
			continue
		}
		counts[dayKey(created.In(loc))]++
	}

	// Walk back to the Sunday that starts the 12-week window.
	start := day.AddDate(0, 0, -((HeatmapWeeks-1)*7 + int(day.Weekday())))

	cells := make([]DayCount, 0, HeatmapWeeks*7)
	for i := 0; i < HeatmapWeeks*7; i++ {
		d := start.AddDate(0, 0, i)
		cells = append(cells, DayCount{Date: d, Count: counts[dayKey(d)]})
	}
	return cells
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseTime parses the backend's created_at formats. The backend is not
// strict about timezone suffixes, so try the common shapes in order.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InsightSource is the slice of the API client the aggregator needs.
type InsightSource interface {
	InsightByEntry(ctx context.Context, entryID int) (api.Insight, error)
}

// Aggregator assembles the sentiment series, caching insights briefly so
// repeat visits to the analytics view don't refetch every entry.
type Aggregator struct {
	src   InsightSource
	cache *cache.Cache
	log   *zap.Logger
}

func NewAggregator(src InsightSource, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{
		src:   src,
		cache: cache.New(10*time.Minute, time.Minute),
		log:   log,
	}
}

// SentimentSeries fetches the insight for each entry, in entry creation
// order. Entries whose fetch fails (typically not analyzed yet) are dropped
// rather than represented as zero, so the series length is at most the
// entry count.
func (a *Aggregator) SentimentSeries(ctx context.Context, entries []api.Entry) []Point {
	ordered := make([]api.Entry, len(entries))
	copy(ordered, entries)
	sortByCreatedAt(ordered)

	points := make([]Point, 0, len(ordered))
	for _, e := range ordered {
		ins, err := a.insight(ctx, e.ID)
		if err != nil {
			a.log.Debug("skipping entry without insight",
				zap.Int("entry_id", e.ID), zap.Error(err))
			continue
		}
		created, _ := ParseTime(e.CreatedAt, time.Local)
		points = append(points, Point{Date: created, Sentiment: ins.Sentiment})
	}
	return points
}

func (a *Aggregator) insight(ctx context.Context, entryID int) (api.Insight, error) {
	key := strconv.Itoa(entryID)
	if cached, ok := a.cache.Get(key); ok {
		return cached.(api.Insight), nil
	}
	ins, err := a.src.InsightByEntry(ctx, entryID)
	if err != nil {
		return api.Insight{}, err
	}
	a.cache.Set(key, ins, cache.DefaultExpiration)
	return ins, nil
}

// Invalidate drops the cached insight for an entry, e.g. after a re-analyze.
func (a *Aggregator) Invalidate(entryID int) {
	a.cache.Delete(strconv.Itoa(entryID))
}

func sortByCreatedAt(entries []api.Entry) {
	// ISO timestamps sort lexicographically.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt < entries[j].CreatedAt
	})
}
