package session

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Range limits history queries to recent snapshots.
type Range string

// History ranges.
const (
	RangeWeek  Range = "7d"
	RangeMonth Range = "30d"
	RangeAll   Range = "all"
)

const day = 24 * time.Hour

// ParseRange parses "7d", "30d" or "all". Empty input means all.
func ParseRange(s string) (Range, error) {
	switch Range(strings.ToLower(strings.TrimSpace(s))) {
	case RangeWeek:
		return RangeWeek, nil
	case RangeMonth:
		return RangeMonth, nil
	case RangeAll, "":
		return RangeAll, nil
	default:
		return "", fmt.Errorf("invalid range %q (expected 7d, 30d or all)", s)
	}
}

// Window returns the lookback duration, or zero for RangeAll.
func (r Range) Window() time.Duration {
	switch r {
	case RangeWeek:
		return 7 * day
	case RangeMonth:
		return 30 * day
	default:
		return 0
	}
}

// HistoryFilter selects snapshots for listing.
type HistoryFilter struct {
	Range Range
	Query string
	Now   time.Time
}

// SortedByCreated returns snapshots newest first. Equal timestamps are
// ordered by id, so the result does not depend on insertion order.
func (s State) SortedByCreated() []Snapshot {
	out := make([]Snapshot, len(s.Snapshots))
	copy(out, s.Snapshots)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Filter returns the snapshots matching f, newest first. The query matches
// label, note or tags, case-insensitively.
func (s State) Filter(f HistoryFilter) []Snapshot {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	window := f.Range.Window()
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var out []Snapshot
	for _, snap := range s.SortedByCreated() {
		if window > 0 && now.Sub(snap.CreatedAt) > window {
			continue
		}
		if query != "" && !matches(snap, query) {
			continue
		}
		out = append(out, snap)
	}
	return out
}

func matches(snap Snapshot, query string) bool {
	if strings.Contains(strings.ToLower(snap.Label), query) ||
		strings.Contains(strings.ToLower(snap.Note), query) {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(snap.Tags, " ")), query)
}

// TrendPoint is one point on the footprint-over-time series.
type TrendPoint struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	TotalTons float64   `json:"total_tons"`
}

// Trend returns the given snapshots as a series ordered oldest first.
func Trend(snaps []Snapshot) []TrendPoint {
	points := make([]TrendPoint, 0, len(snaps))
	for _, snap := range snaps {
		points = append(points, TrendPoint{
			ID:        snap.ID,
			Label:     snap.Label,
			CreatedAt: snap.CreatedAt,
			TotalTons: snap.Response.Breakdown.TotalMetricTons,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].CreatedAt.Before(points[j].CreatedAt)
	})
	return points
}
