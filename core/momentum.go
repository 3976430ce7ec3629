package core

import (
	"sort"
	"time"

	"github.com/huangsam/hubtrend/schema"
)

// ComputeMomentum returns the day-over-day download growth in percent and the
// absolute download delta. Growth is 0 when yesterday had no downloads.
func ComputeMomentum(today, yesterday schema.ModelSnapshot) (float64, int64) {
	delta := today.Downloads - yesterday.Downloads
	if yesterday.Downloads == 0 {
		return 0, delta
	}
	return float64(delta) / float64(yesterday.Downloads) * 100, delta
}

// BuildFeatures pairs each model's snapshot on day with its snapshot on the
// previous day. Models without a previous snapshot get zero momentum.
// Rows are ordered by model identifier.
func BuildFeatures(snapshots []schema.ModelSnapshot, day time.Time) []schema.ModelFeatureRow {
	today := schema.TruncateDay(day)
	yesterday := today.AddDate(0, 0, -1)

	current := make(map[string]schema.ModelSnapshot)
	previous := make(map[string]schema.ModelSnapshot)
	for _, s := range snapshots {
		d := schema.TruncateDay(s.SnapshotDate)
		switch {
		case d.Equal(today):
			current[s.ModelID] = s
		case d.Equal(yesterday):
			previous[s.ModelID] = s
		}
	}

	rows := make([]schema.ModelFeatureRow, 0, len(current))
	for id, s := range current {
		row := schema.ModelFeatureRow{
			ModelID:      id,
			SnapshotDate: today,
			PipelineTag:  s.PipelineTag,
			Downloads:    s.Downloads,
			Likes:        s.Likes,
		}
		if prev, ok := previous[id]; ok {
			row.GrowthYesterday, row.DownloadsYesterday = ComputeMomentum(s, prev)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ModelID < rows[j].ModelID })
	return rows
}

// LatestSnapshotDay returns the most recent snapshot date, or the zero time.
func LatestSnapshotDay(snapshots []schema.ModelSnapshot) time.Time {
	var latest time.Time
	for _, s := range snapshots {
		if s.SnapshotDate.After(latest) {
			latest = s.SnapshotDate
		}
	}
	return schema.TruncateDay(latest)
}
