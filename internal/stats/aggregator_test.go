package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/activity"
)

func intPtr(v int64) *int64 { return &v }

func sampleRecords(base time.Time) []activity.Record {
	return []activity.Record{
		{ID: "a", Timestamp: base.Add(1 * time.Hour), DurationSeconds: 120, Reps: intPtr(40)},
		{ID: "b", Timestamp: base.Add(2 * time.Hour), DurationSeconds: 180, Reps: intPtr(50)},
		{ID: "c", Timestamp: base.Add(3 * time.Hour), DurationSeconds: 60, Reps: nil}, // 缺失次数按0计
	}
}

func TestAggregate_Totals(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	totals := Aggregate(sampleRecords(base), base)

	if totals.TotalReps != 90 {
		t.Errorf("TotalReps = %d, want 90", totals.TotalReps)
	}
	if totals.TotalWorkouts != 3 {
		t.Errorf("TotalWorkouts = %d, want 3", totals.TotalWorkouts)
	}
	if totals.TotalDurationSeconds != 360 {
		t.Errorf("TotalDurationSeconds = %v, want 360", totals.TotalDurationSeconds)
	}
	// 90次 / 6分钟 = 15次/分钟
	if totals.RepsPerMinute != 15 {
		t.Errorf("RepsPerMinute = %v, want 15", totals.RepsPerMinute)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := sampleRecords(base)

	first := Aggregate(records, base)
	second := Aggregate(records, base)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("两次聚合结果不一致: %+v != %+v", first, second)
	}
}

func TestAggregate_SinceFilter(t *testing.T) {
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	records := []activity.Record{
		// 周期起始之前的记录必须被过滤掉
		{ID: "old", Timestamp: base.Add(-1 * time.Minute), DurationSeconds: 600, Reps: intPtr(999)},
		{ID: "edge", Timestamp: base, DurationSeconds: 60, Reps: intPtr(10)},
		{ID: "new", Timestamp: base.Add(time.Hour), DurationSeconds: 60, Reps: intPtr(20)},
	}

	totals := Aggregate(records, base)
	if totals.TotalReps != 30 {
		t.Errorf("TotalReps = %d, want 30 (边界记录包含，更早记录排除)", totals.TotalReps)
	}
	if totals.TotalWorkouts != 2 {
		t.Errorf("TotalWorkouts = %d, want 2", totals.TotalWorkouts)
	}
}

func TestAggregate_ZeroDurationGuard(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []activity.Record{
		{ID: "x", Timestamp: base.Add(time.Hour), DurationSeconds: 0, Reps: intPtr(100)},
	}

	totals := Aggregate(records, base)
	if totals.RepsPerMinute != 0 {
		t.Errorf("时长为0时 RepsPerMinute = %v, want 0", totals.RepsPerMinute)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	records := sampleRecords(base)
	reversed := []activity.Record{records[2], records[0], records[1]}

	if !reflect.DeepEqual(Aggregate(records, base), Aggregate(reversed, base)) {
		t.Error("聚合结果不应依赖记录顺序")
	}
}

func TestAggregate_Empty(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	totals := Aggregate(nil, base)
	if totals.TotalReps != 0 || totals.TotalWorkouts != 0 || totals.TotalDurationSeconds != 0 || totals.RepsPerMinute != 0 {
		t.Errorf("空记录集应产生全零结果: %+v", totals)
	}
}
