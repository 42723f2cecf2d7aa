package stats

import (
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/activity"
)

// AggregateTotals 是一次聚合归约的输出字段集合。
type AggregateTotals struct {
	TotalReps            int64
	TotalWorkouts        int64
	TotalDurationSeconds float64
	RepsPerMinute        float64
}

// Aggregate 把活动记录集合归约为周期统计字段。
// 只统计时间戳不早于since（周期起始）的记录；缺失的次数字段按0计。
//
// 该函数是纯函数且必须可幂等重跑：同样的输入两次调用产生
// 逐位相同的输出。周期翻转后的重算依赖这一点——统计永远从
// 原始记录整体重新推导，而不是增量修补，避免部分更新造成漂移。
func Aggregate(records []activity.Record, since time.Time) AggregateTotals {
	var totals AggregateTotals
	for _, rec := range records {
		if rec.Timestamp.Before(since) {
			continue
		}
		totals.TotalReps += rec.RepsOrZero()
		totals.TotalWorkouts++
		totals.TotalDurationSeconds += rec.DurationSeconds
	}
	totals.RepsPerMinute = computeRate(totals.TotalReps, totals.TotalDurationSeconds)
	return totals
}

// computeRate 计算每分钟动作次数，时长为0时返回0而不是NaN。
func computeRate(totalReps int64, totalDurationSeconds float64) float64 {
	if totalDurationSeconds <= 0 {
		return 0
	}
	return float64(totalReps) / (totalDurationSeconds / 60.0)
}
