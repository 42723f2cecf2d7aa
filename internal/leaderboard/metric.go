package leaderboard

import (
	"fmt"
	"math"

	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
)

// Metric 定义了排行榜可以排序的量的封闭枚举。
// 内存中始终使用该类型；原始字符串只出现在Redis键和API边界上。
type Metric string

const (
	// MetricReps 按动作总次数排序
	MetricReps Metric = "reps"
	// MetricWorkouts 按训练次数排序
	MetricWorkouts Metric = "workouts"
	// MetricDuration 按训练总时长排序
	MetricDuration Metric = "duration"
	// MetricRate 按每分钟动作次数排序
	MetricRate Metric = "rate"
)

// AllMetrics 按固定顺序列出所有排序指标，同步写入时会为每个指标
// 更新对应的排名集合。
var AllMetrics = []Metric{MetricReps, MetricWorkouts, MetricDuration, MetricRate}

// ParseMetric 在API边界上把原始字符串还原为封闭枚举。
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricReps, MetricWorkouts, MetricDuration, MetricRate:
		return Metric(s), nil
	}
	return "", fmt.Errorf("无效的排序指标: %q", s)
}

// Unit 返回指标的展示单位。
func (m Metric) Unit() string {
	switch m {
	case MetricReps:
		return "reps"
	case MetricWorkouts:
		return "workouts"
	case MetricDuration:
		return "min"
	case MetricRate:
		return "reps/min"
	}
	return ""
}

// ValueFromDocument 从远程文档中提取该指标的原始数值。
func (m Metric) ValueFromDocument(doc Document) float64 {
	switch m {
	case MetricReps:
		return float64(doc.TotalReps)
	case MetricWorkouts:
		return float64(doc.TotalWorkouts)
	case MetricDuration:
		return doc.TotalDurationSeconds
	case MetricRate:
		return doc.Rate
	}
	return 0
}

// ValueFromStats 从本地统计行中提取该指标的原始数值。
// 用于合成排行榜窗口之外的本地占位条目。
func (m Metric) ValueFromStats(row stats.PeriodStats) float64 {
	switch m {
	case MetricReps:
		return float64(row.TotalReps)
	case MetricWorkouts:
		return float64(row.TotalWorkouts)
	case MetricDuration:
		return row.TotalDurationSeconds
	case MetricRate:
		return row.RepsPerMinute
	}
	return 0
}

// Format 把原始数值渲染为该指标的展示字符串。
// 计数类渲染为整数；时长渲染为 "{小时}h {分钟}m"（小时为0时省略）；
// 速率保留一位小数。
func (m Metric) Format(value float64) string {
	switch m {
	case MetricReps, MetricWorkouts:
		return fmt.Sprintf("%d", int64(math.Round(value)))
	case MetricDuration:
		totalMinutes := int64(value) / 60
		hours := totalMinutes / 60
		minutes := totalMinutes % 60
		if hours == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case MetricRate:
		return fmt.Sprintf("%.1f", value)
	}
	return fmt.Sprintf("%v", value)
}
