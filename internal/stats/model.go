package stats

import (
	"fmt"
	"time"
)

// TimeFrame 定义了统计周期范围的枚举类型。
// 内存中始终使用该类型表示；原始字符串只出现在存储列和API边界上。
type TimeFrame string

const (
	// TimeFrameWeekly 表示按ISO周统计
	TimeFrameWeekly TimeFrame = "weekly"
	// TimeFrameMonthly 表示按日历月统计
	TimeFrameMonthly TimeFrame = "monthly"
	// TimeFrameYearly 表示按日历年统计
	TimeFrameYearly TimeFrame = "yearly"
	// TimeFrameAllTime 表示全时段累计，永不重置
	TimeFrameAllTime TimeFrame = "all_time"
)

// AllTimeFrames 按固定顺序列出所有时间范围，供全量更新遍历使用。
var AllTimeFrames = []TimeFrame{
	TimeFrameWeekly,
	TimeFrameMonthly,
	TimeFrameYearly,
	TimeFrameAllTime,
}

// ParseTimeFrame 在API/存储边界上把原始字符串还原为封闭枚举。
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch TimeFrame(s) {
	case TimeFrameWeekly, TimeFrameMonthly, TimeFrameYearly, TimeFrameAllTime:
		return TimeFrame(s), nil
	}
	return "", fmt.Errorf("无效的时间范围: %q", s)
}

// PeriodStats 定义了单个用户在单个周期内的统计聚合行。
// 不变量：每个 (user_id, time_frame, period_id) 三元组只存在一行，
// 通过 OnConflict upsert 维护，永不重复插入。
// 不变量：RepsPerMinute 永远由 TotalReps 和 TotalDurationSeconds
// 重新推导，不单独维护，避免漂移。
type PeriodStats struct {
	ID uint `gorm:"primarykey"`

	// UserID 是拥有该统计行的用户UUID
	UserID string `gorm:"index:idx_user_frame_period,unique;type:varchar(36);not null"`

	// TimeFrame 是统计周期范围，存储为原始字符串
	TimeFrame TimeFrame `gorm:"index:idx_user_frame_period,unique;type:varchar(16);not null"`

	// PeriodID 是周期标识符，例如 "2025-W01"、"2025-M01"、"2025"、"all"
	PeriodID string `gorm:"index:idx_user_frame_period,unique;type:varchar(16);not null"`

	// TotalReps 是周期内动作次数总和
	TotalReps int64

	// TotalWorkouts 是周期内训练次数（记录条数）
	TotalWorkouts int64

	// TotalDurationSeconds 是周期内训练总时长（秒）
	TotalDurationSeconds float64

	// RepsPerMinute 是派生速率：TotalReps / (TotalDurationSeconds/60)，
	// 时长为0时为0。每次聚合重新计算。
	RepsPerMinute float64

	// LastAggregatedAt 是最近一次聚合完成的时刻
	LastAggregatedAt time.Time

	// LastSyncedAt 是最近一次成功推送到远程排行榜的时刻，从未同步时为nil
	LastSyncedAt *time.Time

	// Dirty 表示该行自上次成功同步后发生过变化，等待推送
	Dirty bool `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResetCounters 在周期翻转时把所有计数器清零并推进周期标识。
// 同步时间戳保留，脏标记由随后的聚合写入统一设置。
func (ps *PeriodStats) ResetCounters(newPeriodID string) {
	ps.PeriodID = newPeriodID
	ps.TotalReps = 0
	ps.TotalWorkouts = 0
	ps.TotalDurationSeconds = 0
	ps.RepsPerMinute = 0
}
