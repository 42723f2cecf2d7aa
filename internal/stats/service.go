package stats

import (
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/activity"
	"github.com/SlpAus/workout-stats-sync-backend/pkg/apperror"
)

// Service 负责编排单个用户所有时间范围的统计聚合。
// 它决定周期翻转时的清零，透写本地存储，并把变更行标脏。
// 协作者通过构造函数注入，没有任何环境全局状态。
type Service struct {
	store LocalStatsStore

	// now 是可注入的时钟，测试用它固定参考时刻
	now func() time.Time
}

// NewService 构造统计服务。store为nil是致命的前置条件错误。
func NewService(store LocalStatsStore) (*Service, error) {
	if store == nil {
		return nil, apperror.ErrNotConfigured
	}
	return &Service{store: store, now: time.Now}, nil
}

// WithClock 替换服务的时钟来源，返回服务自身以便链式调用。
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// UpdateStats 对单个 (用户, 时间范围) 执行一次完整的重新聚合。
//
// 流程：计算当前周期标识；加载现存行（没有则初始化一个脏的零值行）；
// 如果存储的周期标识已被当前周期越过，先清零计数器并推进标识；
// 然后把活动记录过滤到周期起始之后，整体重新归约，透写回本地存储。
// 返回时写入已对本地读取可见——调用方在其后发起的同步或排行榜
// 查询一定能观察到新计数。
func (s *Service) UpdateStats(userID string, tf TimeFrame, records []activity.Record) (*PeriodStats, error) {
	LockUser(userID)
	defer UnlockUser(userID)

	now := s.now()
	currentPeriodID := PeriodID(tf, now)

	row, err := s.store.GetCurrent(userID, tf)
	if err != nil {
		return nil, err
	}
	if row == nil {
		// 首次聚合：新行直接以脏状态诞生，它总是需要一次同步
		row = &PeriodStats{
			UserID:    userID,
			TimeFrame: tf,
			PeriodID:  currentPeriodID,
		}
	} else if HasRolledOver(tf, row.PeriodID, now) {
		// 周期翻转：在原行上清零并推进标识，绝不把旧周期的
		// 计数合并进新周期
		row.ResetCounters(currentPeriodID)
	}

	totals := Aggregate(records, PeriodStart(tf, now))
	row.TotalReps = totals.TotalReps
	row.TotalWorkouts = totals.TotalWorkouts
	row.TotalDurationSeconds = totals.TotalDurationSeconds
	row.RepsPerMinute = totals.RepsPerMinute
	row.LastAggregatedAt = now
	row.Dirty = true

	if err := s.store.Upsert(row); err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateAllTimeFrames 对用户的全部四个时间范围各执行一次UpdateStats。
// 单个时间范围的失败不会阻止其余范围继续更新；所有失败被收集后
// 一并返回，绝不静默吞掉。
func (s *Service) UpdateAllTimeFrames(userID string, records []activity.Record) error {
	var errs []error
	for _, tf := range AllTimeFrames {
		if _, err := s.UpdateStats(userID, tf, records); err != nil {
			errs = append(errs, fmt.Errorf("时间范围 %s 聚合失败: %w", tf, err))
		}
	}
	return errors.Join(errs...)
}

// CurrentPeriodID 按服务时钟返回指定时间范围的当前周期标识。
// HTTP层合成零值行时必须用它，保证与读取路径采用同一时钟。
func (s *Service) CurrentPeriodID(tf TimeFrame) string {
	return PeriodID(tf, s.now())
}

// GetLocalStats 读取用户在当前周期的本地统计行。
// 当前周期还没有行（包括只剩过期周期的旧行）时返回 (nil, nil)，
// 调用方应把缺失理解为“本周期零活动”，而不是错误。
func (s *Service) GetLocalStats(userID string, tf TimeFrame) (*PeriodStats, error) {
	row, err := s.store.GetCurrent(userID, tf)
	if err != nil {
		return nil, err
	}
	if row == nil || row.PeriodID != PeriodID(tf, s.now()) {
		return nil, nil
	}
	return row, nil
}
