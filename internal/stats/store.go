package stats

import (
	"errors"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/database"
	"github.com/SlpAus/workout-stats-sync-backend/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocalStatsStore 是统计服务消费的本地持久化存储接口。
// 通过构造函数注入，测试可以用确定性的内存实现替换它。
type LocalStatsStore interface {
	// Get 按完整键读取一行，不存在时返回 (nil, nil)
	Get(userID string, tf TimeFrame, periodID string) (*PeriodStats, error)

	// GetCurrent 读取 (user, timeFrame) 的现存行（周期可能已过期），
	// 不存在时返回 (nil, nil)。翻转检查依赖它拿到旧周期标识。
	GetCurrent(userID string, tf TimeFrame) (*PeriodStats, error)

	// Upsert 写入一行。同一 (user, timeFrame, periodID) 永远只保留一行。
	Upsert(row *PeriodStats) error

	// QueryDirty 返回该用户所有等待同步的脏行
	QueryDirty(userID string) ([]PeriodStats, error)

	// MarkSynced 把指定行标记为已同步并记录同步时间。
	// 只应包含已确认写入远程的行。
	MarkSynced(ids []uint, at time.Time) error
}

// GormStore 是 LocalStatsStore 的GORM实现，支撑SQLite和Postgres两种驱动。
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 用一个已初始化的GORM句柄构造存储实现。
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// MigrateDB 负责自动迁移统计表结构
func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&PeriodStats{}); err != nil {
		return apperror.NewStorageError("migrate period_stats", err)
	}
	return nil
}

const (
	maxRetry   = 3
	retryDelay = 50 * time.Millisecond
)

// withRetry 在SQLite busy/locked这类短暂错误上重试写操作。
func withRetry(fn func() error) error {
	var err error
	for i := 0; i < maxRetry; i++ {
		err = fn()
		if err == nil || !database.IsRetryableError(err) {
			break
		}
		time.Sleep(retryDelay)
	}
	return err
}

func (s *GormStore) Get(userID string, tf TimeFrame, periodID string) (*PeriodStats, error) {
	var row PeriodStats
	err := s.db.Where("user_id = ? AND time_frame = ? AND period_id = ?", userID, string(tf), periodID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewStorageError("get period stats", err)
	}
	return &row, nil
}

func (s *GormStore) GetCurrent(userID string, tf TimeFrame) (*PeriodStats, error) {
	var row PeriodStats
	err := s.db.Where("user_id = ? AND time_frame = ?", userID, string(tf)).Order("id desc").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewStorageError("get current period stats", err)
	}
	return &row, nil
}

func (s *GormStore) Upsert(row *PeriodStats) error {
	err := withRetry(func() error {
		if row.ID != 0 {
			// 已加载的行（包括周期在原行上推进的翻转路径）按主键更新
			return s.db.Save(row).Error
		}
		// 新行使用 OnConflict 保证组合键唯一，模拟原子的upsert
		return s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "time_frame"}, {Name: "period_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_reps", "total_workouts", "total_duration_seconds",
				"reps_per_minute", "last_aggregated_at", "dirty", "updated_at",
			}),
		}).Create(row).Error
	})
	if err != nil {
		return apperror.NewStorageError("upsert period stats", err)
	}
	return nil
}

func (s *GormStore) QueryDirty(userID string) ([]PeriodStats, error) {
	var rows []PeriodStats
	err := s.db.Where("user_id = ? AND dirty = ?", userID, true).Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, apperror.NewStorageError("query dirty rows", err)
	}
	return rows, nil
}

func (s *GormStore) MarkSynced(ids []uint, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	err := withRetry(func() error {
		return s.db.Model(&PeriodStats{}).Where("id IN ?", ids).
			Updates(map[string]interface{}{"dirty": false, "last_synced_at": at}).Error
	})
	if err != nil {
		return apperror.NewStorageError("mark rows synced", err)
	}
	return nil
}

// DirtyUserIDs 返回当前存在脏行的所有用户，供后台调度器遍历。
func (s *GormStore) DirtyUserIDs() ([]string, error) {
	var ids []string
	err := s.db.Model(&PeriodStats{}).Where("dirty = ?", true).Distinct().Pluck("user_id", &ids).Error
	if err != nil {
		return nil, apperror.NewStorageError("query dirty users", err)
	}
	return ids, nil
}

// MarkAllDirty 把所有统计行重新标记为脏。
// 在检测到远程Redis重启（排行榜数据丢失）后调用，
// 下一轮同步会把完整的本地状态重新推送上去。
func (s *GormStore) MarkAllDirty() error {
	err := withRetry(func() error {
		return s.db.Model(&PeriodStats{}).Where("dirty = ?", false).
			Update("dirty", true).Error
	})
	if err != nil {
		return apperror.NewStorageError("mark all rows dirty", err)
	}
	return nil
}
