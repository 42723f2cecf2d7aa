package leaderboard

import (
	"fmt"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
)

// Document 定义了推送到远程排行榜存储的逻辑文档结构。
// 同一个键的重复写入永远是整体覆盖，不是增量累加，
// 因此重试不会造成重复计数。
type Document struct {
	UserID               string          `json:"userId"`
	DisplayName          string          `json:"displayName"`
	PhotoRef             *string         `json:"photoRef"`
	TimeFrame            stats.TimeFrame `json:"timeFrame"`
	PeriodID             string          `json:"periodId"`
	TotalReps            int64           `json:"totalReps"`
	TotalWorkouts        int64           `json:"totalWorkouts"`
	TotalDurationSeconds float64         `json:"totalDurationSeconds"`
	Rate                 float64         `json:"rate"`
	LastAggregatedAt     time.Time       `json:"lastAggregatedAt"`
}

// DocumentKey 构造远程文档的组合键 {userId}_{timeFrame}_{periodId}。
// 该键保证按周期幂等覆盖：重新同步同一周期总是整体替换。
func DocumentKey(userID string, tf stats.TimeFrame, periodID string) string {
	return fmt.Sprintf("%s_%s_%s", userID, tf, periodID)
}

// DocumentFromStats 由本地统计行和用户展示信息构造远程文档。
func DocumentFromStats(row stats.PeriodStats, displayName string, photoRef *string) Document {
	return Document{
		UserID:               row.UserID,
		DisplayName:          displayName,
		PhotoRef:             photoRef,
		TimeFrame:            row.TimeFrame,
		PeriodID:             row.PeriodID,
		TotalReps:            row.TotalReps,
		TotalWorkouts:        row.TotalWorkouts,
		TotalDurationSeconds: row.TotalDurationSeconds,
		Rate:                 row.RepsPerMinute,
		LastAggregatedAt:     row.LastAggregatedAt,
	}
}

// RankEntry 是排行榜视图中的一个只读条目。
// 排名从1开始、连续，按数值降序分配；并列时保持远程返回的
// 先见顺序，不做二次重排。
type RankEntry struct {
	UserID         string  `json:"userId"`
	DisplayName    string  `json:"displayName"`
	PhotoRef       *string `json:"photoRef"`
	Rank           int     `json:"rank"`
	Value          float64 `json:"value"`
	FormattedValue string  `json:"formattedValue"`
	IsCaller       bool    `json:"isCaller"`
}

// Ranking 是一次排行榜合并的最终结果。
// CallerEntry 在调用者位于Top-N内时指向Entries中对应条目的副本；
// 调用者不在窗口内但本地有数据时是一个合成的占位条目，
// 其排名为 已取条目数+1 —— 这是一个刻意保留的近似值，
// 不是真实的全局排名。
type Ranking struct {
	Entries     []RankEntry `json:"entries"`
	CallerEntry *RankEntry  `json:"callerEntry"`
}
