package stats

import (
	"net/http"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/activity"
	"github.com/SlpAus/workout-stats-sync-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// 模块级的服务句柄，由组装根在启动时注入
var service *Service

// InitializeHandler 注入统计服务实例，供HTTP处理函数使用。
func InitializeHandler(svc *Service) {
	service = svc
}

// --- API响应模型 ---

// PeriodStatsResponse 是单个周期统计行的API表示
type PeriodStatsResponse struct {
	TimeFrame            string     `json:"timeFrame"`
	PeriodID             string     `json:"periodId"`
	TotalReps            int64      `json:"totalReps"`
	TotalWorkouts        int64      `json:"totalWorkouts"`
	TotalDurationSeconds float64    `json:"totalDurationSeconds"`
	RepsPerMinute        float64    `json:"repsPerMinute"`
	LastAggregatedAt     *time.Time `json:"lastAggregatedAt"`
	LastSyncedAt         *time.Time `json:"lastSyncedAt"`
	Dirty                bool       `json:"dirty"`
}

func formatStats(row *PeriodStats) PeriodStatsResponse {
	resp := PeriodStatsResponse{
		TimeFrame:            string(row.TimeFrame),
		PeriodID:             row.PeriodID,
		TotalReps:            row.TotalReps,
		TotalWorkouts:        row.TotalWorkouts,
		TotalDurationSeconds: row.TotalDurationSeconds,
		RepsPerMinute:        row.RepsPerMinute,
		LastSyncedAt:         row.LastSyncedAt,
		Dirty:                row.Dirty,
	}
	if !row.LastAggregatedAt.IsZero() {
		at := row.LastAggregatedAt
		resp.LastAggregatedAt = &at
	}
	return resp
}

// ImportActivitiesRequest 是设备导入管道提交活动记录的请求体
type ImportActivitiesRequest struct {
	Records []activity.Record `json:"records" binding:"required"`
}

// ImportActivities 接收一批活动记录并对全部时间范围重新聚合。
// 单个时间范围失败不会阻止其余范围更新；任何失败都会在响应中呈现。
func ImportActivities(c *gin.Context) {
	userID := c.GetString(user.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少用户标识"})
		return
	}

	var req ImportActivitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体: " + err.Error()})
		return
	}

	if err := service.UpdateAllTimeFrames(userID, req.Records); err != nil {
		// 部分时间范围可能已经成功更新，错误信息里包含全部失败明细
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": len(req.Records)})
}

// GetStats 返回用户在指定时间范围、当前周期的本地统计。
// 当前周期还没有数据时返回一个零值行，缺失不是错误。
func GetStats(c *gin.Context) {
	userID := c.GetString(user.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少用户标识"})
		return
	}

	tf, err := ParseTimeFrame(c.Param("timeframe"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := service.GetLocalStats(userID, tf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if row == nil {
		// 本周期零活动，周期标识取自服务时钟，与读取路径一致
		row = &PeriodStats{
			UserID:    userID,
			TimeFrame: tf,
			PeriodID:  service.CurrentPeriodID(tf),
		}
	}

	c.JSON(http.StatusOK, formatStats(row))
}
