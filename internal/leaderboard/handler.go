package leaderboard

import (
	"net/http"
	"strconv"

	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
	"github.com/SlpAus/workout-stats-sync-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// 模块级的服务句柄，由组装根在启动时注入
var (
	coordinator *Coordinator
	merger      *Merger
	defaultTopN int
)

// InitializeHandler 注入同步协调器与排行榜合并器实例。
func InitializeHandler(coord *Coordinator, m *Merger, topN int) {
	coordinator = coord
	merger = m
	defaultTopN = topN
}

// TriggerSync 把当前用户的所有脏统计行推送到远程排行榜。
// 同一用户并发触发时，后到的调用是空操作。
func TriggerSync(c *gin.Context) {
	userID := c.GetString(user.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少用户标识"})
		return
	}

	profile, err := user.GetProfile(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请先设置展示信息再参与排行榜"})
		return
	}

	if err := coordinator.SyncDirtyStats(c.Request.Context(), userID, profile.DisplayName, profile.AvatarURL); err != nil {
		// 脏行保持脏标记，下一次同步触发会自动重试
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "synced"})
}

// GetRanking 返回指定时间范围和指标的排行榜视图。
// 远程不可用时降级为仅含本地占位条目的视图。
func GetRanking(c *gin.Context) {
	userID := c.GetString(user.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少用户标识"})
		return
	}

	tf, err := stats.ParseTimeFrame(c.Param("timeframe"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	metric, err := ParseMetric(c.Param("metric"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topN := defaultTopN
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			topN = l
		}
	}

	displayName := ""
	var avatarURL *string
	if profile, err := user.GetProfile(userID); err == nil && profile != nil {
		displayName = profile.DisplayName
		avatarURL = profile.AvatarURL
	}

	ranking, err := merger.BuildRanking(c.Request.Context(), userID, displayName, avatarURL, metric, tf, topN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ranking)
}
