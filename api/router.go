package api

import (
	"github.com/SlpAus/workout-stats-sync-backend/internal/leaderboard"
	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
	"github.com/SlpAus/workout-stats-sync-backend/internal/user"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 用户相关的路由组 /api/user
		userRoutes := api.Group("/user")
		{
			userRoutes.GET("/me", user.EnsureUserCookieMiddleware(), user.LoadUserMiddleware(), user.GetMe)
			userRoutes.PUT("/profile", user.LoadUserMiddleware(), user.UpdateProfile)
		}

		// 活动导入：设备数据管道把完成的训练记录批量提交到这里。
		// 导入和同步只对已注册展示信息的用户开放
		api.POST("/activities/import", user.LoadUserMiddleware(), user.RequireKnownUserMiddleware(), stats.ImportActivities)

		// 本地统计相关的路由组 /api/stats
		statsRoutes := api.Group("/stats")
		{
			statsRoutes.GET("/:timeframe", user.LoadUserMiddleware(), stats.GetStats)
			statsRoutes.POST("/sync", user.LoadUserMiddleware(), user.RequireKnownUserMiddleware(), leaderboard.TriggerSync)
		}

		// 排行榜相关的路由 /api/leaderboard
		api.GET("/leaderboard/:timeframe/:metric", user.LoadUserMiddleware(), leaderboard.GetRanking)
	}
}
