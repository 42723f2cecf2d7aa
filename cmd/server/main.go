package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/api"
	"github.com/SlpAus/workout-stats-sync-backend/internal/leaderboard"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/config"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/database"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/health"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/scheduler"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/shutdown"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/startup"
	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
	"github.com/SlpAus/workout-stats-sync-backend/pkg/lifecycle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("无法加载配置文件: %v", err))
	}

	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 1. 执行应用首次启动初始化流程（迁移、缓存预热）
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 2. 显式组装核心服务：存储、聚合服务、远程客户端、同步协调器、排行榜合并器
	store := stats.NewGormStore(database.DB)
	statsService, err := stats.NewService(store)
	if err != nil {
		panic(fmt.Sprintf("无法构造统计服务: %v", err))
	}
	remoteClient, err := leaderboard.NewRedisClient(database.RDB)
	if err != nil {
		panic(fmt.Sprintf("无法构造远程排行榜客户端: %v", err))
	}
	syncCoordinator, err := leaderboard.NewCoordinator(store, remoteClient)
	if err != nil {
		panic(fmt.Sprintf("无法构造同步协调器: %v", err))
	}
	rankingMerger, err := leaderboard.NewMerger(remoteClient, store)
	if err != nil {
		panic(fmt.Sprintf("无法构造排行榜合并器: %v", err))
	}

	stats.InitializeHandler(statsService)
	leaderboard.InitializeHandler(syncCoordinator, rankingMerger, cfg.Sync.DefaultTopN)
	scheduler.Configure(store, syncCoordinator)

	// 3. 阻塞式获取初始Run ID，检测离线期间的远程重启
	health.InitializeRunID()

	// 4. 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 5. 异步启动后台的持续健康检查器
	go health.StartRedisHealthCheck()

	// 6. 启动后台同步调度器，生命周期由两阶段停机管理
	gracefulManager := lifecycle.NewManager()
	forcefulManager := lifecycle.NewManager()
	schedulerHandle, err := gracefulManager.NewServiceHandle("sync-scheduler")
	if err != nil {
		panic(fmt.Sprintf("无法注册同步调度器: %v", err))
	}
	go scheduler.StartSyncScheduler(schedulerHandle, cfg.Sync.Interval)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 阻塞等待停机信号，停机前会执行最终的同步冲刷
	coordinator := shutdown.NewCoordinator(gracefulManager, forcefulManager)
	coordinator.ListenForSignalsAndShutdown(server)
}
