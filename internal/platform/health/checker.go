package health

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/database"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/metadata"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/scheduler"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

// getRedisRunID 从Redis服务器信息中提取run_id
func getRedisRunID() (string, error) {
	ctx, cancel := context.WithTimeout(database.Ctx, pingTimeout)
	defer cancel()
	info, err := database.RDB.Info(ctx, "server").Result()
	if err != nil {
		return "", err
	}
	re := regexp.MustCompile(`run_id:([a-f0-9]+)`)
	matches := re.FindStringSubmatch(info)
	if len(matches) < 2 {
		return "", fmt.Errorf("无法在Redis INFO中找到run_id")
	}
	return matches[1], nil
}

// InitializeRunID 在应用启动时执行一次，获取并设置初始的run_id。
// 如果当前run_id与上次成功推送时持久化的值不一致，说明远程
// 在我们离线期间重启过，排行榜数据可能已丢失——把全部本地行
// 重新标脏，让首轮同步完整重建远程状态。
func InitializeRunID() {
	fmt.Println("正在获取初始Redis Run ID...")
	runID, err := getRedisRunID()
	if err != nil {
		panic(fmt.Sprintf("无法在启动时获取Redis Run ID，请检查Redis服务: %v", err))
	}
	database.SeedRunID(runID)

	lastPersisted, err := metadata.GetLastRemoteRunID(database.DB)
	if err != nil {
		fmt.Printf("警告: 无法读取持久化的远程run_id: %v\n", err)
	} else if lastPersisted != "" && lastPersisted != runID {
		fmt.Printf("检测到远程Redis在离线期间重启 (run_id: %s -> %s)，将标记全量重推。\n", lastPersisted, runID)
		if err := scheduler.MarkAllDirtyForRebuild(); err != nil {
			fmt.Printf("警告: 标记全量重推失败: %v\n", err)
		}
	}
	if err := metadata.SetLastRemoteRunID(database.DB, runID); err != nil {
		fmt.Printf("警告: 无法持久化远程run_id: %v\n", err)
	}

	fmt.Printf("获取初始Redis Run ID成功: %s\n", runID)
}

// triggerAtomicResync 执行一次原子的、自校验的全量重推。
// 它确保只有在重推期间Redis没有再次重启的情况下，才认为重推成功。
func triggerAtomicResync(idBeforeResync string) bool {
	fmt.Println("健康检查: 正在触发排行榜全量重推...")
	if err := scheduler.ForceFullResync(context.Background()); err != nil {
		fmt.Printf("健康检查错误: 全量重推失败: %v\n", err)
		return false
	}

	// 重推后，再次检查run_id以确认原子性
	idAfterResync, err := getRedisRunID()
	if err != nil {
		fmt.Println("健康检查错误: 重推后无法连接到Redis，重推无效。")
		return false
	}

	if idBeforeResync != idAfterResync {
		fmt.Printf("健康检查错误: 重推期间检测到Redis再次重启 (run_id: %s -> %s)。重推无效。\n", idBeforeResync, idAfterResync)
		return false
	}

	if err := metadata.SetLastRemoteRunID(database.DB, idAfterResync); err != nil {
		fmt.Printf("警告: 无法持久化远程run_id: %v\n", err)
	}
	fmt.Println("健康检查: 全量重推成功并通过原子性校验。")
	return true
}

// PerformCheck 执行一次完整的健康检查和可能的修复操作。
func PerformCheck() {
	currentRunID, err := getRedisRunID()
	if err != nil {
		// 无法连接到Redis，直接标记为不可用
		database.ReportRemoteCheck(false, "")
		return
	}

	lastKnownRunID := database.LastKnownRunID()

	if currentRunID != lastKnownRunID {
		// 检测到Redis重启，排行榜数据已丢失，触发原子全量重推
		resyncSuccess := triggerAtomicResync(currentRunID)
		if resyncSuccess {
			// 只有重推成功，才更新状态为可用，并更新已知的run_id
			database.ReportRemoteCheck(true, currentRunID)
		} else {
			// 重推失败，保持不可用状态
			database.ReportRemoteCheck(false, "")
		}
	} else {
		// run_id未变，说明服务健康
		database.ReportRemoteCheck(true, currentRunID)
	}
}

// StartRedisHealthCheck 启动一个后台Goroutine来定期、阻塞式地执行健康检查。
func StartRedisHealthCheck() {
	fmt.Println("Redis健康检查器已启动。")
	// 使用 time.Timer 实现阻塞式循环
	timer := time.NewTimer(checkInterval)
	defer timer.Stop()

	for {
		<-timer.C                  // 等待定时器触发
		PerformCheck()             // 执行检查
		timer.Reset(checkInterval) // 重置定时器，从现在开始重新计时
	}
}
