package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/leaderboard"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/database"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/metadata"
	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
	"github.com/SlpAus/workout-stats-sync-backend/internal/user"
	"github.com/SlpAus/workout-stats-sync-backend/pkg/lifecycle"
)

// 模块级的协作者句柄，由组装根在启动时注入
var (
	statsStore  *stats.GormStore
	coordinator *leaderboard.Coordinator
)

// Configure 注入调度器依赖的存储和同步协调器。
func Configure(store *stats.GormStore, coord *leaderboard.Coordinator) {
	statsStore = store
	coordinator = coord
}

// StartSyncScheduler 启动一个后台Goroutine来定期推送脏统计数据。
// 它接收一个lifecycle.Handle来管理其生命周期。
func StartSyncScheduler(handle *lifecycle.Handle, interval time.Duration) {
	defer handle.Close() // 确保在退出时通知管理器
	fmt.Println("统计同步调度器已启动。")

	for {
		// 使用可中断的休眠来代替ticker。
		// 这使得整个循环可以在收到停机信号时立刻从休眠中唤醒并退出。
		if err := handle.Sleep(interval); err != nil {
			fmt.Println("同步调度器: 休眠被中断，正在关闭...")
			return
		}

		if !database.RemoteAvailable() {
			fmt.Println("同步调度器: 检测到远程排行榜不可用，跳过本次推送。")
			continue
		}

		if err := RunSyncPass(handle.Ctx()); err != nil {
			// 如果错误是由于停机信号导致的，则静默退出
			if err != context.Canceled && err != context.DeadlineExceeded {
				fmt.Printf("同步调度器错误: 推送脏数据失败: %v\n", err)
			}
		}
	}
}

// RunSyncPass 对所有存在脏行的用户各执行一趟同步。
// 单个用户的失败不会阻止其余用户继续推送。
func RunSyncPass(ctx context.Context) error {
	userIDs, err := statsStore.DirtyUserIDs()
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	var firstErr error
	for _, userID := range userIDs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		displayName := "匿名用户"
		var avatarURL *string
		if profile, err := user.GetProfile(userID); err == nil && profile != nil {
			displayName = profile.DisplayName
			avatarURL = profile.AvatarURL
		}

		if err := coordinator.SyncDirtyStats(ctx, userID, displayName, avatarURL); err != nil {
			fmt.Printf("同步调度器: 用户 %s 推送失败: %v\n", userID, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// MarkAllDirtyForRebuild 只把全部本地统计行重新标脏，不立即推送。
// 用于启动阶段：首轮调度或启动后健康检查会完成实际推送。
func MarkAllDirtyForRebuild() error {
	return statsStore.MarkAllDirty()
}

// ForceFullResync 把全部本地统计行重新标脏并立即推送一遍。
// 在检测到远程Redis重启（排行榜数据丢失）后调用，
// 用完整的本地状态重建远程排行榜。
func ForceFullResync(ctx context.Context) error {
	fmt.Println("同步调度器: 开始全量重推...")
	if err := statsStore.MarkAllDirty(); err != nil {
		return err
	}
	if err := RunSyncPass(ctx); err != nil {
		return err
	}
	if err := metadata.SetLastFullPushAt(database.DB, time.Now()); err != nil {
		fmt.Printf("警告: 无法记录全量重推时刻: %v\n", err)
	}
	fmt.Println("同步调度器: 全量重推完成。")
	return nil
}
