package database

import (
	"fmt"
	"sync"
)

// remoteTracker 跟踪远程排行榜Redis的可用性与其run_id。
// 同步调度器用可用性决定是否跳过一轮推送；健康检查用run_id
// 判断远程是否重启过（排行榜数据随之丢失）。
type remoteTracker struct {
	mu        sync.RWMutex
	available bool
	runID     string
}

// 启动流程会先做一次阻塞式检查，初值乐观为可用
var remote = &remoteTracker{available: true}

// RemoteAvailable 返回远程排行榜当前是否可用。
func RemoteAvailable() bool {
	remote.mu.RLock()
	defer remote.mu.RUnlock()
	return remote.available
}

// SeedRunID 在启动时记录首次观测到的远程run_id。
func SeedRunID(runID string) {
	remote.mu.Lock()
	defer remote.mu.Unlock()
	remote.runID = runID
}

// ReportRemoteCheck 记录一次健康检查的结论。
// 状态翻转时打印一条日志；run_id只在远程可用时更新，
// 不可用期间保留旧值以便恢复后识别重启。
func ReportRemoteCheck(available bool, runID string) {
	remote.mu.Lock()
	defer remote.mu.Unlock()

	if remote.available != available {
		remote.available = available
		if available {
			fmt.Println("健康检查: 远程排行榜状态已更新为 [可用]")
		} else {
			fmt.Println("健康检查警告: 远程排行榜状态已更新为 [不可用]")
		}
	}
	if available {
		remote.runID = runID
	}
}

// LastKnownRunID 返回最近一次确认可用时的远程run_id。
func LastKnownRunID() string {
	remote.mu.RLock()
	defer remote.mu.RUnlock()
	return remote.runID
}
