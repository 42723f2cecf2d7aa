package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
	"github.com/SlpAus/workout-stats-sync-backend/pkg/apperror"
)

// Coordinator 负责把本地的脏统计行推送到远程排行榜存储。
// 每个用户同一时刻最多只有一趟同步在途：并发的第二次调用
// 会被抑制为空操作，绝不会真正并行执行。
type Coordinator struct {
	store  stats.LocalStatsStore
	remote Client

	inflightMu sync.Mutex
	inflight   map[string]bool

	now func() time.Time
}

// NewCoordinator 构造同步协调器。任一协作者为nil是致命的前置条件错误。
func NewCoordinator(store stats.LocalStatsStore, remote Client) (*Coordinator, error) {
	if store == nil || remote == nil {
		return nil, apperror.ErrNotConfigured
	}
	return &Coordinator{
		store:    store,
		remote:   remote,
		inflight: make(map[string]bool),
		now:      time.Now,
	}, nil
}

// WithClock 替换协调器的时钟来源，返回协调器自身以便链式调用。
func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

// tryAcquire 尝试占用该用户的在途槽位，已占用时返回false。
func (c *Coordinator) tryAcquire(userID string) bool {
	c.inflightMu.Lock()
	defer c.inflightMu.Unlock()
	if c.inflight[userID] {
		return false
	}
	c.inflight[userID] = true
	return true
}

func (c *Coordinator) release(userID string) {
	c.inflightMu.Lock()
	defer c.inflightMu.Unlock()
	delete(c.inflight, userID)
}

// SyncDirtyStats 把用户所有脏统计行逐一推送到远程排行榜。
//
// 整个“读脏行—推送—回写”过程持有该用户的统计写锁，聚合写入
// 不会与之交错，远程网络调用是锁内唯一会阻塞的操作。
// 推送中途失败（包括上下文取消）时放弃剩余行：已确认写入的行
// 在一次本地回写中清除脏标记并记录同步时间，未确认的行保持脏，
// 等待下一次同步重发——远程写入是整体覆盖，重发是安全的。
func (c *Coordinator) SyncDirtyStats(ctx context.Context, userID string, displayName string, photoRef *string) error {
	if !c.tryAcquire(userID) {
		// 已有一趟同步在途，本次调用抑制为空操作
		fmt.Printf("同步协调器: 用户 %s 已有同步在途，跳过本次触发。\n", userID)
		return nil
	}
	defer c.release(userID)

	stats.LockUser(userID)
	defer stats.UnlockUser(userID)

	rows, err := c.store.QueryDirty(userID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	var pushErr error
	confirmed := make([]uint, 0, len(rows))
	for _, row := range rows {
		select {
		case <-ctx.Done():
			pushErr = apperror.NewRemoteError("sync canceled", ctx.Err())
		default:
		}
		if pushErr != nil {
			break
		}

		key := DocumentKey(row.UserID, row.TimeFrame, row.PeriodID)
		doc := DocumentFromStats(row, displayName, photoRef)
		if err := c.remote.WriteOne(ctx, key, doc); err != nil {
			pushErr = err
			break
		}
		confirmed = append(confirmed, row.ID)
	}

	// 只把已确认写入远程的行标记为已同步，且在一次本地写入中完成。
	// 失败行保持脏标记，下一次同步自动重试。
	markErr := c.store.MarkSynced(confirmed, c.now())

	if pushErr != nil || markErr != nil {
		return errors.Join(pushErr, markErr)
	}
	return nil
}
