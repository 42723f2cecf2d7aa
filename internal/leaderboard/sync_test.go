package leaderboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
)

// fakeLocalStore 是面向同步与合并测试的内存 LocalStatsStore。
type fakeLocalStore struct {
	mu   sync.Mutex
	rows []*stats.PeriodStats
}

func (f *fakeLocalStore) Get(userID string, tf stats.TimeFrame, periodID string) (*stats.PeriodStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.UserID == userID && row.TimeFrame == tf && row.PeriodID == periodID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLocalStore) GetCurrent(userID string, tf stats.TimeFrame) (*stats.PeriodStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID && f.rows[i].TimeFrame == tf {
			cp := *f.rows[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLocalStore) Upsert(row *stats.PeriodStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row.ID == 0 {
		row.ID = uint(len(f.rows) + 1)
	}
	cp := *row
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeLocalStore) QueryDirty(userID string) ([]stats.PeriodStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var dirty []stats.PeriodStats
	for _, row := range f.rows {
		if row.UserID == userID && row.Dirty {
			dirty = append(dirty, *row)
		}
	}
	return dirty, nil
}

func (f *fakeLocalStore) MarkSynced(ids []uint, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		for _, id := range ids {
			if row.ID == id {
				row.Dirty = false
				t := at
				row.LastSyncedAt = &t
			}
		}
	}
	return nil
}

func (f *fakeLocalStore) rowByID(id uint) *stats.PeriodStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			cp := *row
			return &cp
		}
	}
	return nil
}

// fakeRemote 记录每次写入，并可以在指定的第N次写入时失败或阻塞。
type fakeRemote struct {
	mu       sync.Mutex
	writes   []string
	failOn   int // 第failOn次WriteOne返回错误，0表示不失败
	topN     []Document
	topNErr  error
	blockCh  chan struct{} // 非nil时每次WriteOne先通知再等待放行
	notifyCh chan struct{}
}

func (f *fakeRemote) WriteOne(ctx context.Context, key string, doc Document) error {
	if f.notifyCh != nil {
		f.notifyCh <- struct{}{}
		<-f.blockCh
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, key)
	if f.failOn > 0 && len(f.writes) == f.failOn {
		return errors.New("remote write failed")
	}
	return nil
}

func (f *fakeRemote) QueryTopN(ctx context.Context, tf stats.TimeFrame, metric Metric, limit int) ([]Document, error) {
	if f.topNErr != nil {
		return nil, f.topNErr
	}
	if limit < len(f.topN) {
		return f.topN[:limit], nil
	}
	return f.topN, nil
}

func (f *fakeRemote) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func seedDirtyRows(store *fakeLocalStore, userID string, n int) {
	frames := []stats.TimeFrame{stats.TimeFrameWeekly, stats.TimeFrameMonthly, stats.TimeFrameYearly, stats.TimeFrameAllTime}
	for i := 0; i < n; i++ {
		store.Upsert(&stats.PeriodStats{
			UserID:    userID,
			TimeFrame: frames[i],
			PeriodID:  "2025-W01",
			TotalReps: int64(10 * (i + 1)),
			Dirty:     true,
		})
	}
}

func TestSyncDirtyStats_AllSucceed(t *testing.T) {
	store := &fakeLocalStore{}
	seedDirtyRows(store, "user-sync-ok", 3)
	remote := &fakeRemote{}
	syncedAt := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)

	coord, err := NewCoordinator(store, remote)
	if err != nil {
		t.Fatalf("NewCoordinator 失败: %v", err)
	}
	coord.WithClock(func() time.Time { return syncedAt })

	if err := coord.SyncDirtyStats(context.Background(), "user-sync-ok", "测试用户", nil); err != nil {
		t.Fatalf("SyncDirtyStats 失败: %v", err)
	}

	if remote.writeCount() != 3 {
		t.Errorf("远程写入次数 = %d, want 3", remote.writeCount())
	}
	for id := uint(1); id <= 3; id++ {
		row := store.rowByID(id)
		if row.Dirty {
			t.Errorf("行 %d 同步后仍为脏", id)
		}
		if row.LastSyncedAt == nil || !row.LastSyncedAt.Equal(syncedAt) {
			t.Errorf("行 %d 的同步时间不正确: %v", id, row.LastSyncedAt)
		}
	}
}

func TestSyncDirtyStats_PartialFailureMarksOnlyConfirmed(t *testing.T) {
	store := &fakeLocalStore{}
	seedDirtyRows(store, "user-sync-fail", 3)
	// 第2行写入失败，第3行不应再尝试
	remote := &fakeRemote{failOn: 2}

	coord, err := NewCoordinator(store, remote)
	if err != nil {
		t.Fatalf("NewCoordinator 失败: %v", err)
	}

	if err := coord.SyncDirtyStats(context.Background(), "user-sync-fail", "测试用户", nil); err == nil {
		t.Fatal("部分失败时 SyncDirtyStats 应返回错误")
	}

	if remote.writeCount() != 2 {
		t.Errorf("失败后应停止推送: 写入次数 = %d, want 2", remote.writeCount())
	}
	if row := store.rowByID(1); row.Dirty || row.LastSyncedAt == nil {
		t.Errorf("已确认的行 1 应被标记为已同步: %+v", row)
	}
	if row := store.rowByID(2); !row.Dirty || row.LastSyncedAt != nil {
		t.Errorf("失败的行 2 应保持脏: %+v", row)
	}
	if row := store.rowByID(3); !row.Dirty || row.LastSyncedAt != nil {
		t.Errorf("未尝试的行 3 应保持脏: %+v", row)
	}
}

func TestSyncDirtyStats_NoDirtyRowsIsNoop(t *testing.T) {
	store := &fakeLocalStore{}
	remote := &fakeRemote{}
	coord, _ := NewCoordinator(store, remote)

	if err := coord.SyncDirtyStats(context.Background(), "user-sync-clean", "测试用户", nil); err != nil {
		t.Fatalf("无脏行时 SyncDirtyStats 应成功: %v", err)
	}
	if remote.writeCount() != 0 {
		t.Errorf("无脏行时不应有任何远程写入, got %d", remote.writeCount())
	}
}

func TestSyncDirtyStats_ConcurrentCallSuppressed(t *testing.T) {
	store := &fakeLocalStore{}
	seedDirtyRows(store, "user-sync-inflight", 1)
	remote := &fakeRemote{
		blockCh:  make(chan struct{}),
		notifyCh: make(chan struct{}, 1),
	}
	coord, _ := NewCoordinator(store, remote)

	done := make(chan error, 1)
	go func() {
		done <- coord.SyncDirtyStats(context.Background(), "user-sync-inflight", "测试用户", nil)
	}()

	// 等待第一趟同步进入远程写入，确保在途槽位已被占用
	<-remote.notifyCh

	// 第二次并发调用必须被抑制为空操作，立即成功返回
	if err := coord.SyncDirtyStats(context.Background(), "user-sync-inflight", "测试用户", nil); err != nil {
		t.Errorf("被抑制的并发同步应返回nil, got %v", err)
	}

	close(remote.blockCh)
	if err := <-done; err != nil {
		t.Fatalf("第一趟同步失败: %v", err)
	}
	if remote.writeCount() != 1 {
		t.Errorf("被抑制的调用不应产生额外写入: 写入次数 = %d, want 1", remote.writeCount())
	}
}

func TestSyncDirtyStats_ContextCanceled(t *testing.T) {
	store := &fakeLocalStore{}
	seedDirtyRows(store, "user-sync-cancel", 2)
	remote := &fakeRemote{}
	coord, _ := NewCoordinator(store, remote)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := coord.SyncDirtyStats(ctx, "user-sync-cancel", "测试用户", nil); err == nil {
		t.Fatal("上下文已取消时 SyncDirtyStats 应返回错误")
	}
	if remote.writeCount() != 0 {
		t.Errorf("取消后不应发起远程写入, got %d", remote.writeCount())
	}
	if row := store.rowByID(1); !row.Dirty {
		t.Error("取消后所有行应保持脏")
	}
}
