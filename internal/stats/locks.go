package stats

import "sync"

// userLocks 是模块内部的按用户互斥锁表。
// 对单个用户统计行的写入（聚合写入、同步回写）必须串行化：
// 翻转清零不能与“读取全部脏行”的同步过程交错，否则同步可能把
// 一个清了一半的行推送到远程。
type userLockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var globalUserLocks = &userLockTable{locks: make(map[string]*sync.Mutex)}

func (t *userLockTable) get(userID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[userID] = l
	}
	return l
}

// LockUser 获取指定用户的写锁。
// 同步协调器在“读脏行—推送—回写”整个单元期间持有它。
func LockUser(userID string) {
	globalUserLocks.get(userID).Lock()
}

// UnlockUser 释放指定用户的写锁。
func UnlockUser(userID string) {
	globalUserLocks.get(userID).Unlock()
}
