package user

// --- Redis 键名常量 ---

const (
	// KnownUsersKey 是一个 Redis Set 的键，缓存所有已持久化的用户UUID。
	// 导入与同步入口用它校验UUID是否已注册，避免每个请求都打到
	// SQLite。启动时全量重建，注册时增量追加。
	KnownUsersKey = "user:known"
)
