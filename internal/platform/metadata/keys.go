package metadata

// --- 本地数据库键 ---
// 这些键用于本地 metadata 表的 key 列
const (
	// SchemaVersionKey 记录本地统计库的结构版本，
	// 供将来的迁移逻辑判断升级路径。
	SchemaVersionKey = "schema_version"

	// LastRemoteRunIDKey 记录上一次成功推送时远程Redis的run_id。
	// 应用启动时与当前run_id比对：不一致说明远程在我们离线期间
	// 重启过（排行榜数据丢失），需要把全部本地行重新标脏推送。
	LastRemoteRunIDKey = "last_remote_run_id"

	// LastFullPushAtKey 记录上一次全量重推完成的时刻（RFC3339）。
	LastFullPushAtKey = "last_full_push_at"
)

// CurrentSchemaVersion 是当前代码期望的结构版本。
const CurrentSchemaVersion = "1"
