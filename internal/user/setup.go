package user

import (
	"fmt"

	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/database"
)

// PrimeModule 迁移user表并重建Redis已知用户集合。
func PrimeModule() error {
	if err := database.DB.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("无法迁移user表: %w", err)
	}
	fmt.Println("User数据库表迁移成功。")
	return rebuildKnownUsers()
}

// rebuildKnownUsers 用本地数据库中的全部用户UUID原子地重建
// 已知用户集合。集合是导入与同步入口的准入依据，所以每次启动
// 整体替换而不是增量合并，防止已注销用户的陈旧成员残留。
func rebuildKnownUsers() error {
	var uuids []string
	if err := database.DB.Model(&User{}).Pluck("uuid", &uuids).Error; err != nil {
		return fmt.Errorf("无法读取用户UUID: %w", err)
	}

	pipe := database.RDB.TxPipeline()
	pipe.Del(database.Ctx, KnownUsersKey)
	if len(uuids) > 0 {
		members := make([]interface{}, len(uuids))
		for i, id := range uuids {
			members[i] = id
		}
		pipe.SAdd(database.Ctx, KnownUsersKey, members...)
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("重建已知用户集合失败: %w", err)
	}

	fmt.Printf("已知用户集合重建完成，共 %d 个用户。\n", len(uuids))
	return nil
}
