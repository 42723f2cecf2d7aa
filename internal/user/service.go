package user

import (
	"errors"
	"fmt"

	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateProvisionalUser 生成一个临时的、尚未持久化的新用户UUID。
// 这个UUID将被设置到cookie中，但此时尚未被持久化。
func CreateProvisionalUser() (string, error) {
	newUUID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("无法生成UUID v7: %w", err)
	}
	return newUUID.String(), nil
}

// IsValidUUID 检查一个字符串是否是合法的UUID格式。
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// GetProfile 读取用户的展示信息，不存在时返回 (nil, nil)。
func GetProfile(uuidStr string) (*User, error) {
	var u User
	err := database.DB.Where("uuid = ?", uuidStr).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("无法从数据库读取用户 %s: %w", uuidStr, err)
	}
	return &u, nil
}

// UpsertProfile 持久化用户的展示信息，并把UUID加入Redis已知用户缓存。
// 同一UUID重复写入时只更新展示字段。
func UpsertProfile(uuidStr, displayName string, avatarURL *string) error {
	u := User{
		UUID:        uuidStr,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uuid"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "avatar_url", "updated_at"}),
	}).Create(&u).Error
	if err != nil {
		return fmt.Errorf("无法持久化用户 %s 的展示信息: %w", uuidStr, err)
	}

	// 缓存写入失败不致命：已知用户校验在未命中时会回退本地数据库，
	// 下一次启动的重建也会补齐
	if err := database.RDB.SAdd(database.Ctx, KnownUsersKey, uuidStr).Err(); err != nil {
		fmt.Printf("警告: 无法将用户 %s 加入已知用户集合: %v\n", uuidStr, err)
	}
	return nil
}

// IsKnownUser 判断一个UUID是否属于已注册展示信息的用户。
// 优先查Redis已知用户集合；集合未命中或远程不可用时回退本地
// 数据库确认，命中后把成员补回集合。
func IsKnownUser(uuidStr string) (bool, error) {
	known, err := database.RDB.SIsMember(database.Ctx, KnownUsersKey, uuidStr).Result()
	if err == nil && known {
		return true, nil
	}

	// 集合未命中不代表用户不存在：远程可能重启过
	profile, dbErr := GetProfile(uuidStr)
	if dbErr != nil {
		return false, dbErr
	}
	if profile == nil {
		return false, nil
	}

	if err := database.RDB.SAdd(database.Ctx, KnownUsersKey, uuidStr).Err(); err != nil {
		fmt.Printf("警告: 无法回填用户 %s 到已知用户集合: %v\n", uuidStr, err)
	}
	return true, nil
}
