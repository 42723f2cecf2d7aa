package metadata

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- 通用读写 ---

// GetValue 从metadata表中读取一个键的值，键不存在时返回空字符串。
func GetValue(db *gorm.DB, key string) (string, error) {
	var meta Metadata
	err := db.Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 键不存在时空字符串是合法的默认值
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetValue 原子地创建或更新一个键的值。
func SetValue(db *gorm.DB, key, value string) error {
	// 使用GORM的OnConflict子句执行高效的原子upsert：
	// 同键记录已存在时只更新value列。
	meta := Metadata{
		Key:   key,
		Value: value,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&meta).Error
}

// --- 带类型转换的专用助手 ---

// GetLastRemoteRunID 读取上一次成功推送时记录的远程run_id。
func GetLastRemoteRunID(db *gorm.DB) (string, error) {
	return GetValue(db, LastRemoteRunIDKey)
}

// SetLastRemoteRunID 记录远程run_id。
func SetLastRemoteRunID(db *gorm.DB, runID string) error {
	return SetValue(db, LastRemoteRunIDKey, runID)
}

// GetLastFullPushAt 读取并解析上一次全量重推的时刻，未记录时返回零值。
func GetLastFullPushAt(db *gorm.DB) (time.Time, error) {
	valueStr, err := GetValue(db, LastFullPushAtKey)
	if err != nil {
		return time.Time{}, err
	}
	if valueStr == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, valueStr)
}

// SetLastFullPushAt 记录一次全量重推完成的时刻。
func SetLastFullPushAt(db *gorm.DB, at time.Time) error {
	return SetValue(db, LastFullPushAtKey, at.Format(time.RFC3339))
}
