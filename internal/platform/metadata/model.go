package metadata

import "time"

// Metadata 是同步簿记使用的键值表。
// 行数固定且极少（结构版本、远程run_id、全量重推时刻），
// 键只会被覆盖更新，不需要软删除。
type Metadata struct {
	ID uint `gorm:"primarykey"`

	// Key 是簿记项的唯一键，见 keys.go
	Key string `gorm:"uniqueIndex;not null;type:varchar(255)"`

	// Value 是簿记项的字符串值，时间类的值以RFC3339存储
	Value string `gorm:"type:varchar(255)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
