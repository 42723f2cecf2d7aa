package user

import (
	"time"

	"gorm.io/gorm"
)

// User 定义了用户在本地数据库中的持久化模型。
// 身份和认证由外部系统负责，这里只保存同步和排行榜展示
// 所需的最小元信息。
type User struct {
	// UUID 是用户的主键，来自客户端Cookie。
	UUID string `gorm:"primarykey;type:varchar(36)"`

	// DisplayName 是推送到远程排行榜的展示名称。
	DisplayName string `gorm:"type:varchar(64)"`

	// AvatarURL 是头像引用，可以为空。
	AvatarURL *string `gorm:"type:varchar(255)"`

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
