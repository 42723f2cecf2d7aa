package metadata

import (
	"fmt"

	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/database"
)

// PrimeModule 迁移metadata表并写入当前结构版本。
func PrimeModule() error {
	if err := database.DB.AutoMigrate(&Metadata{}); err != nil {
		return fmt.Errorf("无法迁移metadata表: %w", err)
	}
	if err := SetValue(database.DB, SchemaVersionKey, CurrentSchemaVersion); err != nil {
		return fmt.Errorf("无法写入结构版本: %w", err)
	}
	fmt.Println("Metadata数据库表迁移成功。")
	return nil
}
