package startup

import (
	"fmt"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/database"
	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/metadata"
	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
	"github.com/SlpAus/workout-stats-sync-backend/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := metadata.PrimeModule(); err != nil {
		return err
	}
	if err := user.PrimeModule(); err != nil {
		return err
	}
	if err := stats.MigrateDB(database.DB); err != nil {
		return err
	}
	fmt.Println("PeriodStats数据库表迁移成功。")

	// 簿记回顾：上次全量重推的时刻有助于判断远程状态的新鲜程度
	if at, err := metadata.GetLastFullPushAt(database.DB); err != nil {
		fmt.Printf("警告: 无法读取上次全量重推时刻: %v\n", err)
	} else if at.IsZero() {
		fmt.Println("尚未执行过全量重推。")
	} else {
		fmt.Printf("上次全量重推完成于 %s。\n", at.Format(time.RFC3339))
	}

	fmt.Println("应用初始化完成！")
	return nil
}
