package database

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 指向共享的远程排行榜Redis实例
var RDB *redis.Client

// Ctx 是Redis操作使用的根上下文
var Ctx = context.Background()

const remoteDialTimeout = 5 * time.Second

// InitRedis 建立与远程排行榜存储的连接并验证可达性。
// 启动时远程不可达直接panic：没有远程句柄，同步和排行榜读取都
// 无从谈起。运行期的远程中断则由健康检查降级处理，不会再panic。
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(Ctx, remoteDialTimeout)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		panic("无法连接到远程排行榜Redis: " + err.Error())
	}

	fmt.Println("远程排行榜Redis连接成功！")
}
