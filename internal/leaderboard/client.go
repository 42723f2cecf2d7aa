package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
	"github.com/SlpAus/workout-stats-sync-backend/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// Client 是远程排行榜存储的抽象接口。
// 通过构造函数注入，测试可以替换为一个在指定调用上确定性
// 失败的假实现。
type Client interface {
	// WriteOne 按组合键整体覆盖写入一个文档
	WriteOne(ctx context.Context, key string, doc Document) error

	// QueryTopN 按指标降序返回当前周期的前limit个文档。
	// 对同一查询，返回顺序必须稳定。
	QueryTopN(ctx context.Context, tf stats.TimeFrame, metric Metric, limit int) ([]Document, error)
}

// --- Redis 键名构造 ---
// 这些键描述了远程Redis中排行榜数据的布局

// docsKey 是一个 Redis Hash 的键，按 (时间范围, 周期) 存储文档。
// Field: 文档组合键 {userId}_{tf}_{periodId}
// Value: Document 的JSON序列化字符串
func docsKey(tf stats.TimeFrame, periodID string) string {
	return fmt.Sprintf("leaderboard:docs:%s:%s", tf, periodID)
}

// rankKey 是一个 Redis Sorted Set 的键，按 (时间范围, 周期, 指标) 排名。
// Score: 指标的提取值
// Member: 文档组合键
func rankKey(tf stats.TimeFrame, periodID string, metric Metric) string {
	return fmt.Sprintf("leaderboard:rank:%s:%s:%s", tf, periodID, metric)
}

// RedisClient 是 Client 的go-redis实现。
type RedisClient struct {
	rdb *redis.Client

	// now 决定“当前周期”的参考时刻，测试可注入
	now func() time.Time
}

// NewRedisClient 用一个已初始化的Redis句柄构造远程客户端。
func NewRedisClient(rdb *redis.Client) (*RedisClient, error) {
	if rdb == nil {
		return nil, apperror.ErrNotConfigured
	}
	return &RedisClient{rdb: rdb, now: time.Now}, nil
}

// WithClock 替换客户端的时钟来源，返回客户端自身以便链式调用。
func (c *RedisClient) WithClock(now func() time.Time) *RedisClient {
	c.now = now
	return c
}

// WriteOne 在一个原子事务中写入文档并更新全部指标的排名集合。
// 同一键的写入是整体替换：文档JSON覆盖Hash字段，ZAdd覆盖分数。
func (c *RedisClient) WriteOne(ctx context.Context, key string, doc Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return apperror.NewRemoteError("marshal document", err)
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, docsKey(doc.TimeFrame, doc.PeriodID), key, payload)
	for _, metric := range AllMetrics {
		pipe.ZAdd(ctx, rankKey(doc.TimeFrame, doc.PeriodID, metric), redis.Z{
			Score:  metric.ValueFromDocument(doc),
			Member: key,
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperror.NewRemoteError("write document", err)
	}
	return nil
}

// QueryTopN 返回当前周期内按指标降序的前limit个文档。
// Redis对同分成员按成员名排序，同一查询的返回顺序因此是稳定的。
func (c *RedisClient) QueryTopN(ctx context.Context, tf stats.TimeFrame, metric Metric, limit int) ([]Document, error) {
	if limit <= 0 {
		return nil, nil
	}
	periodID := stats.PeriodID(tf, c.now())

	keys, err := c.rdb.ZRevRange(ctx, rankKey(tf, periodID, metric), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperror.NewRemoteError("query ranking", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	rawDocs, err := c.rdb.HMGet(ctx, docsKey(tf, periodID), keys...).Result()
	if err != nil {
		return nil, apperror.NewRemoteError("fetch documents", err)
	}

	docs := make([]Document, 0, len(keys))
	for i, raw := range rawDocs {
		if raw == nil {
			// 排名集合和文档Hash理论上同步更新；缺失的文档跳过
			fmt.Printf("排行榜警告: 找不到键 %s 对应的文档\n", keys[i])
			continue
		}
		var doc Document
		if err := json.Unmarshal([]byte(raw.(string)), &doc); err != nil {
			return nil, apperror.NewRemoteError("unmarshal document", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
