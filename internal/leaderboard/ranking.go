package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/workout-stats-sync-backend/internal/stats"
	"github.com/SlpAus/workout-stats-sync-backend/pkg/apperror"
)

// Merger 负责把远程Top-N结果与调用者自己的本地统计合并为
// 最终的排行榜视图。这是唯一一处用本地数据替补缺失远程条目的
// 读取路径。
type Merger struct {
	remote Client
	store  stats.LocalStatsStore

	now func() time.Time
}

// NewMerger 构造排行榜合并器。任一协作者为nil是致命的前置条件错误。
func NewMerger(remote Client, store stats.LocalStatsStore) (*Merger, error) {
	if remote == nil || store == nil {
		return nil, apperror.ErrNotConfigured
	}
	return &Merger{remote: remote, store: store, now: time.Now}, nil
}

// WithClock 替换合并器的时钟来源，返回合并器自身以便链式调用。
func (m *Merger) WithClock(now func() time.Time) *Merger {
	m.now = now
	return m
}

// BuildRanking 构建排行榜视图。
//
// 取远程前topN个文档，按返回顺序分配1..k的连续排名（并列保持
// 先见顺序）；调用者出现在窗口内时在对应条目上置IsCaller。
// 调用者不在窗口内但当前周期本地有统计行时，合成一个排名为k+1
// 的占位条目——这是窗口之外的近似位置，不是真实全局排名。
//
// 远程查询失败时降级为“仅本地占位、无Top-N”的视图而不是硬错误：
// 一个残缺的排行榜比没有更有用。
func (m *Merger) BuildRanking(ctx context.Context, userID string, displayName string, photoRef *string, metric Metric, tf stats.TimeFrame, topN int) (*Ranking, error) {
	docs, err := m.remote.QueryTopN(ctx, tf, metric, topN)
	if err != nil {
		// 降级路径：远程不可用时只展示本地占位
		fmt.Printf("排行榜合并器: 远程查询失败，降级为仅本地视图: %v\n", err)
		docs = nil
	}

	ranking := &Ranking{Entries: make([]RankEntry, 0, len(docs))}
	for i, doc := range docs {
		value := metric.ValueFromDocument(doc)
		entry := RankEntry{
			UserID:         doc.UserID,
			DisplayName:    doc.DisplayName,
			PhotoRef:       doc.PhotoRef,
			Rank:           i + 1,
			Value:          value,
			FormattedValue: metric.Format(value),
			IsCaller:       doc.UserID == userID,
		}
		ranking.Entries = append(ranking.Entries, entry)
		if entry.IsCaller {
			callerCopy := entry
			ranking.CallerEntry = &callerCopy
		}
	}

	if ranking.CallerEntry != nil {
		return ranking, nil
	}

	// 调用者不在窗口内：用当前周期的本地行合成占位条目
	row, err := m.store.Get(userID, tf, stats.PeriodID(tf, m.now()))
	if err != nil {
		return nil, err
	}
	if row == nil {
		// 本周期无本地数据，调用者条目保持缺失
		return ranking, nil
	}

	value := metric.ValueFromStats(*row)
	ranking.CallerEntry = &RankEntry{
		UserID:         userID,
		DisplayName:    displayName,
		PhotoRef:       photoRef,
		Rank:           len(ranking.Entries) + 1,
		Value:          value,
		FormattedValue: metric.Format(value),
		IsCaller:       true,
	}
	return ranking, nil
}
