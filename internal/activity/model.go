package activity

import "time"

// Record 定义了一条已完成的训练活动记录。
// 它由外部的设备数据导入管道异步提供，本核心只消费、不拥有这些数据。
// 记录之间没有任何顺序保证，聚合逻辑必须与顺序无关。
type Record struct {
	// ID 是活动记录的唯一标识
	ID string `json:"id"`

	// Timestamp 是活动完成的时刻，用于周期归属判断
	Timestamp time.Time `json:"timestamp"`

	// DurationSeconds 是活动持续时长（秒）
	DurationSeconds float64 `json:"durationSeconds"`

	// Reps 是本次活动的动作次数。来源数据可能缺失该字段，
	// 缺失时按0处理。
	Reps *int64 `json:"reps"`
}

// RepsOrZero 返回记录的动作次数，缺失时返回0。
func (r Record) RepsOrZero() int64 {
	if r.Reps == nil {
		return 0
	}
	return *r.Reps
}
