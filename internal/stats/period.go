package stats

import (
	"fmt"
	"time"
)

// AllTimePeriodID 是全时段范围使用的固定周期标识。
const AllTimePeriodID = "all"

// PeriodID 计算给定时刻在给定时间范围下的规范周期标识符。
// 纯函数，无副作用，对同一输入永远返回相同结果。
//
// 周范围使用ISO周历：周从周一开始，周/年配对遵循ISO week-of-year
// 约定而不是日历年，以避免第53周与1月初的归属歧义。
// 例如 2025-01-01（周三，ISO 2025年第1周）的周标识是 "2025-W01"。
func PeriodID(tf TimeFrame, instant time.Time) string {
	switch tf {
	case TimeFrameWeekly:
		isoYear, isoWeek := instant.ISOWeek()
		return fmt.Sprintf("%d-W%02d", isoYear, isoWeek)
	case TimeFrameMonthly:
		return fmt.Sprintf("%d-M%02d", instant.Year(), int(instant.Month()))
	case TimeFrameYearly:
		return fmt.Sprintf("%d", instant.Year())
	case TimeFrameAllTime:
		return AllTimePeriodID
	}
	// TimeFrame 是封闭枚举，到达这里说明调用方绕过了 ParseTimeFrame
	return AllTimePeriodID
}

// PeriodStart 计算包含给定时刻的周期的起始边界。
// 周起始是该周周一的00:00；月/年起始是1号/1月1日的00:00，
// 均在时刻自身的时区中计算；全时段返回Unix纪元。
func PeriodStart(tf TimeFrame, instant time.Time) time.Time {
	switch tf {
	case TimeFrameWeekly:
		// time.Weekday 以周日为0，换算成周一为0的偏移
		offset := (int(instant.Weekday()) + 6) % 7
		monday := instant.AddDate(0, 0, -offset)
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, instant.Location())
	case TimeFrameMonthly:
		return time.Date(instant.Year(), instant.Month(), 1, 0, 0, 0, 0, instant.Location())
	case TimeFrameYearly:
		return time.Date(instant.Year(), time.January, 1, 0, 0, 0, 0, instant.Location())
	case TimeFrameAllTime:
		return time.Unix(0, 0).UTC()
	}
	return time.Unix(0, 0).UTC()
}

// HasRolledOver 判断给定时间范围的当前周期是否已经越过了已存储的周期标识。
// 全时段永不翻转；其余范围比较当前周期标识与存储值是否一致。
func HasRolledOver(tf TimeFrame, lastKnownPeriodID string, reference time.Time) bool {
	if tf == TimeFrameAllTime {
		return false
	}
	return PeriodID(tf, reference) != lastKnownPeriodID
}
