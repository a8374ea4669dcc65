// Package deadline 计算整改截止时间
// 营业日为除周日外的所有日历日
package deadline

import "time"

// BusinessDays 整改期限,单位营业日
const BusinessDays = 3

// Status 截止状态
type Status string

const (
	// StatusOK 距截止还有至少一个营业日
	StatusOK Status = "ok"
	// StatusWarning 剩余营业日为零,今天是最后期限
	StatusWarning Status = "warning"
	// StatusOverdue 已超过截止日
	StatusOverdue Status = "overdue"
)

// Due 返回完成时刻之后第 3 个营业日的对应时刻
// 逐日推进,周日不计数
func Due(completedAt time.Time) time.Time {
	d := completedAt
	count := 0
	for count < BusinessDays {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() != time.Sunday {
			count++
		}
	}
	return d
}

// StatusAt 按日粒度比较当前时间和截止时间,推导截止状态
func StatusAt(deadline, now time.Time) Status {
	today := truncateDay(now)
	due := truncateDay(deadline)
	if today.After(due) {
		return StatusOverdue
	}
	if remainingBusinessDays(today, due) == 0 {
		return StatusWarning
	}
	return StatusOK
}

// remainingBusinessDays 统计 today 之后到 due 为止的营业日数
func remainingBusinessDays(today, due time.Time) int {
	n := 0
	for d := today.AddDate(0, 0, 1); !d.After(due); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Sunday {
			n++
		}
	}
	return n
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
