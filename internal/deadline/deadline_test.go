package deadline_test

import (
	"testing"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/deadline"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

// TestDue 测试截止日计算,周日不计入营业日
func TestDue(t *testing.T) {
	tests := []struct {
		name      string
		completed time.Time
		want      time.Time
	}{
		// 周一完成:二、三、四 → 周四
		{"周一完成", date(2025, time.January, 6), date(2025, time.January, 9)},
		// 周四完成:五、六、(日跳过)、一 → 下周一
		{"周四完成", date(2025, time.January, 9), date(2025, time.January, 13)},
		// 周五完成:六、(日跳过)、一、二 → 下周二
		{"周五完成", date(2025, time.January, 10), date(2025, time.January, 14)},
		// 周六完成:(日跳过)、一、二、三 → 下周三
		{"周六完成", date(2025, time.January, 11), date(2025, time.January, 15)},
		// 周日完成:一、二、三 → 周三
		{"周日完成", date(2025, time.January, 12), date(2025, time.January, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deadline.Due(tt.completed)
			assert.Equal(t, tt.want.Year(), got.Year())
			assert.Equal(t, tt.want.Month(), got.Month())
			assert.Equal(t, tt.want.Day(), got.Day())
			assert.NotEqual(t, time.Sunday, got.Weekday())
		})
	}
}

// TestStatusAt 测试截止状态按日粒度推导
func TestStatusAt(t *testing.T) {
	// 截止日:2025-01-13 周一
	due := date(2025, time.January, 13)

	tests := []struct {
		name string
		now  time.Time
		want deadline.Status
	}{
		{"还剩一个营业日", date(2025, time.January, 11), deadline.StatusOK},
		{"周日剩下周一", date(2025, time.January, 12), deadline.StatusOK},
		{"截止日当天", date(2025, time.January, 13), deadline.StatusWarning},
		{"已超期", date(2025, time.January, 14), deadline.StatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deadline.StatusAt(due, tt.now))
		})
	}
}

// TestStatusAt_SameDayIgnoresClock 测试同一日内时刻不影响状态
func TestStatusAt_SameDayIgnoresClock(t *testing.T) {
	due := time.Date(2025, time.January, 13, 9, 0, 0, 0, time.UTC)
	// 当天晚于截止时刻仍算最后期限,而非超期
	now := time.Date(2025, time.January, 13, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, deadline.StatusWarning, deadline.StatusAt(due, now))
}
