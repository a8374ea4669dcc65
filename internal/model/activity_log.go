package model

import (
	"errors"
	"time"
)

// ActivityLogModel 整改活动日志数据模型
// 每次流程流转记录一条,供看板和通知生成消费
type ActivityLogModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	ActorID   string    `gorm:"type:varchar(64);not null;index"`
	Action    string    `gorm:"type:varchar(64);not null;index"` // complete/submit/approve/reject/revert_rejection/revert_approval/upload/delete_evidence
	AuditID   string    `gorm:"type:varchar(64);not null;index"`
	Details   []byte    `gorm:"type:jsonb"` // 操作详情
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (ActivityLogModel) TableName() string {
	return "activity_logs"
}

// Validate 验证活动日志模型
func (alm *ActivityLogModel) Validate() error {
	if alm.ID == "" {
		return errors.New("activity log ID is required")
	}
	if alm.ActorID == "" {
		return errors.New("actor ID is required")
	}
	if alm.Action == "" {
		return errors.New("action is required")
	}
	if alm.AuditID == "" {
		return errors.New("audit ID is required")
	}
	return nil
}
