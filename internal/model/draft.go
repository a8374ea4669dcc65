package model

import (
	"errors"
	"time"
)

// DraftModel 本地整改草稿数据模型
// 按 审计+分区+答案 组合主键,驻留在设备本地的 sqlite 中,
// 重载和离线期间存活
type DraftModel struct {
	AuditID      string    `gorm:"primaryKey;type:varchar(64)"`
	SectionIndex int       `gorm:"primaryKey"`
	AnswerIndex  int       `gorm:"primaryKey"`
	Note         string    `gorm:"type:text"`
	Evidence     []byte    `gorm:"type:jsonb"` // 有序证据列表
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName 指定表名
func (DraftModel) TableName() string {
	return "drafts"
}

// Validate 验证草稿模型
func (dm *DraftModel) Validate() error {
	if dm.AuditID == "" {
		return errors.New("audit ID is required")
	}
	if dm.SectionIndex < 0 || dm.AnswerIndex < 0 {
		return errors.New("draft key indexes must be non-negative")
	}
	return nil
}
