package model

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
)

// AuditModel 审计数据模型
// Data 保存序列化后的完整审计文档,标量列仅用于索引和筛选
type AuditModel struct {
	ID                 string     `gorm:"primaryKey;type:varchar(64)"`
	StoreID            string     `gorm:"type:varchar(64);not null;index"`
	AuditorID          string     `gorm:"type:varchar(64);not null;index"`
	AuditTypeID        string     `gorm:"type:varchar(64);index"`
	Status             string     `gorm:"type:varchar(32);not null;index"` // 审计状态
	Score              int        `gorm:"type:int"`
	MaxScore           int        `gorm:"type:int"`
	AllActionsResolved bool       `gorm:"not null;default:false;index"` // 整改是否全部通过
	Data               []byte     `gorm:"type:jsonb;not null"`          // 序列化后的 Audit 文档
	CompletedAt        *time.Time `gorm:"index"`
	ActionDeadline     *time.Time `gorm:"index"` // 整改截止时间
	CreatedAt          time.Time  `gorm:"not null;index"`
	UpdatedAt          time.Time  `gorm:"not null;index"`
}

// TableName 指定表名
func (AuditModel) TableName() string {
	return "audits"
}

// Validate 验证审计模型
func (am *AuditModel) Validate() error {
	if am.ID == "" {
		return errors.New("audit ID is required")
	}
	if am.StoreID == "" {
		return errors.New("store ID is required")
	}
	if am.Status == "" {
		return errors.New("audit status is required")
	}
	if len(am.Data) == 0 {
		return errors.New("audit data is required")
	}
	return nil
}

// FromDomain 将领域审计文档序列化为数据模型
func FromDomain(a *audit.Audit) (*AuditModel, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return &AuditModel{
		ID:                 a.ID,
		StoreID:            a.StoreID,
		AuditorID:          a.AuditorID,
		AuditTypeID:        a.AuditTypeID,
		Status:             string(a.Status),
		Score:              a.Score,
		MaxScore:           a.MaxScore,
		AllActionsResolved: a.AllActionsResolved,
		Data:               data,
		CompletedAt:        a.CompletedAt,
		ActionDeadline:     a.ActionDeadline,
	}, nil
}

// ToDomain 反序列化为领域审计文档
func (am *AuditModel) ToDomain() (*audit.Audit, error) {
	var a audit.Audit
	if err := json.Unmarshal(am.Data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
