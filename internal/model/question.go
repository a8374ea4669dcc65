package model

import (
	"errors"
	"time"
)

// QuestionModel 题目目录数据模型
// 供历史审计记录回填缺失的题目元数据
type QuestionModel struct {
	ID                  string    `gorm:"primaryKey;type:varchar(64)"`
	Text                string    `gorm:"type:text;not null"`
	Type                string    `gorm:"type:varchar(32);not null"`
	MaxPoints           int       `gorm:"type:int"`
	PhotoRequired       bool      `gorm:"not null;default:false"`
	ActionPhotoRequired bool      `gorm:"not null;default:false"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName 指定表名
func (QuestionModel) TableName() string {
	return "questions"
}

// Validate 验证题目模型
func (qm *QuestionModel) Validate() error {
	if qm.ID == "" {
		return errors.New("question ID is required")
	}
	if qm.Text == "" {
		return errors.New("question text is required")
	}
	if qm.Type == "" {
		return errors.New("question type is required")
	}
	return nil
}
