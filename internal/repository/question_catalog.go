package repository

import (
	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"gorm.io/gorm"
)

// QuestionCatalog 基于 questions 表的题目目录
// 实现 audit.Catalog,为历史记录的元数据回填提供查询
type QuestionCatalog struct {
	db *gorm.DB
}

// NewQuestionCatalog 创建题目目录
func NewQuestionCatalog(db *gorm.DB) *QuestionCatalog {
	return &QuestionCatalog{db: db}
}

// Lookup 根据题目 ID 查询目录条目,不存在时返回 false
func (c *QuestionCatalog) Lookup(questionID string) (*audit.Question, bool) {
	var qm model.QuestionModel
	if err := c.db.Where("id = ?", questionID).First(&qm).Error; err != nil {
		return nil, false
	}
	return &audit.Question{
		ID:                  qm.ID,
		Text:                qm.Text,
		Type:                audit.AnswerType(qm.Type),
		MaxPoints:           qm.MaxPoints,
		PhotoRequired:       qm.PhotoRequired,
		ActionPhotoRequired: qm.ActionPhotoRequired,
	}, true
}

// Save 保存题目目录条目
func (c *QuestionCatalog) Save(qm *model.QuestionModel) error {
	if err := qm.Validate(); err != nil {
		return err
	}
	return c.db.Save(qm).Error
}
