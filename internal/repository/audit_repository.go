// Package repository 审计记录的持久化仓储
//
// 权威记录按审计 ID 寻址,写入一律是整文档替换,没有乐观并发令牌:
// 同一审计上两个并发流转以后写者胜出,这是沿用的既有行为,未做加强
package repository

import (
	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"gorm.io/gorm"
)

// AuditRepository 审计仓储接口
type AuditRepository interface {
	// Save 整文档替换保存审计
	Save(a *model.AuditModel) error
	FindByID(id string) (*model.AuditModel, error)
	FindByFilter(filter *AuditFilter) ([]*model.AuditModel, error)
}

// AuditFilter 审计查询过滤器
type AuditFilter struct {
	StoreID   *string
	AuditorID *string
	Status    *string
	Resolved  *bool
	StartTime *string
	EndTime   *string
}

// auditRepository 审计仓储实现
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository 创建审计仓储
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Save 保存审计,整行替换
func (r *auditRepository) Save(a *model.AuditModel) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return r.db.Save(a).Error
}

// FindByID 根据 ID 查找审计
func (r *auditRepository) FindByID(id string) (*model.AuditModel, error) {
	var a model.AuditModel
	if err := r.db.Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByFilter 根据过滤器查找审计
func (r *auditRepository) FindByFilter(filter *AuditFilter) ([]*model.AuditModel, error) {
	var audits []*model.AuditModel
	query := r.db.Model(&model.AuditModel{})

	if filter != nil {
		if filter.StoreID != nil {
			query = query.Where("store_id = ?", *filter.StoreID)
		}
		if filter.AuditorID != nil {
			query = query.Where("auditor_id = ?", *filter.AuditorID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.Resolved != nil {
			query = query.Where("all_actions_resolved = ?", *filter.Resolved)
		}
		if filter.StartTime != nil {
			query = query.Where("created_at >= ?", *filter.StartTime)
		}
		if filter.EndTime != nil {
			query = query.Where("created_at <= ?", *filter.EndTime)
		}
	}

	err := query.Order("created_at DESC").Find(&audits).Error
	return audits, err
}
