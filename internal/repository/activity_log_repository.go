package repository

import (
	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"gorm.io/gorm"
)

// ActivityLogRepository 活动日志仓储接口
type ActivityLogRepository interface {
	Save(log *model.ActivityLogModel) error
	FindByAuditID(auditID string) ([]*model.ActivityLogModel, error)
	FindByActorID(actorID string) ([]*model.ActivityLogModel, error)
}

// activityLogRepository 活动日志仓储实现
type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository 创建活动日志仓储
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

// Save 保存活动日志
func (r *activityLogRepository) Save(log *model.ActivityLogModel) error {
	return r.db.Save(log).Error
}

// FindByAuditID 根据审计 ID 查找活动日志
func (r *activityLogRepository) FindByAuditID(auditID string) ([]*model.ActivityLogModel, error) {
	var logs []*model.ActivityLogModel
	err := r.db.Where("audit_id = ?", auditID).Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// FindByActorID 根据操作人 ID 查找活动日志
func (r *activityLogRepository) FindByActorID(actorID string) ([]*model.ActivityLogModel, error) {
	var logs []*model.ActivityLogModel
	err := r.db.Where("actor_id = ?", actorID).Order("created_at DESC").Find(&logs).Error
	return logs, err
}
