package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"github.com/esatkurtul80/AuditPro-sub000/internal/repository"
	"github.com/google/uuid"
)

// ActivityLogService 活动日志服务
type ActivityLogService interface {
	RecordAction(ctx context.Context, actorID string, action string, auditID string, details interface{}) error
	ListByAudit(auditID string) ([]*model.ActivityLogModel, error)
}

// activityLogService 活动日志服务实现
type activityLogService struct {
	logRepo repository.ActivityLogRepository
}

// NewActivityLogService 创建活动日志服务
func NewActivityLogService(logRepo repository.ActivityLogRepository) ActivityLogService {
	return &activityLogService{
		logRepo: logRepo,
	}
}

// RecordAction 记录一次整改操作
func (s *activityLogService) RecordAction(
	ctx context.Context,
	actorID string,
	action string,
	auditID string,
	details interface{},
) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}

	log := &model.ActivityLogModel{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Action:    action,
		AuditID:   auditID,
		Details:   detailsJSON,
		CreatedAt: time.Now(),
	}
	return s.logRepo.Save(log)
}

// ListByAudit 列出一次审计的活动日志
func (s *activityLogService) ListByAudit(auditID string) ([]*model.ActivityLogModel, error) {
	return s.logRepo.FindByAuditID(auditID)
}
