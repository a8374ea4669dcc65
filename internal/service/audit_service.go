package service

import (
	"context"
	"fmt"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/esatkurtul80/AuditPro-sub000/internal/deadline"
	"github.com/esatkurtul80/AuditPro-sub000/internal/metrics"
	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"github.com/esatkurtul80/AuditPro-sub000/internal/repository"
	"github.com/esatkurtul80/AuditPro-sub000/internal/scoring"
	"github.com/esatkurtul80/AuditPro-sub000/internal/workflow"
)

// SnapshotBroadcaster 权威快照广播接口
// 每次权威写入后把最新审计文档推给所有在线设备
type SnapshotBroadcaster interface {
	BroadcastAudit(a *audit.Audit)
}

// AuditService 审计服务接口
type AuditService interface {
	Get(id string) (*audit.Audit, error)
	List(filter *repository.AuditFilter) ([]*audit.Audit, error)
	// Save 保存审计文档(答案变更后重算分数,整文档替换)
	Save(ctx context.Context, a *audit.Audit) error
	// Complete 完成检查并激活整改流程
	Complete(ctx context.Context, id string, actorID string) (*audit.Audit, error)
	// DeadlineStatus 计算审计的整改截止状态
	DeadlineStatus(a *audit.Audit, now time.Time) deadline.Status
}

// auditService 审计服务实现
type auditService struct {
	audits      repository.AuditRepository
	catalog     audit.Catalog
	activityLog ActivityLogService
	broadcaster SnapshotBroadcaster
}

// NewAuditService 创建审计服务
// catalog 与 broadcaster 可为 nil
func NewAuditService(audits repository.AuditRepository, catalog audit.Catalog, activityLog ActivityLogService, broadcaster SnapshotBroadcaster) AuditService {
	return &auditService{
		audits:      audits,
		catalog:     catalog,
		activityLog: activityLog,
		broadcaster: broadcaster,
	}
}

// Get 获取审计文档,顺带回填缺失的题目元数据
func (s *auditService) Get(id string) (*audit.Audit, error) {
	am, err := s.audits.FindByID(id)
	if err != nil {
		return nil, err
	}
	a, err := am.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to decode audit %s: %w", id, err)
	}
	// 历史数据的完整性异常走自愈,不致命
	audit.Backfill(a, s.catalog)
	return a, nil
}

// List 按过滤器列出审计文档
func (s *auditService) List(filter *repository.AuditFilter) ([]*audit.Audit, error) {
	ams, err := s.audits.FindByFilter(filter)
	if err != nil {
		return nil, err
	}
	out := make([]*audit.Audit, 0, len(ams))
	for _, am := range ams {
		a, err := am.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to decode audit %s: %w", am.ID, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Save 重算分数后整文档替换保存,并广播最新快照
func (s *auditService) Save(ctx context.Context, a *audit.Audit) error {
	scoring.Recompute(a)
	am, err := model.FromDomain(a)
	if err != nil {
		return err
	}
	if err := s.audits.Save(am); err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAudit(a)
	}
	return nil
}

// Complete 完成检查:计分、建立整改数据、确定截止时间
// 重复完成会重置 CompletedAt 和截止时间,因此已完成的检查直接拒绝
func (s *auditService) Complete(ctx context.Context, id string, actorID string) (*audit.Audit, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if a.Status == audit.AuditCompleted {
		return nil, fmt.Errorf("%w: %s", workflow.ErrAlreadyCompleted, id)
	}
	workflow.Activate(a, time.Now())
	if err := s.persist(a); err != nil {
		return nil, err
	}
	metrics.RecordTransition("complete")
	if s.activityLog != nil && actorID != "" {
		details := fmt.Sprintf(`{"audit_id":"%s","score":%d}`, a.ID, a.Score)
		_ = s.activityLog.RecordAction(ctx, actorID, "complete", a.ID, details)
	}
	return a, nil
}

// DeadlineStatus 推导截止状态,未完成的审计视为 ok
func (s *auditService) DeadlineStatus(a *audit.Audit, now time.Time) deadline.Status {
	if a.ActionDeadline == nil {
		return deadline.StatusOK
	}
	return deadline.StatusAt(*a.ActionDeadline, now)
}

func (s *auditService) persist(a *audit.Audit) error {
	am, err := model.FromDomain(a)
	if err != nil {
		return err
	}
	if err := s.audits.Save(am); err != nil {
		return err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAudit(a)
	}
	return nil
}
