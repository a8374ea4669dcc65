package service

import (
	"context"
	"fmt"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/esatkurtul80/AuditPro-sub000/internal/metrics"
	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"github.com/esatkurtul80/AuditPro-sub000/internal/repository"
	"github.com/esatkurtul80/AuditPro-sub000/internal/workflow"
)

// ActionService 整改流程服务接口
// 每个方法都是 读取文档 -> 内存中流转 -> 整文档替换 的一个原子回合;
// 校验失败时不发生任何写入
type ActionService interface {
	SubmitStore(ctx context.Context, auditID string, actorID string, items []workflow.SubmissionItem) (*audit.Audit, error)
	Approve(ctx context.Context, auditID string, actorID string, sectionIdx, answerIdx int) (*audit.Audit, error)
	Reject(ctx context.Context, auditID string, actorID string, sectionIdx, answerIdx int, reason string) (*audit.Audit, error)
	RevertRejection(ctx context.Context, auditID string, actorID string, sectionIdx, answerIdx int) (*audit.Audit, error)
	RevertApproval(ctx context.Context, auditID string, actorID string, sectionIdx, answerIdx int) (*audit.Audit, error)
}

// actionService 整改流程服务实现
type actionService struct {
	audits      repository.AuditRepository
	activityLog ActivityLogService
	broadcaster SnapshotBroadcaster
}

// NewActionService 创建整改流程服务
func NewActionService(audits repository.AuditRepository, activityLog ActivityLogService, broadcaster SnapshotBroadcaster) ActionService {
	return &actionService{
		audits:      audits,
		activityLog: activityLog,
		broadcaster: broadcaster,
	}
}

// SubmitStore 门店批量提交整改
func (s *actionService) SubmitStore(ctx context.Context, auditID string, actorID string, items []workflow.SubmissionItem) (*audit.Audit, error) {
	return s.transition(ctx, auditID, actorID, "submit",
		func(a *audit.Audit) error {
			return workflow.SubmitStore(a, items, time.Now())
		},
		fmt.Sprintf(`{"items":%d}`, len(items)))
}

// Approve 管理员通过整改
func (s *actionService) Approve(ctx context.Context, auditID string, actorID string, sectionIdx, answerIdx int) (*audit.Audit, error) {
	return s.transition(ctx, auditID, actorID, "approve",
		func(a *audit.Audit) error {
			return workflow.Approve(a, sectionIdx, answerIdx, time.Now())
		},
		answerDetails(sectionIdx, answerIdx))
}

// Reject 管理员驳回整改
func (s *actionService) Reject(ctx context.Context, auditID string, actorID string, sectionIdx, answerIdx int, reason string) (*audit.Audit, error) {
	return s.transition(ctx, auditID, actorID, "reject",
		func(a *audit.Audit) error {
			return workflow.Reject(a, sectionIdx, answerIdx, reason, time.Now())
		},
		answerDetails(sectionIdx, answerIdx))
}

// RevertRejection 撤销驳回
func (s *actionService) RevertRejection(ctx context.Context, auditID string, actorID string, sectionIdx, answerIdx int) (*audit.Audit, error) {
	return s.transition(ctx, auditID, actorID, "revert_rejection",
		func(a *audit.Audit) error {
			return workflow.RevertRejection(a, sectionIdx, answerIdx)
		},
		answerDetails(sectionIdx, answerIdx))
}

// RevertApproval 撤销通过
func (s *actionService) RevertApproval(ctx context.Context, auditID string, actorID string, sectionIdx, answerIdx int) (*audit.Audit, error) {
	return s.transition(ctx, auditID, actorID, "revert_approval",
		func(a *audit.Audit) error {
			return workflow.RevertApproval(a, sectionIdx, answerIdx)
		},
		answerDetails(sectionIdx, answerIdx))
}

// transition 执行一次流转:读取、变换、整文档替换、记录、广播
func (s *actionService) transition(ctx context.Context, auditID string, actorID string, action string, fn func(*audit.Audit) error, details string) (*audit.Audit, error) {
	am, err := s.audits.FindByID(auditID)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit %s: %w", auditID, err)
	}
	a, err := am.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("failed to decode audit %s: %w", auditID, err)
	}

	if err := fn(a); err != nil {
		return nil, err
	}

	updated, err := model.FromDomain(a)
	if err != nil {
		return nil, err
	}
	if err := s.audits.Save(updated); err != nil {
		return nil, fmt.Errorf("failed to save audit %s: %w", auditID, err)
	}

	metrics.RecordTransition(action)
	if s.activityLog != nil && actorID != "" {
		_ = s.activityLog.RecordAction(ctx, actorID, action, auditID, details)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAudit(a)
	}
	return a, nil
}

func answerDetails(sectionIdx, answerIdx int) string {
	return fmt.Sprintf(`{"section":%d,"answer":%d}`, sectionIdx, answerIdx)
}
