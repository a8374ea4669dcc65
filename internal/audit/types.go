package audit

import (
	"errors"
	"time"
)

// AuditStatus 审计状态
type AuditStatus string

const (
	// AuditInProgress 检查进行中,答案可自由修改
	AuditInProgress AuditStatus = "in_progress"
	// AuditCompleted 检查已完成,整改流程已激活
	AuditCompleted AuditStatus = "completed"
)

// ActionStatus 整改动作状态
type ActionStatus string

const (
	// StatusPendingStore 待门店提交整改
	StatusPendingStore ActionStatus = "pending_store"
	// StatusPendingAdmin 待管理员审核
	StatusPendingAdmin ActionStatus = "pending_admin"
	// StatusApproved 整改已通过
	StatusApproved ActionStatus = "approved"
	// StatusRejected 整改被驳回,需重新提交
	StatusRejected ActionStatus = "rejected"
)

// NormalizeStatus 规范化整改状态
// 缺失或未知的状态一律按 pending_store 处理
func NormalizeStatus(s ActionStatus) ActionStatus {
	switch s {
	case StatusPendingStore, StatusPendingAdmin, StatusApproved, StatusRejected:
		return s
	default:
		return StatusPendingStore
	}
}

// Audit 一次门店检查实例
type Audit struct {
	ID                 string      `json:"id"`
	StoreID            string      `json:"store_id"`
	AuditorID          string      `json:"auditor_id"`
	AuditTypeID        string      `json:"audit_type_id"`
	Status             AuditStatus `json:"status"`
	Sections           []Section   `json:"sections"`
	Score              int         `json:"score"`
	MaxScore           int         `json:"max_score"`
	CompletedAt        *time.Time  `json:"completed_at,omitempty"`
	ActionDeadline     *time.Time  `json:"action_deadline,omitempty"`
	AllActionsResolved bool        `json:"all_actions_resolved"`
}

// Section 检查分区,在 Audit 内有序
type Section struct {
	Name    string   `json:"name"`
	Score   float64  `json:"score"`
	Answers []Answer `json:"answers"`
}

// ActionData 失败项的整改数据
// StoreImages 是证据存在性的唯一权威来源,条目只能通过显式删除离开该列表
type ActionData struct {
	Status          ActionStatus `json:"status"`
	StoreNote       string       `json:"store_note"`
	StoreImages     []string     `json:"store_images"`
	AdminNote       string       `json:"admin_note,omitempty"`
	SubmittedAt     *time.Time   `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time   `json:"approved_at,omitempty"`
	RejectedAt      *time.Time   `json:"rejected_at,omitempty"`
	ResolvedAt      *time.Time   `json:"resolved_at,omitempty"`
	PhotoUploadedAt *time.Time   `json:"photo_uploaded_at,omitempty"`
}

// Validate 验证审计实例
func (a *Audit) Validate() error {
	if a.ID == "" {
		return errors.New("audit ID is required")
	}
	if a.StoreID == "" {
		return errors.New("store ID is required")
	}
	if a.AuditorID == "" {
		return errors.New("auditor ID is required")
	}
	return nil
}

// Answer 根据分区下标和答案下标定位答案
// 下标越界返回 nil
func (a *Audit) Answer(sectionIdx, answerIdx int) *Answer {
	if sectionIdx < 0 || sectionIdx >= len(a.Sections) {
		return nil
	}
	sec := &a.Sections[sectionIdx]
	if answerIdx < 0 || answerIdx >= len(sec.Answers) {
		return nil
	}
	return &sec.Answers[answerIdx]
}

// FailingAnswers 遍历所有失败答案
// 回调返回 false 时提前终止
func (a *Audit) FailingAnswers(fn func(sectionIdx, answerIdx int, ans *Answer) bool) {
	for si := range a.Sections {
		for ai := range a.Sections[si].Answers {
			ans := &a.Sections[si].Answers[ai]
			if ans.IsFailing() {
				if !fn(si, ai, ans) {
					return
				}
			}
		}
	}
}
