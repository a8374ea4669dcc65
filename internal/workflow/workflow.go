// Package workflow 管理失败检查项的整改流程状态机
//
// 状态流转:
//
//	pending_store -> pending_admin -> approved
//	                              -> rejected -> pending_admin (重新提交或撤销驳回)
//
// 每次流转都在内存中改写完整的答案树,随后由调用方对权威记录做一次
// 整文档替换,不做部分补丁
package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/esatkurtul80/AuditPro-sub000/internal/deadline"
	"github.com/esatkurtul80/AuditPro-sub000/internal/scoring"
)

var (
	// ErrAnswerNotFound 指定下标不存在答案
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrNotEligible 答案当前状态不允许该操作
	ErrNotEligible = errors.New("action not eligible for this operation")
	// ErrNoteRequired 提交整改必须填写说明
	ErrNoteRequired = errors.New("corrective note is required")
	// ErrPhotoRequired 该检查项要求至少一张整改照片
	ErrPhotoRequired = errors.New("corrective photo is required")
	// ErrReasonRequired 驳回必须填写原因
	ErrReasonRequired = errors.New("rejection reason is required")
	// ErrMissingSubmission 存在未覆盖的待整改项
	ErrMissingSubmission = errors.New("submission missing for eligible answer")
	// ErrAlreadyCompleted 检查已完成,不能重复激活整改流程
	ErrAlreadyCompleted = errors.New("audit already completed")
)

// SubmissionItem 一条门店整改提交
type SubmissionItem struct {
	SectionIndex int      `json:"section_index"`
	AnswerIndex  int      `json:"answer_index"`
	Note         string   `json:"note"`
	Images       []string `json:"images"`
}

// Eligible 答案的整改是否处于可提交状态
func Eligible(ans *audit.Answer) bool {
	if ans.Action == nil {
		return false
	}
	s := audit.NormalizeStatus(ans.Action.Status)
	return s == audit.StatusPendingStore || s == audit.StatusRejected
}

// Activate 在检查完成时激活整改流程
// 为每个失败项建立 pending_store 整改数据,计算截止时间并重算分数
func Activate(a *audit.Audit, completedAt time.Time) {
	scoring.Recompute(a)

	a.Status = audit.AuditCompleted
	t := completedAt
	a.CompletedAt = &t
	due := deadline.Due(completedAt)
	a.ActionDeadline = &due

	a.FailingAnswers(func(_, _ int, ans *audit.Answer) bool {
		ans.EnsureAction()
		return true
	})
	refreshResolved(a)
}

// SubmitStore 门店批量提交整改
// 校验全部通过后才改写状态:每个待整改项必须有非空说明,要求照片的
// 项必须至少附一张照片;任何校验失败都不产生部分写入
func SubmitStore(a *audit.Audit, items []SubmissionItem, now time.Time) error {
	type key struct{ si, ai int }
	byAnswer := make(map[key]SubmissionItem, len(items))
	for _, it := range items {
		ans := a.Answer(it.SectionIndex, it.AnswerIndex)
		if ans == nil {
			return fmt.Errorf("%w: section %d answer %d", ErrAnswerNotFound, it.SectionIndex, it.AnswerIndex)
		}
		if !Eligible(ans) {
			return fmt.Errorf("%w: %s", ErrNotEligible, ans.QuestionText)
		}
		byAnswer[key{it.SectionIndex, it.AnswerIndex}] = it
	}

	// 先做全量校验,保证提交的原子性
	var verr error
	a.FailingAnswers(func(si, ai int, ans *audit.Answer) bool {
		if !Eligible(ans) {
			return true
		}
		it, ok := byAnswer[key{si, ai}]
		if !ok {
			verr = fmt.Errorf("%w: %s", ErrMissingSubmission, ans.QuestionText)
			return false
		}
		if it.Note == "" {
			verr = fmt.Errorf("%w: %s", ErrNoteRequired, ans.QuestionText)
			return false
		}
		if ans.ActionPhotoRequired && len(it.Images) == 0 {
			verr = fmt.Errorf("%w: %s", ErrPhotoRequired, ans.QuestionText)
			return false
		}
		return true
	})
	if verr != nil {
		return verr
	}

	// 全部合格项一次性进入 pending_admin,记录最终的说明和证据列表
	a.FailingAnswers(func(si, ai int, ans *audit.Answer) bool {
		if !Eligible(ans) {
			return true
		}
		it := byAnswer[key{si, ai}]
		act := ans.EnsureAction()
		act.Status = audit.StatusPendingAdmin
		act.StoreNote = it.Note
		act.StoreImages = append([]string{}, it.Images...)
		t := now
		act.SubmittedAt = &t
		if len(it.Images) > 0 {
			act.PhotoUploadedAt = &t
		}
		act.AdminNote = ""
		act.RejectedAt = nil
		return true
	})
	refreshResolved(a)
	return nil
}

// Approve 管理员通过单项整改
func Approve(a *audit.Audit, sectionIdx, answerIdx int, now time.Time) error {
	act, err := actionAt(a, sectionIdx, answerIdx)
	if err != nil {
		return err
	}
	if audit.NormalizeStatus(act.Status) != audit.StatusPendingAdmin {
		return fmt.Errorf("%w: status is %s", ErrNotEligible, act.Status)
	}
	act.Status = audit.StatusApproved
	t := now
	act.ApprovedAt = &t
	act.ResolvedAt = &t
	refreshResolved(a)
	return nil
}

// Reject 管理员驳回单项整改,原因必填
func Reject(a *audit.Audit, sectionIdx, answerIdx int, reason string, now time.Time) error {
	if reason == "" {
		return ErrReasonRequired
	}
	act, err := actionAt(a, sectionIdx, answerIdx)
	if err != nil {
		return err
	}
	if audit.NormalizeStatus(act.Status) != audit.StatusPendingAdmin {
		return fmt.Errorf("%w: status is %s", ErrNotEligible, act.Status)
	}
	act.Status = audit.StatusRejected
	t := now
	act.RejectedAt = &t
	act.AdminNote = reason
	a.AllActionsResolved = false
	return nil
}

// RevertRejection 撤销驳回,恢复先前的门店提交并清除驳回原因
func RevertRejection(a *audit.Audit, sectionIdx, answerIdx int) error {
	act, err := actionAt(a, sectionIdx, answerIdx)
	if err != nil {
		return err
	}
	if audit.NormalizeStatus(act.Status) != audit.StatusRejected {
		return fmt.Errorf("%w: status is %s", ErrNotEligible, act.Status)
	}
	act.Status = audit.StatusPendingAdmin
	act.AdminNote = ""
	act.RejectedAt = nil
	a.AllActionsResolved = false
	return nil
}

// RevertApproval 撤销通过,清除通过时间但保留门店说明和证据
func RevertApproval(a *audit.Audit, sectionIdx, answerIdx int) error {
	act, err := actionAt(a, sectionIdx, answerIdx)
	if err != nil {
		return err
	}
	if audit.NormalizeStatus(act.Status) != audit.StatusApproved {
		return fmt.Errorf("%w: status is %s", ErrNotEligible, act.Status)
	}
	act.Status = audit.StatusPendingAdmin
	act.ApprovedAt = nil
	act.ResolvedAt = nil
	a.AllActionsResolved = false
	return nil
}

func actionAt(a *audit.Audit, sectionIdx, answerIdx int) (*audit.ActionData, error) {
	ans := a.Answer(sectionIdx, answerIdx)
	if ans == nil {
		return nil, fmt.Errorf("%w: section %d answer %d", ErrAnswerNotFound, sectionIdx, answerIdx)
	}
	if ans.Action == nil {
		return nil, fmt.Errorf("%w: %s has no corrective action", ErrNotEligible, ans.QuestionText)
	}
	return ans.Action, nil
}

// refreshResolved 当且仅当所有失败项都已通过时置位 AllActionsResolved
func refreshResolved(a *audit.Audit) {
	resolved := true
	a.FailingAnswers(func(_, _ int, ans *audit.Answer) bool {
		if ans.Action == nil || audit.NormalizeStatus(ans.Action.Status) != audit.StatusApproved {
			resolved = false
			return false
		}
		return true
	})
	a.AllActionsResolved = resolved
}
