package workflow_test

import (
	"testing"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/esatkurtul80/AuditPro-sub000/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAudit 构造含两个失败项的审计:S0/A1 和 S1/A0 未达满分
func newTestAudit() *audit.Audit {
	return &audit.Audit{
		ID: "audit-001", StoreID: "store-001", AuditorID: "user-001",
		Status: audit.AuditInProgress,
		Sections: []audit.Section{
			{
				Name: "卫生",
				Answers: []audit.Answer{
					{QuestionID: "q1", QuestionText: "地面是否清洁", Type: audit.TypeYesNo,
						MaxPoints: 10, Value: audit.YesNoValue{Yes: true}},
					{QuestionID: "q2", QuestionText: "后厨是否消毒", Type: audit.TypeYesNo,
						MaxPoints: 10, Value: audit.YesNoValue{Yes: false}},
				},
			},
			{
				Name: "陈列",
				Answers: []audit.Answer{
					{QuestionID: "q3", QuestionText: "货架是否整齐", Type: audit.TypeYesNo,
						MaxPoints: 10, ActionPhotoRequired: true, Value: audit.YesNoValue{Yes: false}},
				},
			},
		},
	}
}

var completedAt = time.Date(2025, time.January, 9, 14, 0, 0, 0, time.UTC)

// TestActivate 测试完成检查时激活整改流程
func TestActivate(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)

	assert.Equal(t, audit.AuditCompleted, a.Status)
	require.NotNil(t, a.CompletedAt)
	require.NotNil(t, a.ActionDeadline)
	// 周四完成,跳过周日,截止下周一
	assert.Equal(t, time.Monday, a.ActionDeadline.Weekday())
	assert.False(t, a.AllActionsResolved)

	// 失败项获得 pending_store 整改数据,通过项不受影响
	require.NotNil(t, a.Sections[0].Answers[1].Action)
	assert.Equal(t, audit.StatusPendingStore, a.Sections[0].Answers[1].Action.Status)
	require.NotNil(t, a.Sections[1].Answers[0].Action)
	assert.Nil(t, a.Sections[0].Answers[0].Action)
}

// TestSubmitStore 测试门店批量提交整改
func TestSubmitStore(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)

	now := completedAt.Add(24 * time.Hour)
	err := workflow.SubmitStore(a, []workflow.SubmissionItem{
		{SectionIndex: 0, AnswerIndex: 1, Note: "已重新消毒"},
		{SectionIndex: 1, AnswerIndex: 0, Note: "已整理货架", Images: []string{"https://cdn.example.com/a.jpg"}},
	}, now)
	require.NoError(t, err)

	act := a.Sections[0].Answers[1].Action
	assert.Equal(t, audit.StatusPendingAdmin, act.Status)
	assert.Equal(t, "已重新消毒", act.StoreNote)
	require.NotNil(t, act.SubmittedAt)
	assert.Nil(t, act.PhotoUploadedAt)

	act2 := a.Sections[1].Answers[0].Action
	assert.Equal(t, audit.StatusPendingAdmin, act2.Status)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, act2.StoreImages)
	require.NotNil(t, act2.PhotoUploadedAt)
}

// TestSubmitStore_EmptyNote 测试空说明被拒绝且不产生部分写入
func TestSubmitStore_EmptyNote(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)

	err := workflow.SubmitStore(a, []workflow.SubmissionItem{
		{SectionIndex: 0, AnswerIndex: 1, Note: "已重新消毒"},
		{SectionIndex: 1, AnswerIndex: 0, Note: "", Images: []string{"https://cdn.example.com/a.jpg"}},
	}, completedAt)

	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrNoteRequired)
	// 错误信息点名问题文本
	assert.Contains(t, err.Error(), "货架是否整齐")
	// 合格的那条也不能先行写入
	assert.Equal(t, audit.StatusPendingStore, a.Sections[0].Answers[1].Action.Status)
	assert.Empty(t, a.Sections[0].Answers[1].Action.StoreNote)
}

// TestSubmitStore_PhotoRequired 测试要求照片的项必须附照片
func TestSubmitStore_PhotoRequired(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)

	err := workflow.SubmitStore(a, []workflow.SubmissionItem{
		{SectionIndex: 0, AnswerIndex: 1, Note: "已重新消毒"},
		{SectionIndex: 1, AnswerIndex: 0, Note: "已整理货架"},
	}, completedAt)

	assert.ErrorIs(t, err, workflow.ErrPhotoRequired)
	assert.Equal(t, audit.StatusPendingStore, a.Sections[1].Answers[0].Action.Status)
}

// TestSubmitStore_MissingItem 测试遗漏待整改项的提交被整体拒绝
func TestSubmitStore_MissingItem(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)

	err := workflow.SubmitStore(a, []workflow.SubmissionItem{
		{SectionIndex: 0, AnswerIndex: 1, Note: "已重新消毒"},
	}, completedAt)

	assert.ErrorIs(t, err, workflow.ErrMissingSubmission)
}

// TestSubmitStore_Resubmit 测试驳回后重新提交清除驳回痕迹
func TestSubmitStore_Resubmit(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)
	submitAll(t, a)

	require.NoError(t, workflow.Approve(a, 0, 1, completedAt))
	require.NoError(t, workflow.Reject(a, 1, 0, "照片模糊", completedAt))

	err := workflow.SubmitStore(a, []workflow.SubmissionItem{
		{SectionIndex: 1, AnswerIndex: 0, Note: "补拍清晰照片", Images: []string{"https://cdn.example.com/b.jpg"}},
	}, completedAt.Add(time.Hour))
	require.NoError(t, err)

	act := a.Sections[1].Answers[0].Action
	assert.Equal(t, audit.StatusPendingAdmin, act.Status)
	assert.Empty(t, act.AdminNote)
	assert.Nil(t, act.RejectedAt)
	// 已通过的项不受重新提交影响
	assert.Equal(t, audit.StatusApproved, a.Sections[0].Answers[1].Action.Status)
}

// TestApprove 测试全部通过后 AllActionsResolved 置位
func TestApprove(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)
	submitAll(t, a)

	require.NoError(t, workflow.Approve(a, 0, 1, completedAt))
	assert.False(t, a.AllActionsResolved)

	require.NoError(t, workflow.Approve(a, 1, 0, completedAt))
	assert.True(t, a.AllActionsResolved)

	act := a.Sections[0].Answers[1].Action
	require.NotNil(t, act.ApprovedAt)
	require.NotNil(t, act.ResolvedAt)
}

// TestApprove_WrongState 测试未提交的整改不能直接通过
func TestApprove_WrongState(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)

	err := workflow.Approve(a, 0, 1, completedAt)
	assert.ErrorIs(t, err, workflow.ErrNotEligible)
}

// TestReject 测试驳回必须填写原因
func TestReject(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)
	submitAll(t, a)

	assert.ErrorIs(t, workflow.Reject(a, 0, 1, "", completedAt), workflow.ErrReasonRequired)

	require.NoError(t, workflow.Reject(a, 0, 1, "整改不彻底", completedAt))
	act := a.Sections[0].Answers[1].Action
	assert.Equal(t, audit.StatusRejected, act.Status)
	assert.Equal(t, "整改不彻底", act.AdminNote)
	require.NotNil(t, act.RejectedAt)
	assert.False(t, a.AllActionsResolved)
}

// TestRevertRejection 测试撤销驳回恢复原提交内容
func TestRevertRejection(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)
	submitAll(t, a)
	require.NoError(t, workflow.Reject(a, 1, 0, "照片模糊", completedAt))

	require.NoError(t, workflow.RevertRejection(a, 1, 0))

	act := a.Sections[1].Answers[0].Action
	assert.Equal(t, audit.StatusPendingAdmin, act.Status)
	// 门店的说明和证据原样保留,驳回痕迹清除
	assert.Equal(t, "已整理货架", act.StoreNote)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, act.StoreImages)
	assert.Empty(t, act.AdminNote)
	assert.Nil(t, act.RejectedAt)
}

// TestRevertApproval 测试撤销通过后回到待审核
func TestRevertApproval(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)
	submitAll(t, a)
	require.NoError(t, workflow.Approve(a, 0, 1, completedAt))
	require.NoError(t, workflow.Approve(a, 1, 0, completedAt))
	require.True(t, a.AllActionsResolved)

	require.NoError(t, workflow.RevertApproval(a, 1, 0))

	act := a.Sections[1].Answers[0].Action
	assert.Equal(t, audit.StatusPendingAdmin, act.Status)
	assert.Nil(t, act.ApprovedAt)
	assert.Nil(t, act.ResolvedAt)
	assert.Equal(t, "已整理货架", act.StoreNote)
	assert.False(t, a.AllActionsResolved)
}

// TestRevert_WrongState 测试撤销操作的状态前置条件
func TestRevert_WrongState(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)
	submitAll(t, a)

	assert.ErrorIs(t, workflow.RevertRejection(a, 0, 1), workflow.ErrNotEligible)
	assert.ErrorIs(t, workflow.RevertApproval(a, 0, 1), workflow.ErrNotEligible)
}

// TestAnswerNotFound 测试下标越界返回哨兵错误
func TestAnswerNotFound(t *testing.T) {
	a := newTestAudit()
	workflow.Activate(a, completedAt)

	err := workflow.SubmitStore(a, []workflow.SubmissionItem{
		{SectionIndex: 9, AnswerIndex: 0, Note: "x"},
	}, completedAt)
	assert.ErrorIs(t, err, workflow.ErrAnswerNotFound)

	assert.ErrorIs(t, workflow.Approve(a, 0, 9, completedAt), workflow.ErrAnswerNotFound)
}

// submitAll 提交全部待整改项,作为后续审核测试的前置
func submitAll(t *testing.T, a *audit.Audit) {
	t.Helper()
	err := workflow.SubmitStore(a, []workflow.SubmissionItem{
		{SectionIndex: 0, AnswerIndex: 1, Note: "已重新消毒"},
		{SectionIndex: 1, AnswerIndex: 0, Note: "已整理货架", Images: []string{"https://cdn.example.com/a.jpg"}},
	}, completedAt)
	require.NoError(t, err)
}
