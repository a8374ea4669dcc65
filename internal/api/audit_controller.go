package api

import (
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/repository"
	"github.com/esatkurtul80/AuditPro-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// AuditController 审计控制器
type AuditController struct {
	auditSvc    service.AuditService
	activityLog service.ActivityLogService
}

// NewAuditController 创建审计控制器
func NewAuditController(auditSvc service.AuditService, activityLog service.ActivityLogService) *AuditController {
	return &AuditController{
		auditSvc:    auditSvc,
		activityLog: activityLog,
	}
}

// AuditSummary 列表中的审计摘要
type AuditSummary struct {
	ID                 string `json:"id"`
	StoreID            string `json:"store_id"`
	Status             string `json:"status"`
	Score              int    `json:"score"`
	MaxScore           int    `json:"max_score"`
	AllActionsResolved bool   `json:"all_actions_resolved"`
	DeadlineStatus     string `json:"deadline_status"`
}

// List 列出审计
func (ctl *AuditController) List(c *gin.Context) {
	filter := &repository.AuditFilter{}
	if v := c.Query("store_id"); v != "" {
		filter.StoreID = &v
	}
	if v := c.Query("auditor_id"); v != "" {
		filter.AuditorID = &v
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("resolved"); v != "" {
		resolved := v == "true"
		filter.Resolved = &resolved
	}

	audits, err := ctl.auditSvc.List(filter)
	if err != nil {
		RespondError(c, err)
		return
	}

	now := time.Now()
	summaries := make([]AuditSummary, 0, len(audits))
	for _, a := range audits {
		summaries = append(summaries, AuditSummary{
			ID:                 a.ID,
			StoreID:            a.StoreID,
			Status:             string(a.Status),
			Score:              a.Score,
			MaxScore:           a.MaxScore,
			AllActionsResolved: a.AllActionsResolved,
			DeadlineStatus:     string(ctl.auditSvc.DeadlineStatus(a, now)),
		})
	}
	Success(c, summaries)
}

// Get 获取审计详情
func (ctl *AuditController) Get(c *gin.Context) {
	a, err := ctl.auditSvc.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, gin.H{
		"audit":           a,
		"deadline_status": ctl.auditSvc.DeadlineStatus(a, time.Now()),
	})
}

// Complete 完成检查,激活整改流程
func (ctl *AuditController) Complete(c *gin.Context) {
	a, err := ctl.auditSvc.Complete(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, a)
}

// Activity 获取审计的活动日志
func (ctl *AuditController) Activity(c *gin.Context) {
	logs, err := ctl.activityLog.ListByAudit(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, logs)
}

// actorID 从请求头获取操作人 ID
// 身份认证由接入层负责,这里只透传标识
func actorID(c *gin.Context) string {
	return c.GetHeader("X-Actor-ID")
}
