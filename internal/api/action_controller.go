package api

import (
	"net/http"

	"github.com/esatkurtul80/AuditPro-sub000/internal/service"
	"github.com/esatkurtul80/AuditPro-sub000/internal/workflow"
	"github.com/gin-gonic/gin"
)

// ActionController 整改流程控制器
type ActionController struct {
	actionSvc service.ActionService
}

// NewActionController 创建整改流程控制器
func NewActionController(actionSvc service.ActionService) *ActionController {
	return &ActionController{actionSvc: actionSvc}
}

// SubmitRequest 门店批量提交整改请求
type SubmitRequest struct {
	Items []workflow.SubmissionItem `json:"items" binding:"required"`
}

// AnswerRef 定位单条答案的请求参数
type AnswerRef struct {
	SectionIndex int `json:"section_index"`
	AnswerIndex  int `json:"answer_index"`
}

// RejectRequest 驳回整改请求
type RejectRequest struct {
	AnswerRef
	Reason string `json:"reason" binding:"required"`
}

// Submit 门店批量提交整改
func (ctl *ActionController) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	a, err := ctl.actionSvc.SubmitStore(c.Request.Context(), c.Param("id"), actorID(c), req.Items)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, a)
}

// Approve 管理员通过整改
func (ctl *ActionController) Approve(c *gin.Context) {
	var req AnswerRef
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	a, err := ctl.actionSvc.Approve(c.Request.Context(), c.Param("id"), actorID(c), req.SectionIndex, req.AnswerIndex)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, a)
}

// Reject 管理员驳回整改
func (ctl *ActionController) Reject(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	a, err := ctl.actionSvc.Reject(c.Request.Context(), c.Param("id"), actorID(c), req.SectionIndex, req.AnswerIndex, req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, a)
}

// RevertRejection 撤销驳回
func (ctl *ActionController) RevertRejection(c *gin.Context) {
	var req AnswerRef
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	a, err := ctl.actionSvc.RevertRejection(c.Request.Context(), c.Param("id"), actorID(c), req.SectionIndex, req.AnswerIndex)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, a)
}

// RevertApproval 撤销通过
func (ctl *ActionController) RevertApproval(c *gin.Context) {
	var req AnswerRef
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	a, err := ctl.actionSvc.RevertApproval(c.Request.Context(), c.Param("id"), actorID(c), req.SectionIndex, req.AnswerIndex)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, a)
}
