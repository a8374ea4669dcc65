package api

import (
	"errors"
	"net/http"

	"github.com/esatkurtul80/AuditPro-sub000/internal/workflow"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// WrapError 包装错误
func WrapError(err error, code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Detail:  err.Error(),
	}
}

// RespondError 把服务层错误翻译为 HTTP 响应
// 校验类错误返回 400,记录不存在返回 404,其余按 500 处理
func RespondError(c *gin.Context, err error) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
	case errors.Is(err, gorm.ErrRecordNotFound):
		Error(c, http.StatusNotFound, "record not found", err.Error())
	case errors.Is(err, workflow.ErrNoteRequired),
		errors.Is(err, workflow.ErrPhotoRequired),
		errors.Is(err, workflow.ErrReasonRequired),
		errors.Is(err, workflow.ErrMissingSubmission),
		errors.Is(err, workflow.ErrNotEligible),
		errors.Is(err, workflow.ErrAlreadyCompleted),
		errors.Is(err, workflow.ErrAnswerNotFound):
		Error(c, http.StatusBadRequest, "validation failed", err.Error())
	default:
		Error(c, http.StatusInternalServerError, "internal server error", err.Error())
	}
}
