package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/esatkurtul80/AuditPro-sub000/internal/draft"
	"github.com/esatkurtul80/AuditPro-sub000/internal/media"
	"github.com/gin-gonic/gin"
)

// MediaController 证据媒体控制器
type MediaController struct {
	pipeline *media.Pipeline
}

// NewMediaController 创建证据媒体控制器
func NewMediaController(pipeline *media.Pipeline) *MediaController {
	return &MediaController{pipeline: pipeline}
}

// Upload 上传一张整改照片
// multipart 表单: file + section_index + answer_index
func (ctl *MediaController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		Error(c, http.StatusBadRequest, "file is required", err.Error())
		return
	}
	k, ok := draftKey(c)
	if !ok {
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		Error(c, http.StatusBadRequest, "failed to read file", err.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		Error(c, http.StatusBadRequest, "failed to read file", err.Error())
		return
	}

	ev, err := ctl.pipeline.Attach(c.Request.Context(), k, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		// pending 条目已保留,客户端可手工重试
		RespondError(c, err)
		return
	}
	Success(c, ev)
}

// DeleteRequest 删除证据请求
type DeleteRequest struct {
	SectionIndex int    `json:"section_index"`
	AnswerIndex  int    `json:"answer_index"`
	URL          string `json:"url,omitempty"`
	LocalID      string `json:"local_id,omitempty"`
}

// Delete 删除一条证据
func (ctl *MediaController) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if req.URL == "" && req.LocalID == "" {
		Error(c, http.StatusBadRequest, "invalid request", "url or local_id is required")
		return
	}
	k := draft.Key{AuditID: c.Param("id"), SectionIndex: req.SectionIndex, AnswerIndex: req.AnswerIndex}
	ev := draft.Evidence{URL: req.URL, LocalID: req.LocalID}
	if err := ctl.pipeline.Delete(c.Request.Context(), k, ev); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// PendingMediaInfo 待上传媒体的元数据(不含字节)
type PendingMediaInfo struct {
	ID           string `json:"id"`
	AuditID      string `json:"audit_id"`
	SectionIndex int    `json:"section_index"`
	AnswerIndex  int    `json:"answer_index"`
	Filename     string `json:"filename"`
	SizeBytes    int    `json:"size_bytes"`
}

// ListPending 列出待上传的媒体
func (ctl *MediaController) ListPending(c *gin.Context) {
	items, err := ctl.pipeline.ListPendingMedia()
	if err != nil {
		RespondError(c, err)
		return
	}
	infos := make([]PendingMediaInfo, 0, len(items))
	for _, m := range items {
		infos = append(infos, PendingMediaInfo{
			ID:           m.ID,
			AuditID:      m.AuditID,
			SectionIndex: m.SectionIndex,
			AnswerIndex:  m.AnswerIndex,
			Filename:     m.Filename,
			SizeBytes:    len(m.Original),
		})
	}
	Success(c, infos)
}

// MarkUploaded 外部上传器回报媒体上传完成
func (ctl *MediaController) MarkUploaded(c *gin.Context) {
	if err := ctl.pipeline.MarkUploaded(c.Param("media_id")); err != nil {
		RespondError(c, err)
		return
	}
	Success(c, nil)
}

// draftKey 从表单解析草稿键
func draftKey(c *gin.Context) (draft.Key, bool) {
	sectionIdx, err := strconv.Atoi(c.PostForm("section_index"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid section_index", err.Error())
		return draft.Key{}, false
	}
	answerIdx, err := strconv.Atoi(c.PostForm("answer_index"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid answer_index", err.Error())
		return draft.Key{}, false
	}
	return draft.Key{
		AuditID:      c.Param("id"),
		SectionIndex: sectionIdx,
		AnswerIndex:  answerIdx,
	}, true
}
