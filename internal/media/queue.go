package media

import (
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/draft"
	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"gorm.io/gorm"
)

// Queue 离线媒体队列
// 离线时保存原始字节和尽力压缩的字节;消费队列并执行上传是外部
// 协作方的职责,本包只暴露待传列表和标记已传的接口
type Queue struct {
	db *gorm.DB
}

// NewQueue 创建离线媒体队列
func NewQueue(db *gorm.DB) *Queue {
	return &Queue{db: db}
}

// Enqueue 入队一份离线媒体,id 由调用方生成并与草稿中的 pending 项对应
func (q *Queue) Enqueue(id string, k draft.Key, filename, contentType string, original, compressed []byte) error {
	m := &model.MediaQueueModel{
		ID:           id,
		AuditID:      k.AuditID,
		SectionIndex: k.SectionIndex,
		AnswerIndex:  k.AnswerIndex,
		Filename:     filename,
		ContentType:  contentType,
		Original:     original,
		Compressed:   compressed,
		CreatedAt:    time.Now(),
	}
	if err := m.Validate(); err != nil {
		return err
	}
	return q.db.Save(m).Error
}

// ListPending 列出所有待上传的媒体
func (q *Queue) ListPending() ([]*model.MediaQueueModel, error) {
	var items []*model.MediaQueueModel
	err := q.db.Where("uploaded = ?", false).Order("created_at").Find(&items).Error
	return items, err
}

// MarkUploaded 标记媒体已上传
func (q *Queue) MarkUploaded(id string) error {
	return q.db.Model(&model.MediaQueueModel{}).Where("id = ?", id).Update("uploaded", true).Error
}

// Remove 从队列移除媒体(取消 pending 证据时调用)
func (q *Queue) Remove(id string) error {
	return q.db.Where("id = ?", id).Delete(&model.MediaQueueModel{}).Error
}
