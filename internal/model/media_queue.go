package model

import (
	"errors"
	"time"
)

// MediaQueueModel 离线媒体队列数据模型
// 离线时保存原始字节和尽力压缩后的字节,等待外部上传器消费
type MediaQueueModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)"`
	AuditID      string    `gorm:"type:varchar(64);not null;index"`
	SectionIndex int       `gorm:"not null"`
	AnswerIndex  int       `gorm:"not null"`
	Filename     string    `gorm:"type:varchar(255);not null"`
	ContentType  string    `gorm:"type:varchar(64)"`
	Original     []byte    `gorm:"not null"` // 原始字节
	Compressed   []byte    // 压缩后的字节,压缩失败时为空
	Uploaded     bool      `gorm:"not null;default:false;index"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (MediaQueueModel) TableName() string {
	return "media_queue"
}

// Validate 验证媒体队列模型
func (mqm *MediaQueueModel) Validate() error {
	if mqm.ID == "" {
		return errors.New("media queue ID is required")
	}
	if mqm.AuditID == "" {
		return errors.New("audit ID is required")
	}
	if mqm.Filename == "" {
		return errors.New("filename is required")
	}
	if len(mqm.Original) == 0 {
		return errors.New("original bytes are required")
	}
	return nil
}
