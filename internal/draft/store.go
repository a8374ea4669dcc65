// Package draft 设备本地的整改草稿存储
//
// 草稿按 审计+分区+答案 寻址,持久化在本地 sqlite 中,页面重载和长时间
// 离线期间都不丢失。证据条目要么是未落盘的 pending 项(只有本地 ID),
// 要么是已确认项(服务器 URL);已确认项必须能在权威记录的
// storeImages 中找到,否则会在下一次对账合并时被移除
package draft

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"gorm.io/gorm"
)

// Key 草稿键
type Key struct {
	AuditID      string `json:"audit_id"`
	SectionIndex int    `json:"section_index"`
	AnswerIndex  int    `json:"answer_index"`
}

// Evidence 草稿中的一条证据
// URL 非空表示已确认,否则为 pending,LocalID 指向离线队列
type Evidence struct {
	LocalID string `json:"local_id,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Confirmed 证据是否已有持久 URL
func (e Evidence) Confirmed() bool {
	return e.URL != ""
}

// Draft 一条答案的整改草稿
type Draft struct {
	Key
	Note     string     `json:"note"`
	Evidence []Evidence `json:"evidence"`
}

// Clone 深拷贝草稿
func (d *Draft) Clone() *Draft {
	cp := *d
	cp.Evidence = append([]Evidence{}, d.Evidence...)
	return &cp
}

// Store 草稿存储接口
type Store interface {
	// Get 读取草稿,不存在时返回 (nil, nil)
	Get(k Key) (*Draft, error)
	Put(d *Draft) error
	Delete(k Key) error
	ListByAudit(auditID string) ([]*Draft, error)
}

// gormStore 基于 gorm/sqlite 的草稿存储实现
type gormStore struct {
	db *gorm.DB
}

// NewStore 创建草稿存储
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Get 读取草稿
func (s *gormStore) Get(k Key) (*Draft, error) {
	var dm model.DraftModel
	err := s.db.Where("audit_id = ? AND section_index = ? AND answer_index = ?",
		k.AuditID, k.SectionIndex, k.AnswerIndex).First(&dm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromModel(&dm)
}

// Put 保存草稿,整行替换
func (s *gormStore) Put(d *Draft) error {
	dm, err := toModel(d)
	if err != nil {
		return err
	}
	return s.db.Save(dm).Error
}

// Delete 删除草稿
func (s *gormStore) Delete(k Key) error {
	return s.db.Where("audit_id = ? AND section_index = ? AND answer_index = ?",
		k.AuditID, k.SectionIndex, k.AnswerIndex).
		Delete(&model.DraftModel{}).Error
}

// ListByAudit 列出一次审计下的全部草稿
func (s *gormStore) ListByAudit(auditID string) ([]*Draft, error) {
	var dms []model.DraftModel
	err := s.db.Where("audit_id = ?", auditID).
		Order("section_index, answer_index").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	drafts := make([]*Draft, 0, len(dms))
	for i := range dms {
		d, err := fromModel(&dms[i])
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func toModel(d *Draft) (*model.DraftModel, error) {
	evidence, err := json.Marshal(d.Evidence)
	if err != nil {
		return nil, err
	}
	dm := &model.DraftModel{
		AuditID:      d.AuditID,
		SectionIndex: d.SectionIndex,
		AnswerIndex:  d.AnswerIndex,
		Note:         d.Note,
		Evidence:     evidence,
		UpdatedAt:    time.Now(),
	}
	if err := dm.Validate(); err != nil {
		return nil, err
	}
	return dm, nil
}

func fromModel(dm *model.DraftModel) (*Draft, error) {
	d := &Draft{
		Key: Key{
			AuditID:      dm.AuditID,
			SectionIndex: dm.SectionIndex,
			AnswerIndex:  dm.AnswerIndex,
		},
		Note: dm.Note,
	}
	if len(dm.Evidence) > 0 {
		if err := json.Unmarshal(dm.Evidence, &d.Evidence); err != nil {
			return nil, err
		}
	}
	return d, nil
}
