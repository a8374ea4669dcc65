package media

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/esatkurtul80/AuditPro-sub000/internal/draft"
	"github.com/esatkurtul80/AuditPro-sub000/internal/metrics"
	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"github.com/esatkurtul80/AuditPro-sub000/internal/repository"
	"github.com/esatkurtul80/AuditPro-sub000/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SnapshotNotifier 权威写入后的快照通知
type SnapshotNotifier interface {
	BroadcastAudit(a *audit.Audit)
}

// Pipeline 媒体上传管线
//
// 选择文件后立即在本地草稿中加入 pending 条目保证即时展示;在线时
// 压缩、上传并把 pending 条目替换为持久 URL,最后对权威记录的
// storeImages 做读-改-写(追加前重新读取服务器当前列表,不信任可能
// 过期的本地副本);离线时把字节落入本地持久队列。上传失败不自动
// 重试,错误上抛,pending 条目保留等待手工重试
type Pipeline struct {
	storage storage.ObjectStorage
	drafts  draft.Store
	audits  repository.AuditRepository
	queue   *Queue
	logger  *logrus.Logger
	notify  SnapshotNotifier
	online  atomic.Bool
}

// NewPipeline 创建媒体上传管线,初始为在线状态
func NewPipeline(st storage.ObjectStorage, drafts draft.Store, audits repository.AuditRepository, queue *Queue, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
	}
	p := &Pipeline{
		storage: st,
		drafts:  drafts,
		audits:  audits,
		queue:   queue,
		logger:  logger,
	}
	p.online.Store(true)
	return p
}

// SetNotifier 挂接快照通知,权威证据列表变更后推送最新文档
func (p *Pipeline) SetNotifier(n SnapshotNotifier) {
	p.notify = n
}

// SetOnline 由外部连接检测器切换在线状态
func (p *Pipeline) SetOnline(online bool) {
	p.online.Store(online)
}

// Online 当前是否在线
func (p *Pipeline) Online() bool {
	return p.online.Load()
}

// Attach 处理一次文件选择,返回落入草稿的证据条目
// 离线时返回 pending 条目,在线且上传成功时返回已确认条目
func (p *Pipeline) Attach(ctx context.Context, k draft.Key, filename, contentType string, data []byte) (draft.Evidence, error) {
	localID := uuid.New().String()
	pending := draft.Evidence{LocalID: localID}
	if err := p.appendDraftEvidence(k, pending); err != nil {
		return draft.Evidence{}, fmt.Errorf("failed to record pending evidence: %w", err)
	}

	if !p.Online() {
		compressed, err := Compress(data)
		if err != nil {
			// 离线压缩失败只影响队列里的压缩副本,原始字节照常入队
			p.logger.WithError(err).Warn("offline compression failed, queueing original only")
			compressed = nil
		}
		if err := p.queue.Enqueue(localID, k, filename, contentType, data, compressed); err != nil {
			return pending, fmt.Errorf("failed to queue media for offline upload: %w", err)
		}
		metrics.RecordUpload("queued")
		return pending, nil
	}

	payload, ct := data, contentType
	if compressed, err := Compress(data); err == nil {
		payload, ct = compressed, "image/jpeg"
	} else {
		// 压缩失败按原样上传
		p.logger.WithError(err).Warn("compression failed, uploading original")
	}

	key := ObjectKey(k.AuditID, filename)
	url, err := p.storage.Put(ctx, key, payload, ct)
	if err != nil {
		metrics.RecordUpload("error")
		// pending 条目保留,等待手工重试
		return pending, fmt.Errorf("failed to upload evidence: %w", err)
	}

	confirmed := draft.Evidence{URL: url}
	if err := p.replaceDraftEvidence(k, localID, confirmed); err != nil {
		return confirmed, fmt.Errorf("failed to confirm evidence locally: %w", err)
	}
	if err := p.appendAuthoritative(k, url); err != nil {
		metrics.RecordUpload("error")
		return confirmed, err
	}
	metrics.RecordUpload("ok")
	return confirmed, nil
}

// Delete 删除一条证据
// 已确认条目先尽力删除对象(失败仅记日志,不阻断),随后无条件从权威
// 列表移除 URL;pending 条目从离线队列撤销
func (p *Pipeline) Delete(ctx context.Context, k draft.Key, ev draft.Evidence) error {
	if !ev.Confirmed() {
		if err := p.queue.Remove(ev.LocalID); err != nil {
			return fmt.Errorf("failed to cancel queued media: %w", err)
		}
		return p.removeDraftEvidence(k, ev)
	}

	if key, ok := p.storage.KeyFromURL(ev.URL); ok {
		if err := p.storage.Remove(ctx, key); err != nil {
			// 对象删除失败不致命,URL 仍会从权威列表中移除
			p.logger.WithError(err).WithField("key", key).Warn("object storage delete failed")
		}
	}
	if err := p.removeAuthoritative(k, ev.URL); err != nil {
		return err
	}
	metrics.RecordEvidenceDeleted()
	return p.removeDraftEvidence(k, ev)
}

// ListPendingMedia 暴露待上传媒体列表(外部上传器消费)
func (p *Pipeline) ListPendingMedia() ([]*model.MediaQueueModel, error) {
	return p.queue.ListPending()
}

// MarkUploaded 外部上传器回报某条媒体已完成上传
func (p *Pipeline) MarkUploaded(id string) error {
	return p.queue.MarkUploaded(id)
}

func (p *Pipeline) appendDraftEvidence(k draft.Key, ev draft.Evidence) error {
	d, err := p.drafts.Get(k)
	if err != nil {
		return err
	}
	if d == nil {
		d = &draft.Draft{Key: k}
	}
	d.Evidence = append(d.Evidence, ev)
	return p.drafts.Put(d)
}

func (p *Pipeline) replaceDraftEvidence(k draft.Key, localID string, ev draft.Evidence) error {
	d, err := p.drafts.Get(k)
	if err != nil {
		return err
	}
	if d == nil {
		d = &draft.Draft{Key: k, Evidence: []draft.Evidence{ev}}
		return p.drafts.Put(d)
	}
	replaced := false
	for i := range d.Evidence {
		if d.Evidence[i].LocalID == localID && !d.Evidence[i].Confirmed() {
			d.Evidence[i] = ev
			replaced = true
			break
		}
	}
	if !replaced {
		d.Evidence = append(d.Evidence, ev)
	}
	return p.drafts.Put(d)
}

func (p *Pipeline) removeDraftEvidence(k draft.Key, ev draft.Evidence) error {
	d, err := p.drafts.Get(k)
	if err != nil || d == nil {
		return err
	}
	kept := d.Evidence[:0]
	for _, e := range d.Evidence {
		if e == ev {
			continue
		}
		kept = append(kept, e)
	}
	d.Evidence = kept
	return p.drafts.Put(d)
}

// appendAuthoritative 读-改-写权威证据列表
// 先重新读取服务器当前记录再追加,避免覆盖其他设备刚写入的 URL
func (p *Pipeline) appendAuthoritative(k draft.Key, url string) error {
	am, err := p.audits.FindByID(k.AuditID)
	if err != nil {
		return fmt.Errorf("failed to load audit %s: %w", k.AuditID, err)
	}
	a, err := am.ToDomain()
	if err != nil {
		return err
	}
	ans := a.Answer(k.SectionIndex, k.AnswerIndex)
	if ans == nil {
		return fmt.Errorf("answer not found: audit %s section %d answer %d", k.AuditID, k.SectionIndex, k.AnswerIndex)
	}
	act := ans.EnsureAction()
	for _, existing := range act.StoreImages {
		if existing == url {
			return nil
		}
	}
	act.StoreImages = append(act.StoreImages, url)
	now := time.Now()
	act.PhotoUploadedAt = &now
	return p.saveAudit(a)
}

// removeAuthoritative 从权威列表中移除 URL,条目只经显式删除离开列表
func (p *Pipeline) removeAuthoritative(k draft.Key, url string) error {
	am, err := p.audits.FindByID(k.AuditID)
	if err != nil {
		return fmt.Errorf("failed to load audit %s: %w", k.AuditID, err)
	}
	a, err := am.ToDomain()
	if err != nil {
		return err
	}
	ans := a.Answer(k.SectionIndex, k.AnswerIndex)
	if ans == nil || ans.Action == nil {
		return nil
	}
	kept := ans.Action.StoreImages[:0]
	for _, existing := range ans.Action.StoreImages {
		if existing != url {
			kept = append(kept, existing)
		}
	}
	ans.Action.StoreImages = kept
	return p.saveAudit(a)
}

func (p *Pipeline) saveAudit(a *audit.Audit) error {
	am, err := model.FromDomain(a)
	if err != nil {
		return err
	}
	if err := p.audits.Save(am); err != nil {
		return err
	}
	if p.notify != nil {
		p.notify.BroadcastAudit(a)
	}
	return nil
}
