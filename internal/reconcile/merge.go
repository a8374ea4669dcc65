// Package reconcile 将权威快照合并进本地草稿
//
// 同一整改流程可能同时在多台设备打开,或在离线状态下编辑。服务器记录
// 是权威的,但本地正在输入的文字和尚未上传的证据不能被快照摧毁,
// 其他设备执行的删除又必须在本地生效。合并对确认证据集是幂等且收敛
// 的;两台离线设备各自写下非空说明时,本地文字保留、服务器文字被忽略,
// 这一分歧无法收敛,属于已知的未解决行为
package reconcile

import (
	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/esatkurtul80/AuditPro-sub000/internal/draft"
	"github.com/esatkurtul80/AuditPro-sub000/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Merge 将服务器整改数据合并进单条本地草稿,返回合并结果
// local 为 nil 时原样采纳服务器数据
//
// 合并规则:
//  1. 已确认证据子集被替换为服务器当前的 storeImages 列表,
//     既补上其他设备上传的 URL,也剔除其他设备删除的 URL
//  2. pending 证据全部保留,接在刷新后的确认列表之后
//  3. 仅当本地说明为空时采纳服务器说明,绝不覆盖本地已有文字
func Merge(local *draft.Draft, k draft.Key, server *audit.ActionData) *draft.Draft {
	if local == nil {
		d := &draft.Draft{Key: k, Note: server.StoreNote}
		for _, url := range server.StoreImages {
			d.Evidence = append(d.Evidence, draft.Evidence{URL: url})
		}
		return d
	}

	merged := &draft.Draft{Key: local.Key, Note: local.Note}
	if merged.Note == "" {
		merged.Note = server.StoreNote
	}
	for _, url := range server.StoreImages {
		merged.Evidence = append(merged.Evidence, draft.Evidence{URL: url})
	}
	for _, ev := range local.Evidence {
		if !ev.Confirmed() {
			merged.Evidence = append(merged.Evidence, ev)
		}
	}
	return merged
}

// Engine 对账引擎,把完整审计快照逐条合并进草稿存储
type Engine struct {
	drafts draft.Store
	logger *logrus.Logger
}

// NewEngine 创建对账引擎
func NewEngine(drafts draft.Store, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{drafts: drafts, logger: logger}
}

// ApplySnapshot 应用一份权威审计快照
// 只处理状态为 pending_store 或 rejected 且服务器侧说明或证据非空的
// 答案;对不变的快照重复应用是无操作
func (e *Engine) ApplySnapshot(a *audit.Audit) error {
	for si := range a.Sections {
		for ai := range a.Sections[si].Answers {
			ans := &a.Sections[si].Answers[ai]
			if ans.Action == nil {
				continue
			}
			status := audit.NormalizeStatus(ans.Action.Status)
			if status != audit.StatusPendingStore && status != audit.StatusRejected {
				continue
			}
			if ans.Action.StoreNote == "" && len(ans.Action.StoreImages) == 0 {
				continue
			}
			k := draft.Key{AuditID: a.ID, SectionIndex: si, AnswerIndex: ai}
			local, err := e.drafts.Get(k)
			if err != nil {
				return err
			}
			merged := Merge(local, k, ans.Action)
			if local != nil && equal(local, merged) {
				continue
			}
			if err := e.drafts.Put(merged); err != nil {
				return err
			}
			metrics.RecordReconcile()
			e.logger.WithFields(logrus.Fields{
				"audit_id": a.ID,
				"section":  si,
				"answer":   ai,
			}).Debug("draft reconciled against server snapshot")
		}
	}
	return nil
}

func equal(a, b *draft.Draft) bool {
	if a.Note != b.Note || len(a.Evidence) != len(b.Evidence) {
		return false
	}
	for i := range a.Evidence {
		if a.Evidence[i] != b.Evidence[i] {
			return false
		}
	}
	return true
}
