package media

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/esatkurtul80/AuditPro-sub000/internal/database"
	"github.com/esatkurtul80/AuditPro-sub000/internal/draft"
	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"github.com/esatkurtul80/AuditPro-sub000/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage 测试用对象存储
type fakeStorage struct {
	objects    map[string][]byte
	failPut    bool
	failRemove bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.failPut {
		return "", errors.New("upload failed")
	}
	f.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) Remove(_ context.Context, key string) error {
	if f.failRemove {
		return errors.New("remove failed")
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, "https://cdn.test/") {
		return "", false
	}
	return strings.TrimPrefix(url, "https://cdn.test/"), true
}

type pipelineFixture struct {
	pipeline *Pipeline
	storage  *fakeStorage
	drafts   draft.Store
	audits   repository.AuditRepository
	key      draft.Key
}

func setupPipeline(t *testing.T) *pipelineFixture {
	t.Helper()
	dir := t.TempDir()

	local, err := database.OpenLocal(filepath.Join(dir, "local.db"))
	require.NoError(t, err)
	require.NoError(t, database.MigrateLocal(local))

	authDB, err := database.OpenLocal(filepath.Join(dir, "auth.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(authDB))

	repo := repository.NewAuditRepository(authDB)
	a := &audit.Audit{
		ID: "audit-001", StoreID: "store-001", AuditorID: "user-001",
		Status: audit.AuditCompleted,
		Sections: []audit.Section{
			{
				Name: "卫生",
				Answers: []audit.Answer{
					{QuestionID: "q1", Type: audit.TypeYesNo, MaxPoints: 10, EarnedPoints: 10,
						Value: audit.YesNoValue{Yes: true}},
					{QuestionID: "q2", Type: audit.TypeYesNo, MaxPoints: 10,
						Value: audit.YesNoValue{Yes: false},
						Action: &audit.ActionData{Status: audit.StatusPendingStore, StoreImages: []string{}}},
				},
			},
		},
	}
	am, err := model.FromDomain(a)
	require.NoError(t, err)
	require.NoError(t, repo.Save(am))

	st := newFakeStorage()
	drafts := draft.NewStore(local)
	return &pipelineFixture{
		pipeline: NewPipeline(st, drafts, repo, NewQueue(local), nil),
		storage:  st,
		drafts:   drafts,
		audits:   repo,
		key:      draft.Key{AuditID: "audit-001", SectionIndex: 0, AnswerIndex: 1},
	}
}

func (f *pipelineFixture) authoritativeImages(t *testing.T) []string {
	t.Helper()
	am, err := f.audits.FindByID("audit-001")
	require.NoError(t, err)
	a, err := am.ToDomain()
	require.NoError(t, err)
	ans := a.Answer(f.key.SectionIndex, f.key.AnswerIndex)
	require.NotNil(t, ans)
	require.NotNil(t, ans.Action)
	return ans.Action.StoreImages
}

// TestPipeline_AttachOnline 测试在线上传:草稿确认 + 权威列表追加
func TestPipeline_AttachOnline(t *testing.T) {
	f := setupPipeline(t)

	ev, err := f.pipeline.Attach(context.Background(), f.key, "photo.jpg", "image/jpeg", []byte("raw-bytes"))
	require.NoError(t, err)
	require.True(t, ev.Confirmed())
	assert.True(t, strings.HasPrefix(ev.URL, "https://cdn.test/audit-001/"))

	// pending 条目被持久 URL 替换,不留重复
	d, err := f.drafts.Get(f.key)
	require.NoError(t, err)
	require.NotNil(t, d)
	require.Len(t, d.Evidence, 1)
	assert.Equal(t, ev.URL, d.Evidence[0].URL)

	// 权威列表追加 URL 并盖上传时间戳
	assert.Equal(t, []string{ev.URL}, f.authoritativeImages(t))
	am, err := f.audits.FindByID("audit-001")
	require.NoError(t, err)
	a, err := am.ToDomain()
	require.NoError(t, err)
	assert.NotNil(t, a.Answer(0, 1).Action.PhotoUploadedAt)
}

// TestPipeline_AttachUploadFails 测试上传失败时 pending 条目保留等待重试
func TestPipeline_AttachUploadFails(t *testing.T) {
	f := setupPipeline(t)
	f.storage.failPut = true

	ev, err := f.pipeline.Attach(context.Background(), f.key, "photo.jpg", "image/jpeg", []byte("raw-bytes"))
	require.Error(t, err)
	assert.False(t, ev.Confirmed())
	assert.NotEmpty(t, ev.LocalID)

	d, err := f.drafts.Get(f.key)
	require.NoError(t, err)
	require.NotNil(t, d)
	require.Len(t, d.Evidence, 1)
	assert.False(t, d.Evidence[0].Confirmed())

	// 权威列表不受影响
	assert.Empty(t, f.authoritativeImages(t))
}

// TestPipeline_AttachOffline 测试离线时字节落入持久队列
func TestPipeline_AttachOffline(t *testing.T) {
	f := setupPipeline(t)
	f.pipeline.SetOnline(false)

	ev, err := f.pipeline.Attach(context.Background(), f.key, "photo.jpg", "image/jpeg", []byte("raw-bytes"))
	require.NoError(t, err)
	assert.False(t, ev.Confirmed())

	items, err := f.pipeline.ListPendingMedia()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ev.LocalID, items[0].ID)
	assert.Equal(t, []byte("raw-bytes"), items[0].Original)
	assert.Equal(t, "audit-001", items[0].AuditID)

	// 不触碰对象存储和权威记录
	assert.Empty(t, f.storage.objects)
	assert.Empty(t, f.authoritativeImages(t))
}

// TestPipeline_DeleteConfirmed 测试删除已确认证据
func TestPipeline_DeleteConfirmed(t *testing.T) {
	f := setupPipeline(t)
	ev, err := f.pipeline.Attach(context.Background(), f.key, "photo.jpg", "image/jpeg", []byte("raw-bytes"))
	require.NoError(t, err)

	require.NoError(t, f.pipeline.Delete(context.Background(), f.key, ev))

	assert.Empty(t, f.authoritativeImages(t))
	assert.Empty(t, f.storage.objects)
	d, err := f.drafts.Get(f.key)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Empty(t, d.Evidence)
}

// TestPipeline_DeleteSurvivesStorageFailure 测试对象删除失败不阻断权威列表移除
func TestPipeline_DeleteSurvivesStorageFailure(t *testing.T) {
	f := setupPipeline(t)
	ev, err := f.pipeline.Attach(context.Background(), f.key, "photo.jpg", "image/jpeg", []byte("raw-bytes"))
	require.NoError(t, err)

	f.storage.failRemove = true
	require.NoError(t, f.pipeline.Delete(context.Background(), f.key, ev))

	// 对象还在存储里,但 URL 已从权威列表消失
	assert.Len(t, f.storage.objects, 1)
	assert.Empty(t, f.authoritativeImages(t))
}

// TestPipeline_DeletePending 测试撤销排队中的证据
func TestPipeline_DeletePending(t *testing.T) {
	f := setupPipeline(t)
	f.pipeline.SetOnline(false)
	ev, err := f.pipeline.Attach(context.Background(), f.key, "photo.jpg", "image/jpeg", []byte("raw-bytes"))
	require.NoError(t, err)

	require.NoError(t, f.pipeline.Delete(context.Background(), f.key, ev))

	items, err := f.pipeline.ListPendingMedia()
	require.NoError(t, err)
	assert.Empty(t, items)
	d, err := f.drafts.Get(f.key)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Empty(t, d.Evidence)
}

// TestPipeline_MarkUploaded 测试外部上传器回报完成
func TestPipeline_MarkUploaded(t *testing.T) {
	f := setupPipeline(t)
	f.pipeline.SetOnline(false)
	ev, err := f.pipeline.Attach(context.Background(), f.key, "photo.jpg", "image/jpeg", []byte("raw-bytes"))
	require.NoError(t, err)

	require.NoError(t, f.pipeline.MarkUploaded(ev.LocalID))

	items, err := f.pipeline.ListPendingMedia()
	require.NoError(t, err)
	assert.Empty(t, items)
}
