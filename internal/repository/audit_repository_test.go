package repository_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/esatkurtul80/AuditPro-sub000/internal/database"
	"github.com/esatkurtul80/AuditPro-sub000/internal/model"
	"github.com/esatkurtul80/AuditPro-sub000/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) repository.AuditRepository {
	t.Helper()
	db, err := database.OpenLocal(filepath.Join(t.TempDir(), "audits.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return repository.NewAuditRepository(db)
}

func newModel(t *testing.T, id, storeID, status string, resolved bool) *model.AuditModel {
	t.Helper()
	am, err := model.FromDomain(&audit.Audit{
		ID: id, StoreID: storeID, AuditorID: "user-001",
		Status:             audit.AuditStatus(status),
		AllActionsResolved: resolved,
		Sections: []audit.Section{
			{Name: "S1", Answers: []audit.Answer{
				{QuestionID: "q1", Type: audit.TypeYesNo, MaxPoints: 10, Value: audit.YesNoValue{Yes: true}},
			}},
		},
	})
	require.NoError(t, err)
	return am
}

// TestAuditRepository_SaveAndFind 测试整文档保存与按 ID 读取
func TestAuditRepository_SaveAndFind(t *testing.T) {
	repo := setupRepo(t)
	am := newModel(t, "audit-001", "store-001", "completed", false)
	require.NoError(t, repo.Save(am))

	got, err := repo.FindByID("audit-001")
	require.NoError(t, err)
	assert.Equal(t, "store-001", got.StoreID)

	// 文档能完整还原
	a, err := got.ToDomain()
	require.NoError(t, err)
	require.Len(t, a.Sections, 1)
	assert.Equal(t, "q1", a.Sections[0].Answers[0].QuestionID)
	v, ok := a.Sections[0].Answers[0].Value.(audit.YesNoValue)
	require.True(t, ok)
	assert.True(t, v.Yes)
}

// TestAuditRepository_SaveReplaces 测试同 ID 重复保存是整行替换
func TestAuditRepository_SaveReplaces(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, repo.Save(newModel(t, "audit-001", "store-001", "in_progress", false)))
	require.NoError(t, repo.Save(newModel(t, "audit-001", "store-001", "completed", true)))

	got, err := repo.FindByID("audit-001")
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.True(t, got.AllActionsResolved)
}

// TestAuditRepository_FindMissing 测试不存在的 ID 返回 gorm.ErrRecordNotFound
func TestAuditRepository_FindMissing(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.FindByID("audit-404")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// TestAuditRepository_SaveInvalid 测试缺字段的模型被拒绝
func TestAuditRepository_SaveInvalid(t *testing.T) {
	repo := setupRepo(t)
	assert.Error(t, repo.Save(&model.AuditModel{ID: "audit-001"}))
}

// TestAuditRepository_FindByFilter 测试组合过滤
func TestAuditRepository_FindByFilter(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, repo.Save(newModel(t, "audit-001", "store-001", "completed", true)))
	require.NoError(t, repo.Save(newModel(t, "audit-002", "store-001", "completed", false)))
	require.NoError(t, repo.Save(newModel(t, "audit-003", "store-002", "in_progress", false)))

	storeID := "store-001"
	got, err := repo.FindByFilter(&repository.AuditFilter{StoreID: &storeID})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	resolved := true
	got, err = repo.FindByFilter(&repository.AuditFilter{StoreID: &storeID, Resolved: &resolved})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "audit-001", got[0].ID)

	status := "in_progress"
	got, err = repo.FindByFilter(&repository.AuditFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "audit-003", got[0].ID)

	// nil 过滤器返回全部
	got, err = repo.FindByFilter(nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	future := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	got, err = repo.FindByFilter(&repository.AuditFilter{StartTime: &future})
	require.NoError(t, err)
	assert.Empty(t, got)
}
