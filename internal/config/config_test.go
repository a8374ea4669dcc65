package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/esatkurtul80/AuditPro-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault 测试默认配置覆盖所有启动必需的字段
func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "corrective", cfg.Database.DBName)
	assert.Equal(t, "./corrective.db", cfg.Database.Path)
	assert.Equal(t, "corrective-evidence", cfg.Storage.Bucket)
	// 草稿和离线媒体队列共用同一个本地库文件
	assert.Equal(t, "./data/drafts.db", cfg.Local.DraftsPath)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.NotEmpty(t, cfg.Log.Level)
}

// TestLoad_ConfigFile 测试从 yaml 文件加载并与默认值合并
func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9090\nlocal:\n  drafts_path: /tmp/x/local.db\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/x/local.db", cfg.Local.DraftsPath)
	// 未覆盖的字段保持默认
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

// TestIsProduction 测试环境判断
func TestIsProduction(t *testing.T) {
	assert.False(t, config.IsProduction(nil))
	assert.False(t, config.IsProduction(&config.Config{Env: "development"}))
	assert.True(t, config.IsProduction(&config.Config{Env: "production"}))
}
