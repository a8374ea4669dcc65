// Package container 依赖注入容器
package container

import (
	"fmt"
	"time"

	"github.com/esatkurtul80/AuditPro-sub000/internal/api"
	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/esatkurtul80/AuditPro-sub000/internal/config"
	"github.com/esatkurtul80/AuditPro-sub000/internal/database"
	"github.com/esatkurtul80/AuditPro-sub000/internal/draft"
	"github.com/esatkurtul80/AuditPro-sub000/internal/media"
	"github.com/esatkurtul80/AuditPro-sub000/internal/reconcile"
	"github.com/esatkurtul80/AuditPro-sub000/internal/repository"
	"github.com/esatkurtul80/AuditPro-sub000/internal/service"
	"github.com/esatkurtul80/AuditPro-sub000/internal/storage"
	"github.com/esatkurtul80/AuditPro-sub000/internal/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// snapshotFanout 权威快照的进程内分发
// 每次权威写入后先把快照合并进本机托管的草稿存储,再推给所有在线设备;
// 对账失败只记日志,不阻断触发广播的那次写入
type snapshotFanout struct {
	engine *reconcile.Engine
	hub    *websocket.Hub
	logger *logrus.Logger
}

func (f *snapshotFanout) BroadcastAudit(a *audit.Audit) {
	if err := f.engine.ApplySnapshot(a); err != nil {
		f.logger.WithError(err).WithField("audit_id", a.ID).
			Error("failed to reconcile drafts with snapshot")
	}
	f.hub.BroadcastAudit(a)
}

// Container 依赖注入容器
// 管理数据库、对象存储、草稿存储、服务和快照分发等全部依赖
type Container struct {
	db          *gorm.DB
	localDB     *gorm.DB
	logger      *logrus.Logger
	hub         *websocket.Hub
	audits      repository.AuditRepository
	drafts      draft.Store
	queue       *media.Queue
	pipeline    *media.Pipeline
	reconciler  *reconcile.Engine
	auditSvc    service.AuditService
	actionSvc   service.ActionService
	activityLog service.ActivityLogService
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := api.NewLoggerFromConfig(&cfg.Log)
	api.SetLogger(logger)

	// 1. 初始化权威数据库(带重试机制)
	// 默认重试 3 次,初始间隔 1 秒,指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 2. 初始化本地存储(草稿 + 离线媒体队列)
	localDB, err := database.OpenLocal(cfg.Local.DraftsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := database.MigrateLocal(localDB); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	// 3. 初始化对象存储客户端
	objStorage, err := storage.NewMinioStorage(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.UseSSL,
		cfg.Storage.PublicURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// 4. 初始化快照分发 Hub
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 5. 初始化仓储和本地组件
	audits := repository.NewAuditRepository(db)
	catalog := repository.NewQuestionCatalog(db)
	drafts := draft.NewStore(localDB)
	queue := media.NewQueue(localDB)
	pipeline := media.NewPipeline(objStorage, drafts, audits, queue, logger)

	// 6. 初始化对账引擎,并把它挂进快照分发链路
	// 流程流转和证据变更的每次权威写入都经由 fanout 触发对账与广播
	reconciler := reconcile.NewEngine(drafts, logger)
	fanout := &snapshotFanout{engine: reconciler, hub: hub, logger: logger}
	pipeline.SetNotifier(fanout)

	// 7. 初始化服务
	activityLog := service.NewActivityLogService(repository.NewActivityLogRepository(db))
	auditSvc := service.NewAuditService(audits, catalog, activityLog, fanout)
	actionSvc := service.NewActionService(audits, activityLog, fanout)

	return &Container{
		db:          db,
		localDB:     localDB,
		logger:      logger,
		hub:         hub,
		audits:      audits,
		drafts:      drafts,
		queue:       queue,
		pipeline:    pipeline,
		reconciler:  reconciler,
		auditSvc:    auditSvc,
		actionSvc:   actionSvc,
		activityLog: activityLog,
	}, nil
}

// DB 获取权威数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Logger 获取日志记录器
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// Hub 获取快照分发 Hub
func (c *Container) Hub() *websocket.Hub {
	return c.hub
}

// AuditRepository 获取审计仓储
func (c *Container) AuditRepository() repository.AuditRepository {
	return c.audits
}

// Drafts 获取草稿存储
func (c *Container) Drafts() draft.Store {
	return c.drafts
}

// Pipeline 获取媒体上传管线
func (c *Container) Pipeline() *media.Pipeline {
	return c.pipeline
}

// Reconciler 获取快照对账引擎
func (c *Container) Reconciler() *reconcile.Engine {
	return c.reconciler
}

// AuditService 获取审计服务
func (c *Container) AuditService() service.AuditService {
	return c.auditSvc
}

// ActionService 获取整改流程服务
func (c *Container) ActionService() service.ActionService {
	return c.actionSvc
}

// ActivityLogService 获取活动日志服务
func (c *Container) ActivityLogService() service.ActivityLogService {
	return c.activityLog
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.localDB != nil {
		if sqlDB, err := c.localDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if c.db != nil {
		if sqlDB, err := c.db.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
