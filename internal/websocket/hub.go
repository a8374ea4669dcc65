// Package websocket 权威快照的实时分发
// 每次整改流转或证据变更写入权威记录后,Hub 把最新的审计文档推给
// 所有在线设备;设备侧将收到的快照交给对账引擎合并进本地草稿
package websocket

import (
	"encoding/json"
	"sync"

	"github.com/esatkurtul80/AuditPro-sub000/internal/audit"
	"github.com/sirupsen/logrus"
)

// SnapshotMessage 推送给设备的快照消息
type SnapshotMessage struct {
	Type  string       `json:"type"`
	Audit *audit.Audit `json:"audit"`
}

// Hub 管理所有设备连接
type Hub struct {
	// 已注册的设备
	clients map[*Client]bool

	// 广播消息到所有设备
	Broadcast chan []byte

	// 注册新设备
	Register chan *Client

	// 注销设备
	Unregister chan *Client

	// 互斥锁,保护 clients map
	mu sync.RWMutex

	logger *logrus.Logger
}

// NewHub 创建新的 Hub
func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.New()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run 运行 Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastAudit 把权威审计快照推给所有在线设备
// 序列化失败只记日志,不影响触发广播的那次写入
func (h *Hub) BroadcastAudit(a *audit.Audit) {
	msg, err := json.Marshal(SnapshotMessage{Type: "audit_updated", Audit: a})
	if err != nil {
		h.logger.WithError(err).Error("failed to encode audit snapshot")
		return
	}
	h.Broadcast <- msg
}

// ClientCount 获取在线设备数量
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HasDevice 检查设备是否在线
func (h *Hub) HasDevice(deviceID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.DeviceID == deviceID {
			return true
		}
	}
	return false
}
