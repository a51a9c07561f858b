package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// ConnManager 在线连接表，用于统计和停机时统一关闭
type ConnManager struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewConnManager 创建连接表
func NewConnManager() *ConnManager {
	return &ConnManager{clients: make(map[string]*Client)}
}

// Register 登记连接
func (m *ConnManager) Register(c *Client) {
	m.mu.Lock()
	m.clients[c.Uuid] = c
	n := len(m.clients)
	m.mu.Unlock()
	zap.L().Debug("ws client registered", zap.String("client_id", c.Uuid), zap.Int("online", n))
}

// Unregister 移除连接
func (m *ConnManager) Unregister(c *Client) {
	m.mu.Lock()
	delete(m.clients, c.Uuid)
	m.mu.Unlock()
}

// GetClient 按 id 查找连接
func (m *ConnManager) GetClient(id string) *Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clients[id]
}

// Count 在线连接数
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// CloseAll 关闭所有连接
func (m *ConnManager) CloseAll() {
	m.mu.RLock()
	clients := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	m.mu.RUnlock()
	for _, c := range clients {
		c.Close()
	}
}
