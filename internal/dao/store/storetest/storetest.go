// Package storetest 为测试提供基于内存 SQLite 的 MessageStore
package storetest

import (
	"context"
	"sync"
	"testing"

	"chat_inbox_server/internal/config"
	"chat_inbox_server/internal/dao/database"
	"chat_inbox_server/internal/dao/store"
	"chat_inbox_server/internal/infrastructure/mq"
	"chat_inbox_server/internal/model"

	"github.com/stretchr/testify/require"
)

// New 创建内存库和本地 Hub，测试结束时关闭
func New(t *testing.T) (store.MessageStore, *mq.Hub) {
	t.Helper()
	cfg := &config.DatabaseConfig{Driver: "sqlite", SqlitePath: ":memory:", TableName: "n8n_chat_histories"}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	repos := database.NewRepositories(db, cfg)
	hub := mq.NewHub()
	t.Cleanup(func() {
		_ = hub.Close()
		_ = repos.Close()
	})
	return store.New(repos.ChatHistory, hub, hub), hub
}

// Faulty 可注入错误的 MessageStore
type Faulty struct {
	store.MessageStore

	mu        sync.Mutex
	selectErr error
	insertErr error
	inserts   int
}

// NewFaulty 包装一个可用的 MessageStore
func NewFaulty(inner store.MessageStore) *Faulty {
	return &Faulty{MessageStore: inner}
}

// FailSelect 之后的 Select 返回 err，传 nil 恢复
func (f *Faulty) FailSelect(err error) {
	f.mu.Lock()
	f.selectErr = err
	f.mu.Unlock()
}

// FailInsert 之后的 Insert 返回 err，传 nil 恢复
func (f *Faulty) FailInsert(err error) {
	f.mu.Lock()
	f.insertErr = err
	f.mu.Unlock()
}

// Inserts 成功写入次数
func (f *Faulty) Inserts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserts
}

func (f *Faulty) Select(ctx context.Context, filter mq.Filter) ([]model.ChatHistory, error) {
	f.mu.Lock()
	err := f.selectErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.MessageStore.Select(ctx, filter)
}

func (f *Faulty) Insert(ctx context.Context, row *model.ChatHistory) (int64, error) {
	f.mu.Lock()
	err := f.insertErr
	f.mu.Unlock()
	if err != nil {
		return 0, err
	}
	id, err := f.MessageStore.Insert(ctx, row)
	if err == nil {
		f.mu.Lock()
		f.inserts++
		f.mu.Unlock()
	}
	return id, err
}
