// Package store 组合聊天记录仓储与变更订阅，对上层提供消息存储契约
package store

import (
	"context"
	"time"

	"chat_inbox_server/internal/dao/database/repository"
	"chat_inbox_server/internal/infrastructure/mq"
	"chat_inbox_server/internal/model"
	"chat_inbox_server/pkg/errorx"

	"go.uber.org/zap"
)

// MessageStore 消息存储：查询、追加写入和变更订阅
type MessageStore interface {
	// Select 按范围查询，空范围返回全部行
	Select(ctx context.Context, filter mq.Filter) ([]model.ChatHistory, error)
	// Insert 追加一行并返回新 id，成功后发布 INSERT 事件
	Insert(ctx context.Context, row *model.ChatHistory) (int64, error)
	// Subscribe 订阅范围内的变更
	Subscribe(ctx context.Context, filter mq.Filter, handler mq.Handler) (mq.Subscription, error)
	// Unsubscribe 释放订阅
	Unsubscribe(sub mq.Subscription) error
}

type messageStore struct {
	repo      repository.ChatHistoryRepository
	feed      mq.Feed
	publisher mq.Publisher
}

// New 创建 MessageStore
func New(repo repository.ChatHistoryRepository, feed mq.Feed, publisher mq.Publisher) MessageStore {
	return &messageStore{repo: repo, feed: feed, publisher: publisher}
}

func (s *messageStore) Select(ctx context.Context, filter mq.Filter) ([]model.ChatHistory, error) {
	if filter.IsAll() {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindBySessionId(ctx, filter.SessionId)
}

func (s *messageStore) Insert(ctx context.Context, row *model.ChatHistory) (int64, error) {
	if row == nil || row.SessionId == "" {
		return 0, errorx.New(errorx.CodeInvalidParam, "session_id 不能为空")
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return 0, err
	}

	event := mq.Event{Type: mq.EventInsert, SessionId: row.SessionId, RowId: row.Id, At: time.Now()}
	// 行已经写入，通知失败只影响实时刷新
	if err := s.publisher.Publish(ctx, event); err != nil {
		zap.L().Error("publish insert event",
			zap.String("session_id", row.SessionId),
			zap.Int64("row_id", row.Id),
			zap.Error(err),
		)
	}
	return row.Id, nil
}

func (s *messageStore) Subscribe(ctx context.Context, filter mq.Filter, handler mq.Handler) (mq.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeFeedError, "订阅已取消")
	}
	sub, err := s.feed.Subscribe(filter, handler)
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeFeedError, "订阅 %s", filter)
	}
	return sub, nil
}

func (s *messageStore) Unsubscribe(sub mq.Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Unsubscribe()
}
