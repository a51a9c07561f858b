package inbox

import (
	"context"
	"strings"

	"chat_inbox_server/internal/dao/store"
	"chat_inbox_server/internal/dto/respond"
	"chat_inbox_server/internal/infrastructure/mq"
	"chat_inbox_server/pkg/errorx"
)

// inboxService 收件箱查询
type inboxService struct {
	store store.MessageStore
}

// NewInboxService 构造函数
func NewInboxService(s store.MessageStore) *inboxService {
	return &inboxService{store: s}
}

// ListSessions 拉取全部行并聚合为会话列表
func (s *inboxService) ListSessions(ctx context.Context) ([]respond.SessionView, error) {
	rows, err := s.store.Select(ctx, mq.AllSessions())
	if err != nil {
		return nil, err
	}
	return Aggregate(rows), nil
}

// ListMessages 单个会话的消息，按 created_at 升序
func (s *inboxService) ListMessages(ctx context.Context, sessionId string) (*respond.SessionMessagesRespond, error) {
	sessionId = strings.TrimSpace(sessionId)
	if sessionId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "session_id 不能为空")
	}
	rows, err := s.store.Select(ctx, mq.ForSession(sessionId))
	if err != nil {
		return nil, err
	}
	return &respond.SessionMessagesRespond{
		SessionId: sessionId,
		Platform:  Classify(sessionId),
		Messages:  SortMessages(rows),
	}, nil
}

// Platforms 新建会话可选平台
func (s *inboxService) Platforms() []respond.PlatformOption {
	return Platforms()
}

// NewView 为一个客户端连接创建实时视图
func (s *inboxService) NewView(sink Sink) *View {
	return NewView(s.store, sink)
}
