// Package message 处理客服发送消息和新建会话，发送后异步触发自动回复
package message

import (
	"context"
	"strings"
	"time"

	"chat_inbox_server/internal/dao/store"
	"chat_inbox_server/internal/dto/request"
	"chat_inbox_server/internal/dto/respond"
	"chat_inbox_server/internal/infrastructure/worker"
	"chat_inbox_server/internal/model"
	"chat_inbox_server/internal/service/inbox"
	"chat_inbox_server/pkg/constants"
	"chat_inbox_server/pkg/enum/message_type_enum"
	"chat_inbox_server/pkg/errorx"

	"go.uber.org/zap"
)

// Replier 生成并写入自动回复，responder.Service 满足该接口
type Replier interface {
	Reply(ctx context.Context, sessionId, humanText string) (string, int64, error)
}

// replyTimeout 异步回复在 delay 之外允许的最长耗时
const replyTimeout = 30 * time.Second

// messageService 消息业务逻辑实现
type messageService struct {
	store   store.MessageStore
	replier Replier
	pool    *worker.Pool
	delay   time.Duration
}

// NewMessageService 构造函数，pool 为空时同步回复
func NewMessageService(s store.MessageStore, replier Replier, pool *worker.Pool, delay time.Duration) *messageService {
	return &messageService{store: s, replier: replier, pool: pool, delay: delay}
}

// Send 写入 human 消息并异步触发自动回复，返回新消息 id
// 自动回复失败只记录日志，已写入的 human 消息保持不变
func (m *messageService) Send(ctx context.Context, sessionId, content string) (int64, error) {
	sessionId = strings.TrimSpace(sessionId)
	content = strings.TrimSpace(content)
	if sessionId == "" || content == "" {
		return 0, errorx.New(errorx.CodeInvalidParam, "会话和消息内容不能为空")
	}

	id, err := m.store.Insert(ctx, &model.ChatHistory{
		SessionId: sessionId,
		Message:   model.MessagePayload{Type: message_type_enum.Human, Content: content},
	})
	if err != nil {
		return 0, err
	}

	m.submitReply(sessionId, content)
	return id, nil
}

// CreateSession 以 <platform>_<identifier> 新建会话并发送第一条消息
func (m *messageService) CreateSession(ctx context.Context, req request.CreateSessionRequest) (*respond.CreateSessionRespond, error) {
	platform := strings.TrimSpace(req.Platform)
	identifier := strings.TrimSpace(req.Identifier)
	if !inbox.IsCreatable(platform) {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "不支持的平台: %s", req.Platform)
	}
	if identifier == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "会话标识不能为空")
	}

	sessionId := platform + constants.SESSION_ID_SEPARATOR + identifier
	id, err := m.Send(ctx, sessionId, req.Message)
	if err != nil {
		return nil, err
	}
	zap.L().Info("session created", zap.String("session_id", sessionId))
	return &respond.CreateSessionRespond{SessionId: sessionId, MessageId: id}, nil
}

// Close 等待进行中的自动回复完成
func (m *messageService) Close() {
	if m.pool != nil {
		m.pool.Close()
	}
}

func (m *messageService) submitReply(sessionId, content string) {
	reply := func() {
		// 请求已经返回，回复使用独立的 context
		ctx, cancel := context.WithTimeout(context.Background(), m.delay+replyTimeout)
		defer cancel()
		if _, _, err := m.replier.Reply(ctx, sessionId, content); err != nil {
			zap.L().Error("auto reply failed", zap.String("session_id", sessionId), zap.Error(err))
		}
	}
	if m.pool == nil {
		reply()
		return
	}
	m.pool.Submit(reply)
}
