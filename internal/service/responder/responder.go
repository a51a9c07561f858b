// Package responder 实现自动回复存根：按关键字规则选择固定回复并写回同一会话
package responder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chat_inbox_server/internal/dao/store"
	"chat_inbox_server/internal/model"
	"chat_inbox_server/pkg/enum/message_type_enum"
	"chat_inbox_server/pkg/errorx"

	"go.uber.org/zap"
)

// rule 任一 pattern 出现在小写后的消息中即命中
type rule struct {
	name     string
	patterns []string
	reply    string
}

// rules 按优先级排列，第一条命中即返回
var rules = []rule{
	{name: "greeting", patterns: []string{"hello", "hi"}, reply: "你好！有什麼我可以幫助你的嗎？"},
	{name: "well_being", patterns: []string{"how are you", "how's it going"}, reply: "我很好，謝謝關心！你呢？"},
	{name: "gratitude", patterns: []string{"thank"}, reply: "不客氣！隨時都可以問我問題。"},
	{name: "question", patterns: []string{"?", "？"}, reply: "這是個好問題。讓我思考一下... 基於目前的資訊，我建議可以從以下幾個方向思考這個問題..."},
}

const defaultReplyFormat = "我收到了你的訊息：「%s」。我會盡快處理並回覆你。"

// Respond 根据用户消息生成回复，没有副作用
func Respond(humanText string) string {
	reply, _ := match(humanText)
	return reply
}

// match 返回回复和命中的规则名，未命中时规则名为 "default"
func match(humanText string) (reply, ruleName string) {
	lower := strings.ToLower(humanText)
	for _, r := range rules {
		for _, p := range r.patterns {
			if strings.Contains(lower, p) {
				return r.reply, r.name
			}
		}
	}
	return fmt.Sprintf(defaultReplyFormat, humanText), "default"
}

// Service 生成回复并以 ai 消息写回会话
type Service struct {
	store store.MessageStore
	delay time.Duration
}

// NewService 创建回复服务，delay 为写回前的模拟思考时间
func NewService(s store.MessageStore, delay time.Duration) *Service {
	return &Service{store: s, delay: delay}
}

// Reply 等待 delay 后写入 ai 回复，返回回复内容和新消息 id
// 写入失败时返回错误，触发回复的 human 消息不受影响
func (s *Service) Reply(ctx context.Context, sessionId, humanText string) (string, int64, error) {
	if sessionId == "" || humanText == "" {
		return "", 0, errorx.New(errorx.CodeInvalidParam, "Missing session_id or message")
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", 0, errorx.Wrap(ctx.Err(), errorx.CodeServerBusy, "回复已取消")
		case <-timer.C:
		}
	}

	reply, ruleName := match(humanText)
	id, err := s.store.Insert(ctx, &model.ChatHistory{
		SessionId: sessionId,
		Message:   model.MessagePayload{Type: message_type_enum.AI, Content: reply},
	})
	if err != nil {
		zap.L().Error("persist ai reply failed", zap.String("session_id", sessionId), zap.Error(err))
		return "", 0, err
	}
	zap.L().Debug("ai reply persisted",
		zap.String("session_id", sessionId),
		zap.String("rule", ruleName),
		zap.Int64("row_id", id),
	)
	return reply, id, nil
}
