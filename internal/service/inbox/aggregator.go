// Package inbox 实现收件箱的会话聚合、消息排序和实时视图
package inbox

import (
	"sort"
	"time"
	"unicode/utf8"

	"chat_inbox_server/internal/dto/respond"
	"chat_inbox_server/internal/model"
	"chat_inbox_server/pkg/constants"
)

// Aggregate 按 session_id 分组，每个会话取时间戳最大的一条作为最后消息
// 时间戳相同时保留先出现的那条；结果按 UpdatedAt 降序，无时间戳的排在最后
func Aggregate(rows []model.ChatHistory) []respond.SessionView {
	order := make([]string, 0)
	latest := make(map[string]int, len(rows))

	for i := range rows {
		idx, seen := latest[rows[i].SessionId]
		if !seen {
			order = append(order, rows[i].SessionId)
			latest[rows[i].SessionId] = i
			continue
		}
		if timestampOf(rows[i]).After(timestampOf(rows[idx])) {
			latest[rows[i].SessionId] = i
		}
	}

	views := make([]respond.SessionView, 0, len(order))
	for _, sessionId := range order {
		last := rows[latest[sessionId]]
		views = append(views, respond.SessionView{
			SessionId:   sessionId,
			LastMessage: last.Message.Content,
			Preview:     Preview(last.Message.Content),
			UpdatedAt:   timePtr(last.CreatedAt.Valid, last.CreatedAt.Time),
			Platform:    Classify(sessionId),
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return viewTime(views[i]).After(viewTime(views[j]))
	})
	return views
}

// SortMessages 按 created_at 升序排列单个会话的消息，时间相同保持原顺序
// 与上一条消息不在同一天时填写 DateSeparator
func SortMessages(rows []model.ChatHistory) []respond.MessageView {
	sorted := make([]model.ChatHistory, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return timestampOf(sorted[i]).Before(timestampOf(sorted[j]))
	})

	views := make([]respond.MessageView, 0, len(sorted))
	for i, row := range sorted {
		view := respond.MessageView{
			Id:        row.Id,
			Type:      row.Message.Type,
			Content:   row.Message.Content,
			CreatedAt: timePtr(row.CreatedAt.Valid, row.CreatedAt.Time),
		}
		if i > 0 && row.CreatedAt.Valid && sorted[i-1].CreatedAt.Valid {
			day := dayOf(row.CreatedAt.Time)
			if day != dayOf(sorted[i-1].CreatedAt.Time) {
				view.DateSeparator = day
			}
		}
		views = append(views, view)
	}
	return views
}

// Preview 会话列表预览，超过 30 个字符截断并追加 "..."
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= constants.PREVIEW_MAX_RUNES {
		return content
	}
	runes := []rune(content)
	return string(runes[:constants.PREVIEW_MAX_RUNES]) + "..."
}

// timestampOf 缺失的时间戳按 0 时间处理
func timestampOf(row model.ChatHistory) time.Time {
	if !row.CreatedAt.Valid {
		return time.Time{}
	}
	return row.CreatedAt.Time
}

func viewTime(v respond.SessionView) time.Time {
	if v.UpdatedAt == nil {
		return time.Time{}
	}
	return *v.UpdatedAt
}

func timePtr(valid bool, t time.Time) *time.Time {
	if !valid {
		return nil
	}
	return &t
}

// dayOf 按服务器本地时区划分日期
func dayOf(t time.Time) string {
	return t.Local().Format(time.DateOnly)
}
