package inbox

import (
	"database/sql"
	"testing"
	"time"

	"chat_inbox_server/internal/model"
	"chat_inbox_server/pkg/enum/message_type_enum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) sql.NullTime {
	return sql.NullTime{Time: base.Add(time.Duration(minutes) * time.Minute), Valid: true}
}

func msg(id int64, sessionId, content string, ts sql.NullTime) model.ChatHistory {
	return model.ChatHistory{
		Id:        id,
		SessionId: sessionId,
		Message:   model.MessagePayload{Type: message_type_enum.Human, Content: content},
		CreatedAt: ts,
	}
}

func TestAggregateOneViewPerSession(t *testing.T) {
	rows := []model.ChatHistory{
		msg(1, "line_A", "a1", at(1)),
		msg(2, "ig_B", "b1", at(2)),
		msg(3, "line_A", "a2", at(3)),
		msg(4, "messenger_C", "c1", at(0)),
		msg(5, "ig_B", "b2", at(4)),
	}
	views := Aggregate(rows)
	require.Len(t, views, 3)

	ids := map[string]bool{}
	for _, v := range views {
		assert.False(t, ids[v.SessionId], "duplicate %s", v.SessionId)
		ids[v.SessionId] = true
	}
	assert.Equal(t, []string{"ig_B", "line_A", "messenger_C"}, []string{views[0].SessionId, views[1].SessionId, views[2].SessionId})
	assert.Equal(t, "b2", views[0].LastMessage)
	assert.Equal(t, "a2", views[1].LastMessage)
}

func TestAggregateLastMessageIsMaxTimestamp(t *testing.T) {
	// 行顺序与时间顺序不一致
	rows := []model.ChatHistory{
		msg(1, "line_A", "newest", at(10)),
		msg(2, "line_A", "older", at(5)),
		msg(3, "line_A", "oldest", at(1)),
	}
	views := Aggregate(rows)
	require.Len(t, views, 1)
	assert.Equal(t, "newest", views[0].LastMessage)
	require.NotNil(t, views[0].UpdatedAt)
	assert.True(t, views[0].UpdatedAt.Equal(at(10).Time))
}

func TestAggregateTieKeepsFirstSeen(t *testing.T) {
	rows := []model.ChatHistory{
		msg(1, "line_A", "first", at(3)),
		msg(2, "line_A", "second", at(3)),
	}
	views := Aggregate(rows)
	require.Len(t, views, 1)
	assert.Equal(t, "first", views[0].LastMessage)
}

func TestAggregateMissingTimestampsSortLast(t *testing.T) {
	rows := []model.ChatHistory{
		msg(1, "unknown_1", "no time", sql.NullTime{}),
		msg(2, "line_A", "a", at(1)),
		msg(3, "ig_B", "b", at(2)),
	}
	views := Aggregate(rows)
	require.Len(t, views, 3)
	assert.Equal(t, "ig_B", views[0].SessionId)
	assert.Equal(t, "line_A", views[1].SessionId)
	assert.Equal(t, "unknown_1", views[2].SessionId)
	assert.Nil(t, views[2].UpdatedAt)

	for i := 1; i < len(views); i++ {
		assert.False(t, viewTime(views[i]).After(viewTime(views[i-1])), "not sorted at %d", i)
	}
}

func TestAggregateTimestampedRowBeatsMissing(t *testing.T) {
	rows := []model.ChatHistory{
		msg(1, "line_A", "no time", sql.NullTime{}),
		msg(2, "line_A", "timed", at(1)),
	}
	views := Aggregate(rows)
	require.Len(t, views, 1)
	assert.Equal(t, "timed", views[0].LastMessage)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestAggregateAttachesPlatformAndPreview(t *testing.T) {
	long := "這是一段超過三十個字元的訊息內容，用來測試會話列表預覽的截斷行為是否正確"
	views := Aggregate([]model.ChatHistory{msg(1, "line_A", long, at(1))})
	require.Len(t, views, 1)
	assert.Equal(t, "LINE", views[0].Platform.Name)
	assert.Equal(t, long, views[0].LastMessage)
	assert.Equal(t, string([]rune(long)[:30])+"...", views[0].Preview)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))
	exact := "123456789012345678901234567890"
	assert.Equal(t, exact, Preview(exact))
	assert.Equal(t, exact+"...", Preview(exact+"x"))
}

func TestSortMessagesStableAscending(t *testing.T) {
	rows := []model.ChatHistory{
		msg(3, "line_A", "c", at(5)),
		msg(1, "line_A", "a", at(1)),
		msg(2, "line_A", "b-first", at(3)),
		msg(4, "line_A", "b-second", at(3)),
	}
	views := SortMessages(rows)
	require.Len(t, views, 4)
	got := []string{views[0].Content, views[1].Content, views[2].Content, views[3].Content}
	assert.Equal(t, []string{"a", "b-first", "b-second", "c"}, got)
	// 输入不被修改
	assert.Equal(t, "c", rows[0].Message.Content)
}

func TestSortMessagesDateSeparator(t *testing.T) {
	day2 := sql.NullTime{Time: base.Add(24 * time.Hour), Valid: true}
	rows := []model.ChatHistory{
		msg(1, "line_A", "a", at(0)),
		msg(2, "line_A", "b", at(10)),
		msg(3, "line_A", "c", day2),
	}
	views := SortMessages(rows)
	require.Len(t, views, 3)
	assert.Empty(t, views[0].DateSeparator)
	assert.Empty(t, views[1].DateSeparator)
	assert.Equal(t, dayOf(day2.Time), views[2].DateSeparator)
}
