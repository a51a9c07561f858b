package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"chat_inbox_server/internal/config"
	"chat_inbox_server/internal/dao/database"
	"chat_inbox_server/internal/dao/database/repository"
	"chat_inbox_server/internal/model"
	"chat_inbox_server/pkg/enum/message_type_enum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) repository.ChatHistoryRepository {
	t.Helper()
	cfg := &config.DatabaseConfig{Driver: "sqlite", SqlitePath: ":memory:", TableName: "n8n_chat_histories"}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	repos := database.NewRepositories(db, cfg)
	t.Cleanup(func() { _ = repos.Close() })
	return repos.ChatHistory
}

func row(sessionId, typ, content string, at time.Time) *model.ChatHistory {
	r := &model.ChatHistory{
		SessionId: sessionId,
		Message:   model.MessagePayload{Type: typ, Content: content},
	}
	if !at.IsZero() {
		r.CreatedAt = sql.NullTime{Time: at, Valid: true}
	}
	return r
}

func TestCreateAssignsIdAndTimestamp(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	r := row("line_alice", message_type_enum.Human, "hello", time.Time{})
	require.NoError(t, repo.Create(ctx, r))

	assert.NotZero(t, r.Id)
	assert.True(t, r.CreatedAt.Valid)

	rows, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "line_alice", rows[0].SessionId)
	assert.Equal(t, model.MessagePayload{Type: "human", Content: "hello"}, rows[0].Message)
}

func TestFindBySessionIdOrdersByTimestampThenId(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, row("line_alice", "human", "second", base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, row("messenger_bob", "human", "other", base)))
	require.NoError(t, repo.Create(ctx, row("line_alice", "human", "first", base)))
	require.NoError(t, repo.Create(ctx, row("line_alice", "ai", "tie", base.Add(time.Minute))))

	rows, err := repo.FindBySessionId(ctx, "line_alice")
	require.NoError(t, err)

	var contents []string
	for _, r := range rows {
		contents = append(contents, r.Message.Content)
	}
	assert.Equal(t, []string{"first", "second", "tie"}, contents)
}

func TestFindAllOrdersById(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, row("a", "human", "1", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, row("b", "human", "2", base)))

	rows, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Less(t, rows[0].Id, rows[1].Id)
	assert.Equal(t, "a", rows[0].SessionId)
}
