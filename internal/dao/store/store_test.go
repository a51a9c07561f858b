package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chat_inbox_server/internal/dao/store"
	"chat_inbox_server/internal/dao/store/storetest"
	"chat_inbox_server/internal/infrastructure/mq"
	"chat_inbox_server/internal/model"
	"chat_inbox_server/pkg/enum/message_type_enum"
	"chat_inbox_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func humanRow(sessionId, content string) *model.ChatHistory {
	return &model.ChatHistory{
		SessionId: sessionId,
		Message:   model.MessagePayload{Type: message_type_enum.Human, Content: content},
	}
}

func TestInsertPublishesEvent(t *testing.T) {
	s, _ := storetest.New(t)
	ctx := context.Background()

	var mu sync.Mutex
	var got []mq.Event
	sub, err := s.Subscribe(ctx, mq.ForSession("line_U1"), func(e mq.Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer s.Unsubscribe(sub)

	id, err := s.Insert(ctx, humanRow("line_U1", "hello"))
	require.NoError(t, err)
	assert.Positive(t, id)
	_, err = s.Insert(ctx, humanRow("ig_2", "other session"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, mq.EventInsert, got[0].Type)
	assert.Equal(t, id, got[0].RowId)
	mu.Unlock()
}

func TestSelectByFilter(t *testing.T) {
	s, _ := storetest.New(t)
	ctx := context.Background()

	for _, r := range []*model.ChatHistory{
		humanRow("line_U1", "a"),
		humanRow("ig_2", "b"),
		humanRow("line_U1", "c"),
	} {
		_, err := s.Insert(ctx, r)
		require.NoError(t, err)
	}

	all, err := s.Select(ctx, mq.AllSessions())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	one, err := s.Select(ctx, mq.ForSession("line_U1"))
	require.NoError(t, err)
	require.Len(t, one, 2)
	assert.Equal(t, "a", one[0].Message.Content)
	assert.Equal(t, "c", one[1].Message.Content)
}

func TestFailedInsertPublishesNothing(t *testing.T) {
	inner, hub := storetest.New(t)
	faulty := storetest.NewFaulty(inner)
	ctx := context.Background()

	fired := make(chan mq.Event, 1)
	_, err := hub.Subscribe(mq.AllSessions(), func(e mq.Event) { fired <- e })
	require.NoError(t, err)

	faulty.FailInsert(errorx.New(errorx.CodeDBError, "down"))
	_, err = faulty.Insert(ctx, humanRow("line_U1", "hi"))
	require.Error(t, err)

	select {
	case e := <-fired:
		t.Fatalf("unexpected event %+v", e)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestInsertRejectsEmptySession(t *testing.T) {
	s, _ := storetest.New(t)
	_, err := s.Insert(context.Background(), humanRow("", "hi"))
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, mq.Event) error { return errors.New("broker down") }

type memRepo struct{ rows []model.ChatHistory }

func (m *memRepo) FindAll(context.Context) ([]model.ChatHistory, error) { return m.rows, nil }

func (m *memRepo) FindBySessionId(_ context.Context, id string) ([]model.ChatHistory, error) {
	var out []model.ChatHistory
	for _, r := range m.rows {
		if r.SessionId == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, row *model.ChatHistory) error {
	row.Id = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *row)
	return nil
}

func TestInsertSurvivesPublishFailure(t *testing.T) {
	hub := mq.NewHub()
	defer hub.Close()
	repo := &memRepo{}
	s := store.New(repo, hub, failingPublisher{})

	id, err := s.Insert(context.Background(), humanRow("line_U1", "hi"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Len(t, repo.rows, 1)
}

func TestSubscribeCancelledContext(t *testing.T) {
	s, _ := storetest.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Subscribe(ctx, mq.AllSessions(), func(mq.Event) {})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeFeedError, errorx.GetCode(err))
}
