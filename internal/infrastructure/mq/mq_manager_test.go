package mq

import (
	"context"
	"testing"
	"time"

	myconfig "chat_inbox_server/internal/config"
	"chat_inbox_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestManagerChannelMode(t *testing.T) {
	defer goleak.VerifyNone(t)
	conf, err := myconfig.Decode("")
	require.NoError(t, err)

	m, err := NewManager(conf)
	require.NoError(t, err)
	m.Start(context.Background())

	got := make(chan Event, 1)
	_, err = m.Hub.Subscribe(ForSession("line_U1"), func(e Event) { got <- e })
	require.NoError(t, err)

	require.NoError(t, m.Publisher.Publish(context.Background(), Event{Type: EventInsert, SessionId: "line_U1", RowId: 3}))
	select {
	case e := <-got:
		assert.Equal(t, int64(3), e.RowId)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	require.NoError(t, m.Close())
}

func TestManagerUnknownMode(t *testing.T) {
	conf, err := myconfig.Decode("[kafkaConfig]\nmessageMode = \"carrier-pigeon\"\n")
	require.NoError(t, err)

	_, err = NewManager(conf)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestRedisBridgeStopsWhenUnreachable(t *testing.T) {
	// 没有可用的 Redis 时，Run 会持续退避重连，ctx 取消后退出
	conf, err := myconfig.Decode("[redisConfig]\nport = 1\n[kafkaConfig]\nmessageMode = \"redis\"\n[liveConfig]\nreconnectInitialMillis = 5\nreconnectMaxMillis = 20\n")
	require.NoError(t, err)

	m, err := NewManager(conf)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	m.Start(ctx)

	err = m.Publisher.Publish(ctx, Event{Type: EventInsert, SessionId: "line_U1"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeCacheError, errorx.GetCode(err))

	<-ctx.Done()
	require.NoError(t, m.Close())
}
