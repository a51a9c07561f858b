package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chat_inbox_server/internal/dao/store/storetest"
	"chat_inbox_server/internal/dto/request"
	"chat_inbox_server/internal/dto/respond"
	"chat_inbox_server/internal/model"
	"chat_inbox_server/internal/service/inbox"
	"chat_inbox_server/pkg/enum/message_type_enum"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readUntil(t *testing.T, conn *websocket.Conn, cond func(respond.ViewSnapshot) bool) respond.ViewSnapshot {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		require.NoError(t, conn.SetReadDeadline(deadline))
		var snap respond.ViewSnapshot
		require.NoError(t, conn.ReadJSON(&snap))
		if cond(snap) {
			return snap
		}
	}
	t.Fatal("condition not met before deadline")
	return respond.ViewSnapshot{}
}

func TestClientStreamsInboxView(t *testing.T) {
	s, hub := storetest.New(t)
	ctx := context.Background()
	for i, sessionId := range []string{"line_A", "ig_B"} {
		_, err := s.Insert(ctx, &model.ChatHistory{
			SessionId: sessionId,
			Message:   model.MessagePayload{Type: message_type_enum.Human, Content: "m" + sessionId},
		})
		require.NoError(t, err)
		// 保证两条消息的 created_at 不同
		if i == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}

	gin.SetMode(gin.TestMode)
	manager := NewConnManager()
	views := inbox.NewInboxService(s)
	engine := gin.New()
	engine.GET("/wss", func(c *gin.Context) { ServeWs(c, views, manager) })
	srv := httptest.NewServer(engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/wss"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	snap := readUntil(t, conn, func(s respond.ViewSnapshot) bool {
		return s.SelectedSessionId == "ig_B" && len(s.Messages) == 1
	})
	assert.Len(t, snap.Sessions, 2)

	require.NoError(t, conn.WriteJSON(request.ViewCommand{Action: request.ActionSelect, SessionId: "line_A"}))
	snap = readUntil(t, conn, func(s respond.ViewSnapshot) bool {
		return s.SelectedSessionId == "line_A" && len(s.Messages) == 1
	})
	assert.Equal(t, "mline_A", snap.Messages[0].Content)

	require.NoError(t, conn.WriteJSON(request.ViewCommand{Action: "delete"}))
	snap = readUntil(t, conn, func(s respond.ViewSnapshot) bool { return s.Type == respond.FrameError })
	assert.Contains(t, snap.Error, "delete")

	assert.Equal(t, 1, manager.Count())
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return manager.Count() == 0 && hub.Count() == 0
	}, 3*time.Second, 10*time.Millisecond)
}
