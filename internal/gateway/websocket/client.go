package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"chat_inbox_server/internal/dto/request"
	"chat_inbox_server/internal/dto/respond"
	"chat_inbox_server/internal/service/inbox"
	"chat_inbox_server/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 跨域由 CORS 中间件和 JWT 控制
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client 一个 websocket 连接
type Client struct {
	Conn     *websocket.Conn
	Uuid     string
	SendBack chan []byte // 给前端

	view    *inbox.View
	manager *ConnManager
	done    chan struct{}
	once    sync.Once
}

// ServeWs 升级连接并挂载视图
func ServeWs(c *gin.Context, views ViewFactory, manager *ConnManager) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		Conn:     conn,
		Uuid:     uuid.NewString(),
		SendBack: make(chan []byte, constants.CHANNEL_SIZE),
		manager:  manager,
		done:     make(chan struct{}),
	}
	client.view = views.NewView(client)
	manager.Register(client)

	go client.Write()
	if err := client.view.Start(context.Background()); err != nil {
		zap.L().Warn("inbox view started without live updates", zap.String("client_id", client.Uuid), zap.Error(err))
	}
	go client.Read()
	zap.L().Info("ws连接成功", zap.String("client_id", client.Uuid))
}

// Push 实现 inbox.Sink，在视图事件循环中调用，不阻塞
// 发送队列满说明前端处理不过来，直接断开让前端重连
func (c *Client) Push(snapshot respond.ViewSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		zap.L().Error("marshal view snapshot", zap.Error(err))
		return
	}
	select {
	case <-c.done:
	case c.SendBack <- data:
	default:
		zap.L().Warn("ws send queue full, closing", zap.String("client_id", c.Uuid))
		c.Close()
	}
}

// Read 读取前端指令，连接断开时释放视图
func (c *Client) Read() {
	defer func() {
		c.Close()
		c.view.Close()
		c.manager.Unregister(c)
		zap.L().Info("ws连接断开", zap.String("client_id", c.Uuid))
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("ws read error", zap.String("client_id", c.Uuid), zap.Error(err))
			}
			return
		}
		var cmd request.ViewCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.pushError("指令格式错误")
			continue
		}
		switch cmd.Action {
		case request.ActionSelect:
			if err := c.view.Select(cmd.SessionId); err != nil {
				c.pushError(err.Error())
			}
		default:
			c.pushError("未知指令: " + cmd.Action)
		}
	}
}

// Write 把发送队列写到连接，并定时发送 ping
func (c *Client) Write() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case data := <-c.SendBack:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				zap.L().Warn("ws write error", zap.String("client_id", c.Uuid), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close 关闭连接，读协程随之退出并释放视图
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		// 留给写协程发送关闭帧
		time.AfterFunc(100*time.Millisecond, func() { _ = c.Conn.Close() })
	})
}

func (c *Client) pushError(msg string) {
	data, _ := json.Marshal(respond.ViewSnapshot{Type: respond.FrameError, Error: msg})
	select {
	case c.SendBack <- data:
	case <-c.done:
	default:
	}
}
