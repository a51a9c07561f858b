package inbox

import (
	"context"
	"sync"

	"chat_inbox_server/internal/dao/store"
	"chat_inbox_server/internal/dto/respond"
	"chat_inbox_server/internal/infrastructure/mq"
	"chat_inbox_server/internal/service/live"
	"chat_inbox_server/pkg/errorx"

	"go.uber.org/zap"
)

// Sink 接收视图状态，Push 在视图的事件循环中调用，不能阻塞
type Sink interface {
	Push(snapshot respond.ViewSnapshot)
}

// View 一个客户端的收件箱视图
// 会话列表、当前会话和消息列表只在事件循环协程中读写
// 列表区订阅全部会话，消息区订阅当前会话，每次变更都重新拉取全量数据
type View struct {
	store store.MessageStore
	sink  Sink

	sessionsLive *live.Controller
	messagesLive *live.Controller

	events chan func()
	ctx    context.Context
	cancel context.CancelFunc
	loop   chan struct{}
	fetch  sync.WaitGroup

	startOnce sync.Once
	closeOnce sync.Once

	// 以下字段只在事件循环中访问
	sessions []respond.SessionView
	selected string
	messages []respond.MessageView
}

// NewView 创建视图，调用 Start 后开始工作
func NewView(s store.MessageStore, sink Sink) *View {
	ctx, cancel := context.WithCancel(context.Background())
	v := &View{
		store:  s,
		sink:   sink,
		events: make(chan func(), 16),
		ctx:    ctx,
		cancel: cancel,
		loop:   make(chan struct{}),
	}
	v.sessionsLive = live.New("sessions", s, v.onChange(v.refreshSessions))
	v.messagesLive = live.New("messages", s, v.onChange(v.refreshMessages))
	return v
}

// Start 启动事件循环，订阅全部会话并拉取第一版列表
// 订阅失败时仍然完成首次拉取，错误会推送给客户端并返回
func (v *View) Start(ctx context.Context) error {
	var subErr error
	v.startOnce.Do(func() {
		go v.run()
		if err := v.sessionsLive.Subscribe(ctx, mq.AllSessions()); err != nil {
			subErr = err
			v.post(func() { v.pushError(err) })
		}
		v.post(v.refreshSessions)
	})
	return subErr
}

// Select 切换当前会话
func (v *View) Select(sessionId string) error {
	if sessionId == "" {
		return errorx.New(errorx.CodeInvalidParam, "session_id 不能为空")
	}
	if !v.post(func() { v.selectSession(sessionId) }) {
		return errorx.ErrFeedClosed
	}
	return nil
}

// Close 释放两个订阅并等待事件循环和进行中的拉取退出，可重复调用
func (v *View) Close() {
	v.closeOnce.Do(func() {
		v.cancel()
		v.sessionsLive.Close()
		v.messagesLive.Close()
		v.startOnce.Do(func() { close(v.loop) })
		<-v.loop
		v.fetch.Wait()
	})
}

func (v *View) run() {
	defer close(v.loop)
	for {
		select {
		case <-v.ctx.Done():
			return
		case fn := <-v.events:
			fn()
		}
	}
}

// post 把 fn 投递到事件循环，视图关闭后返回 false
func (v *View) post(fn func()) bool {
	select {
	case v.events <- fn:
		return true
	case <-v.ctx.Done():
		return false
	}
}

// onChange 订阅回调：把 refresh 投递到事件循环
// 换订阅也发生在事件循环中，所以执行时再确认订阅未被替换
func (v *View) onChange(refresh func()) live.RefreshFunc {
	return func(_ mq.Event, current func() bool) {
		v.post(func() {
			if current() {
				refresh()
			}
		})
	}
}

// async 在后台执行 work，完成后把结果交回事件循环
func (v *View) async(work func(ctx context.Context) func()) {
	v.fetch.Add(1)
	go func() {
		defer v.fetch.Done()
		apply := work(v.ctx)
		v.post(apply)
	}()
}

func (v *View) refreshSessions() {
	v.async(func(ctx context.Context) func() {
		rows, err := v.store.Select(ctx, mq.AllSessions())
		return func() {
			if err != nil {
				v.pushError(err)
				return
			}
			v.sessions = Aggregate(rows)
			if v.selected == "" && len(v.sessions) > 0 {
				v.selectSession(v.sessions[0].SessionId)
				return
			}
			v.publish()
		}
	})
}

func (v *View) refreshMessages() {
	if v.selected == "" {
		return
	}
	sessionId := v.selected
	v.async(func(ctx context.Context) func() {
		rows, err := v.store.Select(ctx, mq.ForSession(sessionId))
		return func() {
			// 拉取期间已切换到其他会话
			if sessionId != v.selected {
				return
			}
			if err != nil {
				v.pushError(err)
				return
			}
			v.messages = SortMessages(rows)
			v.publish()
		}
	})
}

func (v *View) selectSession(sessionId string) {
	if sessionId != v.selected {
		v.selected = sessionId
		v.messages = nil
	}
	if err := v.messagesLive.Subscribe(v.ctx, mq.ForSession(sessionId)); err != nil {
		v.pushError(err)
	}
	v.publish()
	v.refreshMessages()
}

func (v *View) snapshot(frameType string) respond.ViewSnapshot {
	snap := respond.ViewSnapshot{
		Type:              frameType,
		Sessions:          append([]respond.SessionView{}, v.sessions...),
		SelectedSessionId: v.selected,
		Messages:          append([]respond.MessageView{}, v.messages...),
	}
	if v.selected != "" {
		info := Classify(v.selected)
		snap.Platform = &info
	}
	return snap
}

func (v *View) publish() {
	v.sink.Push(v.snapshot(respond.FrameSnapshot))
}

// pushError 推送错误帧，之前的会话和消息保持不变
func (v *View) pushError(err error) {
	if v.ctx.Err() != nil {
		return
	}
	zap.L().Warn("inbox view refresh failed", zap.String("selected", v.selected), zap.Error(err))
	snap := v.snapshot(respond.FrameError)
	snap.Error = err.Error()
	v.sink.Push(snap)
}
