package mq

import (
	"context"
	"sync"
	"testing"
	"time"

	"chat_inbox_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestHubDispatchRespectsFilter(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub()
	defer hub.Close()

	var all, line, ig recorder
	_, err := hub.Subscribe(AllSessions(), all.handle)
	require.NoError(t, err)
	_, err = hub.Subscribe(ForSession("line_U1"), line.handle)
	require.NoError(t, err)
	_, err = hub.Subscribe(ForSession("ig_9"), ig.handle)
	require.NoError(t, err)

	hub.Dispatch(Event{Type: EventInsert, SessionId: "line_U1", RowId: 1})
	hub.Dispatch(Event{Type: EventInsert, SessionId: "messenger_2", RowId: 2})

	require.Eventually(t, func() bool { return all.count() == 2 && line.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), line.snapshot()[0].RowId)
	assert.Equal(t, 0, ig.count())
}

func TestHubResyncReachesEveryFilter(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub()
	defer hub.Close()

	var all, one recorder
	_, err := hub.Subscribe(AllSessions(), all.handle)
	require.NoError(t, err)
	_, err = hub.Subscribe(ForSession("line_U1"), one.handle)
	require.NoError(t, err)

	hub.Dispatch(Event{Type: EventResync})

	require.Eventually(t, func() bool { return all.count() == 1 && one.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, EventResync, one.snapshot()[0].Type)
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub()
	defer hub.Close()

	var rec recorder
	sub, err := hub.Subscribe(AllSessions(), rec.handle)
	require.NoError(t, err)
	require.Equal(t, 1, hub.Count())

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe())
	assert.Equal(t, 0, hub.Count())

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("delivery goroutine did not exit")
	}

	hub.Dispatch(Event{Type: EventInsert, SessionId: "line_U1"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestHubUnsubscribeFromHandler(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub()
	defer hub.Close()

	var sub Subscription
	var mu sync.Mutex
	fired := 0
	var err error
	ready := make(chan struct{})
	sub, err = hub.Subscribe(AllSessions(), func(Event) {
		<-ready
		mu.Lock()
		fired++
		mu.Unlock()
		_ = sub.Unsubscribe()
	})
	require.NoError(t, err)
	close(ready)

	hub.Dispatch(Event{Type: EventInsert, SessionId: "a"})
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription not released")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, fired)
}

func TestHubRecoversHandlerPanic(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub()
	defer hub.Close()

	var rec recorder
	_, err := hub.Subscribe(AllSessions(), func(e Event) {
		rec.handle(e)
		if e.RowId == 1 {
			panic("boom")
		}
	})
	require.NoError(t, err)

	hub.Dispatch(Event{Type: EventInsert, RowId: 1})
	hub.Dispatch(Event{Type: EventInsert, RowId: 2})
	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestHubClose(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub()

	subs := make([]Subscription, 0, 3)
	for i := 0; i < 3; i++ {
		sub, err := hub.Subscribe(AllSessions(), func(Event) {})
		require.NoError(t, err)
		subs = append(subs, sub)
	}
	require.NoError(t, hub.Close())
	require.NoError(t, hub.Close())

	for _, sub := range subs {
		select {
		case <-sub.Done():
		default:
			t.Fatal("Close returned before delivery goroutines exited")
		}
	}

	_, err := hub.Subscribe(AllSessions(), func(Event) {})
	assert.ErrorIs(t, err, errorx.ErrFeedClosed)
	assert.ErrorIs(t, hub.Publish(context.Background(), Event{Type: EventInsert}), errorx.ErrFeedClosed)
}

func TestHubSubscribeRequiresHandler(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, err := hub.Subscribe(AllSessions(), nil)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestEventRoundTripAndFilter(t *testing.T) {
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	data, err := Event{Type: EventInsert, SessionId: "line_U1", RowId: 7, At: at}.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"INSERT","session_id":"line_U1","row_id":7,"at":"2024-05-01T08:00:00Z"}`, string(data))

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.True(t, ForSession("line_U1").Matches(decoded))
	assert.False(t, ForSession("line_U2").Matches(decoded))
	assert.Equal(t, "*", AllSessions().String())
	assert.Equal(t, "session_id=eq.line_U1", ForSession("line_U1").String())
}
