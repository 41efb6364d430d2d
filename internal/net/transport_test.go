package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"CurveBoard/internal/curve"
	"CurveBoard/internal/state"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + ScenePath
}

func testScene(n int) state.Scene {
	s := state.Scene{Site: "test", Revision: uint64(n)}
	for i := 0; i < n; i++ {
		s.Points = append(s.Points, curve.Pt(float64(i)/10, 0.5))
	}
	return s
}

func TestHubSendsLastSceneOnConnect(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(hub)
	defer srv.Close()

	require.NoError(t, hub.Publish(testScene(3)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var got []Message
	err := Watch(ctx, wsURL(srv), zaptest.NewLogger(t), func(m Message) {
		got = append(got, m)
		cancel()
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, got, 1)
	assert.Equal(t, MsgScene, got[0].Type)
	assert.Equal(t, hub.Session(), got[0].Session)
	assert.Equal(t, uint64(1), got[0].Seq)
	assert.Equal(t, testScene(3), got[0].Scene)
}

func TestHubPublishesToConnectedViewers(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(hub)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	scenes := make(chan Message, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, wsURL(srv), nil, func(m Message) { scenes <- m })
	}()

	require.Eventually(t, func() bool { return hub.Peers() == 1 }, 5*time.Second, 10*time.Millisecond)
	for want := 1; want <= 2; want++ {
		require.NoError(t, hub.Publish(testScene(want)))
		select {
		case m := <-scenes:
			assert.Equal(t, uint64(want), m.Seq)
			assert.Equal(t, testScene(want), m.Scene)
		case <-ctx.Done():
			t.Fatal("timed out waiting for scene")
		}
	}

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	require.Eventually(t, func() bool { return hub.Peers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestPeerOfferKeepsNewest(t *testing.T) {
	p := &peer{out: make(chan []byte, 1)}
	p.offer([]byte("1"))
	p.offer([]byte("2"))
	p.offer([]byte("3"))
	require.Len(t, p.out, 1)
	assert.Equal(t, "3", string(<-p.out))
}

func TestHubRejectsNonGet(t *testing.T) {
	hub := NewHub(nil)
	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, ScenePath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWatchDropsStaleScenes(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range []Message{
			{Type: MsgScene, Session: "a", Seq: 2, Scene: testScene(2)},
			{Type: MsgScene, Session: "a", Seq: 1, Scene: testScene(1)},
			{Type: "hello", Session: "a", Seq: 9},
			{Type: MsgScene, Session: "a", Seq: 3, Scene: testScene(3)},
		} {
			if err := conn.WriteJSON(m); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		// Wait for the client to close its side.
		conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var seqs []uint64
	err := Watch(ctx, wsURL(srv), nil, func(m Message) { seqs = append(seqs, m.Seq) })
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, seqs)
}

func TestWatchDialError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := Watch(ctx, "ws://127.0.0.1:1/scene", nil, func(Message) {})
	assert.Error(t, err)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- hub.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
