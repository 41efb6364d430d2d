package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"CurveBoard/internal/state"
)

const (
	// ScenePath is the HTTP path viewers connect to.
	ScenePath = "/scene"

	MsgScene = "scene"

	writeWait = 5 * time.Second
)

// Message is what the host sends to viewers, JSON encoded, one per
// websocket text frame.
type Message struct {
	Type    string      `json:"type"`
	Session string      `json:"session"`
	Seq     uint64      `json:"seq"`
	Scene   state.Scene `json:"scene"`
}

type peer struct {
	id   string
	conn *websocket.Conn
	// out holds at most the newest scene not yet written.
	out chan []byte
}

func newPeer(conn *websocket.Conn) *peer {
	return &peer{id: uuid.NewString(), conn: conn, out: make(chan []byte, 1)}
}

// offer queues data, replacing any scene the viewer has not received yet.
// Callers serialize offers through the hub lock.
func (p *peer) offer(data []byte) {
	for {
		select {
		case p.out <- data:
			return
		default:
		}
		select {
		case <-p.out:
		default:
		}
	}
}

// Hub fans published scenes out to every connected viewer. Viewers are
// read-only: anything they send is discarded. A newly connected viewer
// immediately receives the last published scene. A viewer that falls behind
// skips intermediate scenes and only gets the newest one.
type Hub struct {
	session  string
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	peers map[string]*peer
	last  []byte
	seq   uint64
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		session: uuid.NewString(),
		log:     log,
		upgrader: websocket.Upgrader{
			// Viewers are desktop clients, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[string]*peer),
	}
}

func (h *Hub) Session() string { return h.session }

// Peers returns the number of connected viewers.
func (h *Hub) Peers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Publish queues s for every viewer without blocking on the network.
func (h *Hub) Publish(s state.Scene) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	data, err := json.Marshal(Message{Type: MsgScene, Session: h.session, Seq: h.seq + 1, Scene: s})
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	h.seq++
	h.last = data
	for _, p := range h.peers {
		p.offer(data)
	}
	return nil
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.log.Warn("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}

	p := newPeer(conn)
	h.mu.Lock()
	h.peers[p.id] = p
	if h.last != nil {
		p.offer(h.last)
	}
	h.mu.Unlock()
	h.log.Info("viewer connected", zap.String("peer", p.id), zap.String("remote", r.RemoteAddr))

	done := make(chan struct{})
	go h.writeLoop(p, done)
	defer func() {
		close(done)
		h.remove(p)
	}()
	// Reading is required to process pings and the close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Info("viewer disconnected", zap.String("peer", p.id), zap.Error(err))
			return
		}
	}
}

func (h *Hub) writeLoop(p *peer, done <-chan struct{}) {
	for {
		select {
		case data := <-p.out:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.log.Warn("dropping viewer", zap.String("peer", p.id), zap.Error(err))
				// Unblocks the read loop, which removes the peer.
				p.conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	_, ok := h.peers[p.id]
	delete(h.peers, p.id)
	h.mu.Unlock()
	if ok {
		p.conn.Close()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[string]*peer)
	h.mu.Unlock()
	for _, p := range peers {
		p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "host closing"),
			time.Now().Add(writeWait))
		p.conn.Close()
	}
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(ScenePath, h)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		srv.Shutdown(sctx)
		h.closeAll()
	}()

	h.log.Info("sharing scene", zap.String("addr", addr), zap.String("session", h.session))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-stopped
		return nil
	}
	return fmt.Errorf("share server: %w", err)
}

// Watch connects to a hub at url and calls onScene for every scene newer
// than the previous one, until ctx is cancelled or the host goes away.
// A normal close by the host returns nil.
func Watch(ctx context.Context, url string, log *zap.Logger, onScene func(Message)) error {
	if log == nil {
		log = zap.NewNop()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()
	log.Info("watching", zap.String("url", url))

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			conn.Close()
		case <-done:
		}
	}()

	var (
		session string
		seq     uint64
	)
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read scene: %w", err)
		}
		if msg.Type != MsgScene {
			log.Debug("ignoring message", zap.String("type", msg.Type))
			continue
		}
		// Scenes can overtake each other while a viewer is joining.
		if msg.Session == session && msg.Seq <= seq {
			continue
		}
		session, seq = msg.Session, msg.Seq
		onScene(msg)
	}
}
