package transport

import (
	"net/http"
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/realtyedit/internal/entity"
	"github.com/ds124wfegd/WB_L3/realtyedit/internal/session"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 8
)

// Hub pushes session snapshots to connected pages over websockets.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan *entity.Snapshot
	done chan struct{}
	mu   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Serve upgrades the request and streams sess snapshots until the peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	cl := &client{
		conn: conn,
		send: make(chan *entity.Snapshot, sendBuffer),
		done: make(chan struct{}),
	}
	h.register(cl)
	log := logrus.WithField("session_id", sess.ID())
	log.Info("Event stream connected")

	unsubscribe := sess.Subscribe(cl.offer)
	cl.offer(sess.Snapshot())

	go cl.writePump()
	cl.readPump()

	unsubscribe()
	close(cl.done)
	h.unregister(cl)
	log.Info("Event stream disconnected")
	return nil
}

func (h *Hub) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close drops every connection; their Serve calls return shortly after.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		cl.conn.Close()
	}
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()
}

// offer queues snap without blocking. A slow reader loses the oldest
// pending snapshot, never the newest.
func (cl *client) offer(snap *entity.Snapshot) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	for {
		select {
		case cl.send <- snap:
			return
		default:
		}
		select {
		case <-cl.send:
		default:
		}
	}
}

func (cl *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-cl.done:
			return
		case snap := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(snap); err != nil {
				cl.conn.Close()
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.conn.Close()
				return
			}
		}
	}
}

// readPump discards inbound frames and returns when the connection drops.
func (cl *client) readPump() {
	defer cl.conn.Close()

	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
