package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"brawl/internal/game"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 64

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 4

	// BroadcastInterval is how often snapshots are pushed to clients
	BroadcastInterval = 50 * time.Millisecond

	wsWriteWait   = time.Second
	wsMaxFrameLen = 1024
)

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// wsEnvelope is the frame format in both directions.
type wsEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// inputFrame is sent by clients as {"event":"input","data":{"slot":0,"input":{...}}}.
type inputFrame struct {
	Slot  int        `json:"slot"`
	Input game.Input `json:"input"`
}

// WebSocketHub manages all WebSocket connections with DoS protection
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	upgrader websocket.Upgrader
	conns    *connLimiter
	inputs   *InputLimiter
	engine   EngineInterface
}

// NewWebSocketHub creates a new hub. Input frames are forwarded to engine
// through inputs; a nil inputs gets its own DefaultInputLimit buckets.
func NewWebSocketHub(engine EngineInterface, origins *OriginChecker, inputs *InputLimiter) *WebSocketHub {
	if inputs == nil {
		inputs = NewInputLimiter(DefaultInputLimit)
	}
	h := &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		conns:      newConnLimiter(MaxWSConnectionsPerIP),
		inputs:     inputs,
		engine:     engine,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origins.Allowed(origin) {
				return true
			}
			log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
			RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Run serves registrations and broadcasts until Stop.
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for conn, client := range h.clients {
				h.conns.release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
			UpdateWSConnections(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[conn]; ok {
				h.conns.release(client.ip)
				delete(h.clients, conn)
				conn.Close()
			}
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn, client := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.conns.release(client.ip)
					delete(h.clients, conn)
					conn.Close()
				}
			}
			count := len(h.clients)
			h.mu.Unlock()

			UpdateWSConnections(count)
			IncrementWSMessages()
		}
	}
}

// Stop closes every connection and ends Run.
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	msg, err := json.Marshal(wsEnvelope{Event: event, Data: payload})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes new snapshots to clients and refreshes the
// snapshot gauges until Stop. Unchanged snapshots are not resent.
func (h *WebSocketHub) StartBroadcastLoop() {
	ticker := time.NewTicker(BroadcastInterval)

	go func() {
		defer ticker.Stop()
		var lastSeq uint64
		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
			}

			snap, ok := h.engine.GetSnapshot()
			if !ok {
				continue
			}
			UpdateParticleCount(len(snap.Particles))
			UpdateEventLogStats(h.engine.EventLogStats())

			if h.ClientCount() == 0 || snap.Sequence == lastSeq {
				continue
			}
			lastSeq = snap.Sequence
			h.Broadcast("match:snapshot", snap)
		}
	}()
}

// HandleWebSocket upgrades the connection and reads input frames from it.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if h.ClientCount() >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached")
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.conns.acquire(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.conns.release(ip)
		return
	}
	conn.SetReadLimit(wsMaxFrameLen)

	select {
	case h.register <- &wsClient{conn: conn, ip: ip}:
	case <-h.done:
		h.conns.release(ip)
		conn.Close()
		return
	}

	go h.readLoop(conn, ip)
}

// readLoop applies input frames until the connection fails.
func (h *WebSocketHub) readLoop(conn *websocket.Conn, ip string) {
	defer func() {
		select {
		case h.unregister <- conn:
		case <-h.done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var env wsEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			RecordConnectionRejected("invalid")
			continue
		}

		switch env.Event {
		case "input":
			var frame inputFrame
			if err := json.Unmarshal(env.Data, &frame); err != nil {
				RecordConnectionRejected("invalid")
				continue
			}
			if !h.inputs.Allow(frame.Slot) {
				RecordConnectionRejected("input_rate")
				continue
			}
			if err := h.engine.SubmitInput(frame.Slot, frame.Input); err != nil {
				log.Printf("⚠️ Input from %s rejected: %v", ip, err)
			}
		default:
			RecordConnectionRejected("invalid")
		}
	}
}
