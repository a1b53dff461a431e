// cmd/mockfeed — simulated tick WebSocket server for local runs without a
// real feed. Broadcasts random-walk price ticks in the shapes the proxy
// normalizes, alternating between the long and short field names:
//
//	{"symbol":"EURUSD","price":1.1002,"timestamp":1690000000000}
//	{"s":"EURUSD","p":1.1002,"t":1690000000}
//
// Config (env vars):
//
//	MOCKFEED_ADDR         — listen address          (default ":9001")
//	MOCKFEED_SYMBOLS      — comma-separated symbols (default "EURUSD,GBPUSD")
//	MOCKFEED_INTERVAL_MS  — broadcast interval      (default "250")
package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type longTick struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"` // milliseconds
}

type shortTick struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	T int64   `json:"t"` // seconds, exercises the unit threshold
}

// instrument holds per-symbol simulation state.
type instrument struct {
	symbol string
	price  float64
}

type hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]chan []byte)}
}

func (h *hub) register(conn *websocket.Conn) chan []byte {
	ch := make(chan []byte, 256)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.clients {
		select {
		case ch <- msg:
		default: // slow client, drop tick
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func wsHandler(h *hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("upgrade failed", zap.Error(err))
			return
		}
		logger.Info("client connected", zap.String("remote", r.RemoteAddr))

		ch := h.register(conn)
		defer func() {
			h.unregister(conn)
			conn.Close()
			logger.Info("client disconnected", zap.String("remote", r.RemoteAddr))
		}()

		// Drain inbound frames (subscribe payloads etc.) so pings work.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for msg := range ch {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	addr := envOr("MOCKFEED_ADDR", ":9001")
	intervalMS, err := strconv.Atoi(envOr("MOCKFEED_INTERVAL_MS", "250"))
	if err != nil || intervalMS <= 0 {
		intervalMS = 250
	}

	var instruments []*instrument
	for _, s := range strings.Split(envOr("MOCKFEED_SYMBOLS", "EURUSD,GBPUSD"), ",") {
		s = strings.TrimSpace(strings.ToUpper(s))
		if s == "" {
			continue
		}
		instruments = append(instruments, &instrument{symbol: s, price: 1.0 + rand.Float64()*0.5})
	}

	h := newHub()

	go func() {
		ticker := time.NewTicker(time.Duration(intervalMS) * time.Millisecond)
		defer ticker.Stop()
		short := false
		for range ticker.C {
			for _, inst := range instruments {
				// random walk, ±0.05% per step
				inst.price *= 1 + (rand.Float64()-0.5)*0.001
				now := time.Now()

				var msg []byte
				if short {
					msg, _ = json.Marshal(shortTick{S: inst.symbol, P: inst.price, T: now.Unix()})
				} else {
					msg, _ = json.Marshal(longTick{Symbol: inst.symbol, Price: inst.price, Timestamp: now.UnixMilli()})
				}
				h.broadcast(msg)
			}
			short = !short
		}
	}()

	http.HandleFunc("/ws", wsHandler(h, logger))
	logger.Info("mockfeed listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("mockfeed server failed", zap.Error(err))
	}
}
