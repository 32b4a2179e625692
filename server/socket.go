package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wad350/gwm-home-assistant/util"
)

const socketWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SocketClient is a middleman between a websocket connection and the hub
type SocketClient struct {
	hub  *SocketHub
	conn *websocket.Conn
	send chan []byte
}

func (c *SocketClient) writePump() {
	defer func() {
		c.hub.deregister <- c
		_ = c.conn.Close()
	}()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(socketWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// socketHandler attaches a new client to the hub
func socketHandler(hub *SocketHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.ERROR.Printf("websocket: %v", err)
			return
		}

		client := &SocketClient{
			hub:  hub,
			conn: conn,
			send: make(chan []byte, 256),
		}
		hub.register <- client

		go client.writePump()
	}
}

// SocketHub maintains the set of active clients and broadcasts published
// values to them
type SocketHub struct {
	clients    map[*SocketClient]bool
	register   chan *SocketClient
	deregister chan *SocketClient
}

// NewSocketHub creates a web socket hub
func NewSocketHub() *SocketHub {
	return &SocketHub{
		clients:    make(map[*SocketClient]bool),
		register:   make(chan *SocketClient),
		deregister: make(chan *SocketClient),
	}
}

// encode a param as a single-key JSON object
func encode(p util.Param) ([]byte, error) {
	val, err := json.Marshal(p.Val)
	return []byte(fmt.Sprintf(`{"%s":%s}`, p.Key, string(val))), err
}

// welcome replays the cache contents to a newly attached client
func (h *SocketHub) welcome(client *SocketClient, cache *util.Cache) {
	for _, p := range cache.All() {
		if msg, err := encode(p); err == nil {
			client.send <- msg
		}
	}
}

func (h *SocketHub) broadcast(p util.Param) {
	msg, err := encode(p)
	if err != nil {
		log.ERROR.Printf("websocket encode: %v", err)
		return
	}

	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// Run starts the hub, welcoming clients with the cache contents
func (h *SocketHub) Run(in <-chan util.Param, cache *util.Cache) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.welcome(client, cache)
		case client := <-h.deregister:
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
			}
		case p, ok := <-in:
			if !ok {
				return
			}
			h.broadcast(p)
		}
	}
}
