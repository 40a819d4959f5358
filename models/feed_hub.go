package models

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub fans feed events out to every connected client. There is no
// per-user routing: a post mutation is visible to all observers.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	Done       chan struct{}
}

type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// FeedEvent is the broadcast payload for post mutations. Post carries
// the denormalized post for create/update and the bare post id for delete.
type FeedEvent struct {
	Action string      `json:"action"`
	Post   interface{} `json:"post"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 16),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Done:       make(chan struct{}),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New().String(),
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}
