package net

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"LiveBoard/internal/state"
)

// Client is run by a guest. It mirrors the host's room into a local room
// and forwards local traffic to the host.
type Client struct {
	room *state.Room
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool

	// OnStatus reports connection state changes for the status bar.
	OnStatus func(string)
}

// Dial connects to a host at addr (host:port).
func Dial(ctx context.Context, addr string, room *state.Room) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}

	c := &Client{room: room, conn: conn}
	room.OnLocalOps = func(ops []state.Op) {
		c.send(Message{Type: MsgOps, Ops: ops})
	}
	room.OnLocalPresence = func(p state.PresencePatch) {
		c.send(Message{Type: MsgPresence, Presence: &p})
	}
	return c, nil
}

func (c *Client) status(text string) {
	log.Println("[CLIENT]", text)
	if c.OnStatus != nil {
		c.OnStatus(text)
	}
}

func (c *Client) send(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Printf("[CLIENT] Failed to send %s: %v", msg.Type, err)
	}
}

// Run reads from the host until the connection drops or ctx is done.
func (c *Client) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.Close()
			if ctx.Err() != nil {
				return nil
			}
			c.status(fmt.Sprintf("Disconnected from host: %v", err))
			return fmt.Errorf("read from host: %w", err)
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg Message) {
	switch msg.Type {
	case MsgWelcome:
		c.room.SetConnectionID(msg.ConnectionID)
		c.status(fmt.Sprintf("Connected to host as connection %d", msg.ConnectionID))
	case MsgSnapshot:
		if msg.Snapshot != nil {
			c.room.LoadSnapshot(*msg.Snapshot)
		}
	case MsgOps:
		c.room.ApplyRemoteOps(msg.Ops)
	case MsgPresence:
		if msg.Presence != nil && msg.ConnectionID != c.room.ConnectionID() {
			c.room.ApplyRemotePresence(msg.ConnectionID, *msg.Presence)
		}
	case MsgLeave:
		c.room.RemovePeer(msg.ConnectionID)
	default:
		log.Printf("[CLIENT] Ignoring %q from host", msg.Type)
	}
}

// Close hangs up. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return c.conn.Close()
}
