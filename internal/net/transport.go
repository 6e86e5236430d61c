package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"LiveBoard/internal/state"
)

const (
	// HostConnectionID is the connection id the host uses for itself.
	HostConnectionID = 0

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

// Peer is one client connected to the host.
type Peer struct {
	ID   int
	conn *websocket.Conn
	send chan Message
}

// Hub is run by the HOST. It owns the authoritative room, accepts client
// websockets, relays every op and presence update to all other peers and
// tells everyone when a peer leaves.
type Hub struct {
	room     *state.Room
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	peers  map[int]*Peer
	nextID int

	// OnPeersChanged receives the connected client ids after every join
	// and leave. Set it before serving.
	OnPeersChanged func(ids []int)
}

// NewHub creates a hub around the host's room and wires the room's local
// traffic into the broadcast.
func NewHub(room *state.Room) *Hub {
	h := &Hub{
		room: room,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Boards are shared by link on the local network.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers:  make(map[int]*Peer),
		nextID: HostConnectionID + 1,
	}
	room.SetConnectionID(HostConnectionID)
	room.OnLocalOps = func(ops []state.Op) {
		h.Broadcast(Message{Type: MsgOps, ConnectionID: HostConnectionID, Ops: ops}, -1)
	}
	room.OnLocalPresence = func(p state.PresencePatch) {
		h.Broadcast(Message{Type: MsgPresence, ConnectionID: HostConnectionID, Presence: &p}, -1)
	}
	return h
}

// PeerIDs returns the connected client ids in join order.
func (h *Hub) PeerIDs() []int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]int, 0, len(h.peers))
	for id := range h.peers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Broadcast queues msg for every peer except exclude. A peer whose send
// buffer is full is disconnected rather than skipped, so it never misses
// an op; it rejoins with a fresh snapshot.
func (h *Hub) Broadcast(msg Message, exclude int) {
	var slow []*Peer
	h.mu.RLock()
	for id, p := range h.peers {
		if id == exclude {
			continue
		}
		select {
		case p.send <- msg:
		default:
			slow = append(slow, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range slow {
		log.Printf("[HUB] Send buffer full for peer %d, disconnecting", p.ID)
		h.remove(p)
	}
}

func (h *Hub) peersChanged() {
	if h.OnPeersChanged != nil {
		h.OnPeersChanged(h.PeerIDs())
	}
}

// ServeListener serves on an existing listener until ctx is cancelled.
func (h *Hub) ServeListener(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[HUB] Host server listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// ServeHTTP upgrades a client connection and runs it until it drops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HUB] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	p := h.add(conn)
	go h.writeLoop(p)
	h.readLoop(p)
}

func (h *Hub) add(conn *websocket.Conn) *Peer {
	h.mu.Lock()
	p := &Peer{ID: h.nextID, conn: conn, send: make(chan Message, sendBuffer)}
	h.nextID++

	// The greeting is queued before the peer becomes visible to Broadcast
	// so it always arrives first.
	snap := h.room.Snapshot()
	p.send <- Message{Type: MsgWelcome, ConnectionID: p.ID}
	p.send <- Message{Type: MsgSnapshot, Snapshot: &snap}
	self := state.FullPatch(h.room.Self())
	p.send <- Message{Type: MsgPresence, ConnectionID: HostConnectionID, Presence: &self}
	for _, other := range h.room.Others() {
		full := state.FullPatch(other.Presence)
		select {
		case p.send <- Message{Type: MsgPresence, ConnectionID: other.ConnectionID, Presence: &full}:
		default:
		}
	}
	h.peers[p.ID] = p
	h.mu.Unlock()

	log.Printf("[HUB] Peer %d connected from %s", p.ID, conn.RemoteAddr())
	h.peersChanged()
	return p
}

func (h *Hub) remove(p *Peer) {
	h.mu.Lock()
	_, ok := h.peers[p.ID]
	delete(h.peers, p.ID)
	h.mu.Unlock()
	if !ok {
		return
	}

	close(p.send)
	h.room.RemovePeer(p.ID)
	h.Broadcast(Message{Type: MsgLeave, ConnectionID: p.ID}, p.ID)
	log.Printf("[HUB] Peer %d disconnected", p.ID)
	h.peersChanged()
}

func (h *Hub) readLoop(p *Peer) {
	defer func() {
		h.remove(p)
		p.conn.Close()
	}()

	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[HUB] Peer %d read error: %v", p.ID, err)
			}
			return
		}
		h.handle(p, msg)
	}
}

func (h *Hub) handle(p *Peer, msg Message) {
	// Never trust the sender's claim about who it is.
	msg.ConnectionID = p.ID

	switch msg.Type {
	case MsgOps:
		if len(msg.Ops) == 0 {
			return
		}
		h.room.ApplyRemoteOps(msg.Ops)
		h.Broadcast(msg, p.ID)
	case MsgPresence:
		if msg.Presence == nil {
			return
		}
		h.room.ApplyRemotePresence(p.ID, *msg.Presence)
		h.Broadcast(msg, p.ID)
	default:
		log.Printf("[HUB] Ignoring %q from peer %d", msg.Type, p.ID)
	}
}

func (h *Hub) writeLoop(p *Peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteJSON(msg); err != nil {
				log.Printf("[HUB] Error sending to peer %d: %v", p.ID, err)
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
