// Package state holds a replica of one shared board: the layer document,
// the presence of every connection and the local undo history. A Room is
// the storage, presence and history collaborator the interaction engine
// talks to; the net package feeds it remote traffic.
package state

import (
	"log"
	"sort"
	"sync"

	"LiveBoard/internal/canvas"
)

// Room is one client's replica of a board session. Local writes are
// stamped with the room's Lamport clock, recorded for undo and handed to
// OnLocalOps / OnLocalPresence for broadcasting. Remote writes come in
// through ApplyRemoteOps and ApplyRemotePresence and are never recorded.
//
// Room is safe for concurrent use, but Batch, Pause/Resume and Undo/Redo
// are meant to be driven from a single goroutine.
type Room struct {
	mu     sync.Mutex
	clock  *Clock
	store  *layerStore
	self   Presence
	selfID int
	others map[int]Presence

	hist       history
	batchDepth int
	batchFrame []change
	replaying  bool

	outOps      []Op
	outPresence *PresencePatch
	dirty       bool

	listeners    map[int]func()
	nextListener int

	// OnLocalOps receives every batch of local storage writes, in order.
	OnLocalOps func(ops []Op)
	// OnLocalPresence receives every local presence write.
	OnLocalPresence func(p PresencePatch)
}

// NewRoom creates an empty replica with its own site id.
func NewRoom() *Room {
	return &Room{
		clock:     NewClock(),
		store:     newLayerStore(),
		others:    make(map[int]Presence),
		listeners: make(map[int]func()),
	}
}

// Subscribe registers fn to run after every change, local or remote.
// The returned function removes it.
func (r *Room) Subscribe(fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextListener
	r.nextListener++
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// --- storage ---

// LayerIDs returns the layer ids in paint order, bottom first.
func (r *Room) LayerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.ids()
}

// Layer returns a copy of one layer.
func (r *Room) Layer(id string) (canvas.Layer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.get(id)
}

// Layers returns a copy of the id to layer map.
func (r *Room) Layers() map[string]canvas.Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.layers()
}

// LayerCount returns the number of live layers.
func (r *Room) LayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.alive
}

// AppendLayer inserts a layer on top of the paint order.
func (r *Room) AppendLayer(id string, layer canvas.Layer) {
	r.mu.Lock()
	st := r.clock.Tick()
	l := layer.Clone()
	r.localOpLocked(Op{Type: OpInsertLayer, ID: id, Layer: &l, Order: st, Stamp: st})
	flush := r.endCallLocked()
	r.mu.Unlock()
	flush()
}

// UpdateLayer merges patch into an existing layer. It reports false, and
// does nothing, when the layer does not exist.
func (r *Room) UpdateLayer(id string, patch canvas.LayerPatch) bool {
	r.mu.Lock()
	p := patch
	ok := r.localOpLocked(Op{Type: OpUpdateLayer, ID: id, Patch: &p, Stamp: r.clock.Tick()})
	flush := r.endCallLocked()
	r.mu.Unlock()
	flush()
	return ok
}

// DeleteLayer removes a layer from both the paint order and the map.
func (r *Room) DeleteLayer(id string) bool {
	r.mu.Lock()
	ok := r.localOpLocked(Op{Type: OpDeleteLayer, ID: id, Stamp: r.clock.Tick()})
	flush := r.endCallLocked()
	r.mu.Unlock()
	flush()
	return ok
}

func (r *Room) localOpLocked(op Op) bool {
	inv, undoable := r.store.inverse(op)
	if !r.store.apply(op) {
		return false
	}
	r.outOps = append(r.outOps, op)
	r.dirty = true
	if undoable && !r.replaying {
		r.recordLocked(change{op: &inv})
	}
	return true
}

// --- presence ---

// SetConnectionID records the id the transport assigned to this client.
func (r *Room) SetConnectionID(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selfID = id
}

// ConnectionID returns the id the transport assigned to this client.
func (r *Room) ConnectionID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selfID
}

// Self returns a copy of the local presence.
func (r *Room) Self() Presence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.self.Clone()
}

// UpdatePresence writes the fields named by patch. With addToHistory the
// previous values are recorded so undo restores them.
func (r *Room) UpdatePresence(patch PresencePatch, addToHistory bool) {
	r.mu.Lock()
	inv := r.self.Inverse(patch)
	r.self = r.self.Apply(patch)
	r.queuePresenceLocked(patch)
	if addToHistory && !r.replaying {
		r.recordLocked(change{presence: &inv})
	}
	flush := r.endCallLocked()
	r.mu.Unlock()
	flush()
}

func (r *Room) queuePresenceLocked(patch PresencePatch) {
	if r.outPresence == nil {
		r.outPresence = &PresencePatch{}
	}
	merged := r.outPresence.Merge(patch)
	r.outPresence = &merged
	r.dirty = true
}

// Others returns every other connection's presence ordered by
// connection id.
func (r *Room) Others() []Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	peers := make([]Peer, 0, len(r.others))
	for id, p := range r.others {
		peers = append(peers, Peer{ConnectionID: id, Presence: p.Clone()})
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].ConnectionID < peers[j].ConnectionID })
	return peers
}

// --- history ---

// Batch runs fn so every write it makes lands in one history step and one
// outbound message.
func (r *Room) Batch(fn func()) {
	r.mu.Lock()
	r.batchDepth++
	r.mu.Unlock()

	fn()

	r.mu.Lock()
	r.batchDepth--
	if r.batchDepth == 0 {
		frame := r.batchFrame
		r.batchFrame = nil
		r.hist.record(frame)
	}
	flush := r.endCallLocked()
	r.mu.Unlock()
	flush()
}

// Pause starts collecting every following write into a single step.
func (r *Room) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hist.pause()
}

// Resume closes the step opened by Pause. It is a no-op when not paused.
func (r *Room) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hist.resume()
}

// CanUndo reports whether Undo would do anything.
func (r *Room) CanUndo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hist.undo) > 0 || len(r.hist.pending) > 0
}

// CanRedo reports whether Redo would do anything.
func (r *Room) CanRedo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hist.redo) > 0
}

// Undo reverts the most recent step. An open paused step is closed first
// and reopened afterwards, so the rest of the gesture still lands in one
// step.
func (r *Room) Undo() {
	r.mu.Lock()
	paused := r.hist.paused
	r.hist.resume()
	frame, ok := r.hist.popUndo()
	if ok {
		r.hist.redo = append(r.hist.redo, r.replayLocked(frame))
	}
	if paused {
		r.hist.pause()
	}
	flush := r.endCallLocked()
	r.mu.Unlock()
	flush()
}

// Redo reapplies the most recently undone step. Like Undo it keeps an open
// pause open.
func (r *Room) Redo() {
	r.mu.Lock()
	paused := r.hist.paused
	r.hist.resume()
	frame, ok := r.hist.popRedo()
	if ok {
		r.hist.undo = append(r.hist.undo, r.replayLocked(frame))
	}
	if paused {
		r.hist.pause()
	}
	flush := r.endCallLocked()
	r.mu.Unlock()
	flush()
}

// replayLocked applies a frame newest change first and returns the frame
// that reverts it.
func (r *Room) replayLocked(frame []change) []change {
	r.replaying = true
	defer func() { r.replaying = false }()

	var back []change
	for i := len(frame) - 1; i >= 0; i-- {
		c := frame[i]
		if c.op != nil {
			op := *c.op
			op.Stamp = r.clock.Tick()
			if inv, ok := r.store.inverse(op); ok && r.localOpLocked(op) {
				back = append(back, change{op: &inv})
			}
		}
		if c.presence != nil {
			inv := r.self.Inverse(*c.presence)
			r.self = r.self.Apply(*c.presence)
			r.queuePresenceLocked(*c.presence)
			back = append(back, change{presence: &inv})
		}
	}
	return back
}

func (r *Room) recordLocked(c change) {
	if r.batchDepth > 0 {
		r.batchFrame = append(r.batchFrame, c)
		return
	}
	r.hist.record([]change{c})
}

// endCallLocked drains pending outbound traffic unless a batch is open and
// returns the callbacks to run once the lock is released.
func (r *Room) endCallLocked() func() {
	if r.batchDepth > 0 {
		return func() {}
	}
	ops, presence, dirty := r.outOps, r.outPresence, r.dirty
	r.outOps, r.outPresence, r.dirty = nil, nil, false
	onOps, onPresence := r.OnLocalOps, r.OnLocalPresence
	listeners := r.listenersLocked(dirty)

	return func() {
		if len(ops) > 0 && onOps != nil {
			onOps(ops)
		}
		if presence != nil && onPresence != nil {
			onPresence(*presence)
		}
		for _, fn := range listeners {
			fn()
		}
	}
}

func (r *Room) listenersLocked(dirty bool) []func() {
	if !dirty {
		return nil
	}
	out := make([]func(), 0, len(r.listeners))
	for _, fn := range r.listeners {
		out = append(out, fn)
	}
	return out
}

// --- remote traffic ---

// ApplyRemoteOps merges storage writes received from another replica.
func (r *Room) ApplyRemoteOps(ops []Op) {
	r.mu.Lock()
	changed := false
	for _, op := range ops {
		r.clock.Witness(op.Stamp)
		if r.store.apply(op) {
			changed = true
		}
	}
	listeners := r.listenersLocked(changed)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// ApplyRemotePresence writes a presence patch for another connection.
func (r *Room) ApplyRemotePresence(connectionID int, patch PresencePatch) {
	r.mu.Lock()
	r.others[connectionID] = r.others[connectionID].Apply(patch)
	listeners := r.listenersLocked(true)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// RemovePeer forgets a connection that left the session.
func (r *Room) RemovePeer(connectionID int) {
	r.mu.Lock()
	_, ok := r.others[connectionID]
	delete(r.others, connectionID)
	listeners := r.listenersLocked(ok)
	r.mu.Unlock()
	if ok {
		log.Printf("[ROOM] Peer %d left", connectionID)
	}
	for _, fn := range listeners {
		fn()
	}
}

// Snapshot returns the full replicated storage for a late joiner.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.snapshot()
}

// LoadSnapshot merges a snapshot received from the host.
func (r *Room) LoadSnapshot(snap Snapshot) {
	r.mu.Lock()
	r.clock.Witness(r.store.merge(snap))
	listeners := r.listenersLocked(true)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
