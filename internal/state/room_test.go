package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiveBoard/internal/canvas"
)

func rect(x, y float64) canvas.Layer {
	return canvas.Layer{Type: canvas.LayerRectangle, X: x, Y: y, Width: 10, Height: 10}
}

// link wires two rooms so local writes on one are applied on the other.
func link(a, b *Room) {
	a.OnLocalOps = b.ApplyRemoteOps
	b.OnLocalOps = a.ApplyRemoteOps
}

func TestRoomAppendAndOrder(t *testing.T) {
	r := NewRoom()
	r.AppendLayer("a", rect(0, 0))
	r.AppendLayer("b", rect(1, 1))
	r.AppendLayer("c", rect(2, 2))

	assert.Equal(t, []string{"a", "b", "c"}, r.LayerIDs())
	assert.Equal(t, 3, r.LayerCount())
	assert.Len(t, r.Layers(), 3)
}

func TestRoomUpdateMissingIsNoop(t *testing.T) {
	r := NewRoom()
	var sent []Op
	r.OnLocalOps = func(ops []Op) { sent = append(sent, ops...) }

	x := 5.0
	assert.False(t, r.UpdateLayer("ghost", canvas.LayerPatch{X: &x}))
	assert.False(t, r.DeleteLayer("ghost"))
	assert.Empty(t, sent)
	assert.False(t, r.CanUndo())
}

func TestRoomBatchIsOneMessageAndOneStep(t *testing.T) {
	r := NewRoom()
	var calls int
	var presence []PresencePatch
	r.OnLocalOps = func(ops []Op) {
		calls++
		assert.Len(t, ops, 2)
	}
	r.OnLocalPresence = func(p PresencePatch) { presence = append(presence, p) }

	r.Batch(func() {
		r.AppendLayer("a", rect(0, 0))
		r.AppendLayer("b", rect(5, 5))
		r.UpdatePresence(SetSelection([]string{"b"}), true)
	})

	assert.Equal(t, 1, calls)
	require.Len(t, presence, 1)
	assert.Equal(t, []string{"b"}, presence[0].Selection)

	r.Undo()
	assert.Empty(t, r.LayerIDs())
	assert.Empty(t, r.Self().Selection)
	assert.False(t, r.CanUndo())
	assert.True(t, r.CanRedo())
}

func TestRoomPauseGroupsWrites(t *testing.T) {
	r := NewRoom()
	r.AppendLayer("a", rect(0, 0))

	r.Pause()
	for i := 1; i <= 5; i++ {
		r.UpdateLayer("a", canvas.PositionPatch(float64(i), 0))
	}
	r.Resume()
	r.Resume()

	r.Undo()
	l, ok := r.Layer("a")
	require.True(t, ok)
	assert.Equal(t, 0.0, l.X)

	r.Redo()
	l, _ = r.Layer("a")
	assert.Equal(t, 5.0, l.X)
}

func TestRoomUndoDuringPauseKeepsGrouping(t *testing.T) {
	r := NewRoom()
	r.AppendLayer("a", rect(0, 0))

	r.Pause()
	r.UpdateLayer("a", canvas.PositionPatch(10, 0))
	r.Undo()
	l, _ := r.Layer("a")
	require.Equal(t, 0.0, l.X)

	for i := 1; i <= 3; i++ {
		r.UpdateLayer("a", canvas.PositionPatch(float64(i*10), 0))
	}
	r.Resume()

	r.Undo()
	l, ok := r.Layer("a")
	require.True(t, ok)
	assert.Equal(t, 0.0, l.X)

	r.Redo()
	l, _ = r.Layer("a")
	assert.Equal(t, 30.0, l.X)
}

func TestRoomNewStepClearsRedo(t *testing.T) {
	r := NewRoom()
	r.AppendLayer("a", rect(0, 0))
	r.Undo()
	require.True(t, r.CanRedo())

	r.AppendLayer("b", rect(0, 0))
	assert.False(t, r.CanRedo())
}

func TestRoomPresenceWithoutHistory(t *testing.T) {
	r := NewRoom()
	p := canvas.Point{X: 1, Y: 2}
	r.UpdatePresence(SetCursor(&p), false)

	assert.False(t, r.CanUndo())
	require.NotNil(t, r.Self().Cursor)
	assert.Equal(t, p, *r.Self().Cursor)

	r.UpdatePresence(SetCursor(nil), false)
	assert.Nil(t, r.Self().Cursor)
}

func TestRoomSubscribe(t *testing.T) {
	r := NewRoom()
	n := 0
	stop := r.Subscribe(func() { n++ })

	r.AppendLayer("a", rect(0, 0))
	r.ApplyRemotePresence(2, SetSelection([]string{"a"}))
	assert.Equal(t, 2, n)

	stop()
	r.AppendLayer("b", rect(0, 0))
	assert.Equal(t, 2, n)
}

func TestRoomsConverge(t *testing.T) {
	a, b := NewRoom(), NewRoom()
	link(a, b)

	a.AppendLayer("x", rect(0, 0))
	b.AppendLayer("y", rect(50, 50))
	require.Equal(t, a.LayerIDs(), b.LayerIDs())

	// Different fields of the same layer commit independently.
	w := 42.0
	a.UpdateLayer("x", canvas.PositionPatch(7, 8))
	b.UpdateLayer("x", canvas.LayerPatch{Width: &w})

	la, _ := a.Layer("x")
	lb, _ := b.Layer("x")
	assert.Equal(t, la, lb)
	assert.Equal(t, 7.0, la.X)
	assert.Equal(t, 42.0, la.Width)
}

func TestConcurrentWritesConvergeInAnyOrder(t *testing.T) {
	a, b := NewRoom(), NewRoom()
	link(a, b)
	a.AppendLayer("x", rect(0, 0))

	// Cut the link and write the same field on both sides.
	a.OnLocalOps, b.OnLocalOps = nil, nil
	var fromA, fromB []Op
	a.OnLocalOps = func(ops []Op) { fromA = append(fromA, ops...) }
	b.OnLocalOps = func(ops []Op) { fromB = append(fromB, ops...) }

	a.UpdateLayer("x", canvas.PositionPatch(100, 100))
	b.UpdateLayer("x", canvas.PositionPatch(-100, -100))
	b.DeleteLayer("x")

	a.ApplyRemoteOps(fromB)
	b.ApplyRemoteOps(fromA)

	assert.Equal(t, a.LayerIDs(), b.LayerIDs())
	assert.Equal(t, a.Layers(), b.Layers())
}

func TestDeleteUndoRestoresDepth(t *testing.T) {
	r := NewRoom()
	r.AppendLayer("a", rect(0, 0))
	r.AppendLayer("b", rect(0, 0))
	r.AppendLayer("c", rect(0, 0))

	r.DeleteLayer("b")
	assert.Equal(t, []string{"a", "c"}, r.LayerIDs())

	r.Undo()
	assert.Equal(t, []string{"a", "b", "c"}, r.LayerIDs())
}

func TestLateInsertAfterDeleteStaysDead(t *testing.T) {
	r := NewRoom()
	l := rect(0, 0)
	r.ApplyRemoteOps([]Op{{Type: OpDeleteLayer, ID: "z", Stamp: Stamp{Lamport: 5, Site: "s"}}})
	r.ApplyRemoteOps([]Op{{Type: OpInsertLayer, ID: "z", Layer: &l, Order: Stamp{Lamport: 3, Site: "s"}, Stamp: Stamp{Lamport: 3, Site: "s"}}})

	assert.Empty(t, r.LayerIDs())
}

func TestSnapshotMerge(t *testing.T) {
	host := NewRoom()
	host.AppendLayer("a", rect(0, 0))
	host.AppendLayer("b", rect(1, 1))
	host.DeleteLayer("a")
	host.UpdateLayer("b", canvas.PositionPatch(9, 9))

	guest := NewRoom()
	guest.LoadSnapshot(host.Snapshot())

	assert.Equal(t, host.LayerIDs(), guest.LayerIDs())
	assert.Equal(t, host.Layers(), guest.Layers())

	// The guest clock moved past everything in the snapshot, so its own
	// writes win.
	guest.UpdateLayer("b", canvas.PositionPatch(1, 1))
	l, _ := guest.Layer("b")
	assert.Equal(t, 1.0, l.X)
}

func TestRemotePresenceAndPeers(t *testing.T) {
	r := NewRoom()
	r.ApplyRemotePresence(5, SetSelection([]string{"a"}))
	r.ApplyRemotePresence(2, SetCursor(&canvas.Point{X: 1}))
	r.ApplyRemotePresence(5, SetCursor(&canvas.Point{X: 2}))

	peers := r.Others()
	require.Len(t, peers, 2)
	assert.Equal(t, 2, peers[0].ConnectionID)
	assert.Equal(t, 5, peers[1].ConnectionID)
	assert.Equal(t, []string{"a"}, peers[1].Presence.Selection, "patches replace only named fields")

	r.RemovePeer(5)
	assert.Len(t, r.Others(), 1)
}

func TestStampAfter(t *testing.T) {
	assert.True(t, Stamp{Lamport: 2, Site: "a"}.After(Stamp{Lamport: 1, Site: "z"}))
	assert.True(t, Stamp{Lamport: 1, Site: "b"}.After(Stamp{Lamport: 1, Site: "a"}))
	assert.False(t, Stamp{Lamport: 1, Site: "a"}.After(Stamp{Lamport: 1, Site: "a"}))
	assert.True(t, Stamp{}.IsZero())
}

func TestClockWitness(t *testing.T) {
	c := NewClock()
	c.Witness(Stamp{Lamport: 10})
	assert.Equal(t, uint64(11), c.Tick().Lamport)
	c.Witness(Stamp{Lamport: 3})
	assert.Equal(t, uint64(12), c.Tick().Lamport)
}
