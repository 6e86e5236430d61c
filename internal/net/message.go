package net

import "LiveBoard/internal/state"

type MessageType string

const (
	MsgWelcome  MessageType = "welcome"
	MsgSnapshot MessageType = "snapshot"
	MsgOps      MessageType = "ops"
	MsgPresence MessageType = "presence"
	MsgLeave    MessageType = "leave"
)

// Message is the single wire envelope exchanged between host and clients.
// ConnectionID names the connection the payload belongs to; on welcome it
// is the id assigned to the receiver.
type Message struct {
	Type         MessageType          `json:"type"`
	ConnectionID int                  `json:"connection_id"`
	Ops          []state.Op           `json:"ops,omitempty"`
	Presence     *state.PresencePatch `json:"presence,omitempty"`
	Snapshot     *state.Snapshot      `json:"snapshot,omitempty"`
}
