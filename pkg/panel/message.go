package panel

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/codenotes/pkg/core"
)

// Commands exchanged with the panel client.
const (
	CommandRender = "render"
	CommandJump   = "jump"
	CommandDelete = "delete"
	CommandReady  = "ready"
	CommandFilter = "filter"
)

var (
	ErrUnknownCommand = errors.New("unknown panel command")
	ErrBadMessage     = errors.New("malformed panel message")
)

// RenderMessage is sent to the panel on every frame.
type RenderMessage struct {
	Command    string        `json:"command"`
	Notes      core.Snapshot `json:"notes"`
	ActiveFile *string       `json:"activeFile"`
}

// NewRenderMessage converts a frame to its wire form. No active file encodes as null.
func NewRenderMessage(frame core.Frame) RenderMessage {
	msg := RenderMessage{Command: CommandRender, Notes: frame.Notes.Clone()}
	if frame.ActiveFile != "" {
		active := frame.ActiveFile
		msg.ActiveFile = &active
	}
	return msg
}

// Inbound is a message sent by the panel to the core.
type Inbound struct {
	Command string `json:"command"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line"`
	Query   string `json:"query,omitempty"`
}

// DecodeInbound parses and validates a panel message.
func DecodeInbound(data []byte) (Inbound, error) {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return Inbound{}, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	switch msg.Command {
	case CommandJump, CommandDelete:
		if msg.File == "" {
			return Inbound{}, fmt.Errorf("%w: %s without file", ErrBadMessage, msg.Command)
		}
		if msg.Line < 0 {
			return Inbound{}, fmt.Errorf("%w: negative line %d", ErrBadMessage, msg.Line)
		}
	case CommandReady, CommandFilter:
	default:
		return Inbound{}, fmt.Errorf("%w: %q", ErrUnknownCommand, msg.Command)
	}
	return msg, nil
}
