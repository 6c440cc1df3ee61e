// Package panel implements the side panel end of the note sync protocol:
// its lifecycle, the messages it exchanges with the core, and the
// client-local filter applied before display.
package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/codenotes/pkg/core"
)

var ErrNotAttached = errors.New("panel is not attached")

// Handler is the core side of the protocol. *core.Service implements it.
type Handler interface {
	AttachPanel(o core.Observer) (detach func())
	Refresh()
	Jump(ctx context.Context, file string, line int) error
	DeleteNote(ctx context.Context, file string, line int) (int, error)
}

// Renderer is the host surface that displays the panel.
type Renderer interface {
	Render(doc string, msg RenderMessage) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(doc string, msg RenderMessage) error

func (f RendererFunc) Render(doc string, msg RenderMessage) error { return f(doc, msg) }

// Panel is one live side panel. It implements core.Observer.
type Panel struct {
	id       string
	handler  Handler
	renderer Renderer
	logger   *slog.Logger

	mu     sync.Mutex
	state  State
	query  string
	last   *core.Frame
	detach func()
}

// New creates an unattached panel.
func New(handler Handler, renderer Renderer, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.NewString()
	return &Panel{
		id:       id,
		handler:  handler,
		renderer: renderer,
		logger:   logger.With("panel", id),
	}
}

func (p *Panel) ID() string { return p.id }

func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Query returns the active filter.
func (p *Panel) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

func (p *Panel) move(to State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := transition(p.state, to); err != nil {
		return err
	}
	p.logger.Debug("panel transition", "from", p.state.String(), "to", to.String())
	p.state = to
	return nil
}

// Attach registers the panel with the core. The core answers with a full
// frame before Attach returns; no earlier state is assumed.
func (p *Panel) Attach() error {
	if err := p.move(StateAttached); err != nil {
		return err
	}
	detach := p.handler.AttachPanel(p)

	p.mu.Lock()
	p.detach = detach
	p.mu.Unlock()
	return nil
}

// Show makes the panel visible. Coming back from Hidden requests a fresh
// frame since anything seen before hiding may be stale.
func (p *Panel) Show() error {
	prev := p.State()
	if err := p.move(StateVisible); err != nil {
		return err
	}
	if prev == StateHidden {
		p.handler.Refresh()
	}
	return nil
}

// Hide stops rendering until Show is called. Frames received meanwhile are ignored.
func (p *Panel) Hide() error {
	if err := p.move(StateHidden); err != nil {
		return err
	}
	p.mu.Lock()
	p.last = nil
	p.mu.Unlock()
	return nil
}

// Dispose detaches the panel for good.
func (p *Panel) Dispose() error {
	if err := p.move(StateDisposed); err != nil {
		return err
	}
	p.mu.Lock()
	detach := p.detach
	p.detach = nil
	p.last = nil
	p.mu.Unlock()

	if detach != nil {
		detach()
	}
	return nil
}

// Render receives a frame from the broadcaster.
func (p *Panel) Render(frame core.Frame) {
	p.mu.Lock()
	if !p.state.renders() {
		p.mu.Unlock()
		return
	}
	p.last = &frame
	query := p.query
	p.mu.Unlock()

	p.paint(frame, query)
}

// paint runs without the panel lock so the renderer may call Receive.
func (p *Panel) paint(frame core.Frame, query string) {
	doc, err := RenderHTML(p.id, BuildView(frame, query))
	if err != nil {
		p.logger.Error("failed to build panel view", "error", err)
		return
	}
	if err := p.renderer.Render(doc, NewRenderMessage(frame)); err != nil {
		p.logger.Warn("panel renderer failed", "error", err)
	}
}

// SetFilter changes the client-local query and repaints the last frame.
// It never reaches the store.
func (p *Panel) SetFilter(query string) {
	p.mu.Lock()
	p.query = query
	last := p.last
	rendering := p.state.renders()
	p.mu.Unlock()

	if rendering && last != nil {
		p.paint(*last, query)
	}
}

// Receive handles a raw message sent by the panel client.
func (p *Panel) Receive(ctx context.Context, data []byte) error {
	msg, err := DecodeInbound(data)
	if err != nil {
		return err
	}
	return p.Handle(ctx, msg)
}

// Handle dispatches a decoded inbound message.
func (p *Panel) Handle(ctx context.Context, msg Inbound) error {
	switch p.State() {
	case StateUnattached, StateDisposed:
		return ErrNotAttached
	}

	switch msg.Command {
	case CommandJump:
		return p.handler.Jump(ctx, msg.File, msg.Line)
	case CommandDelete:
		_, err := p.handler.DeleteNote(ctx, msg.File, msg.Line)
		return err
	case CommandReady:
		p.handler.Refresh()
		return nil
	case CommandFilter:
		p.SetFilter(msg.Query)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, msg.Command)
	}
}
