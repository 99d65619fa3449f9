// Package notify is the in-process toast bus: any part of the app can request
// a transient user-facing message without holding a reference to the surface
// that renders it.
//
// The bus is constructed once at application start and passed by reference to
// publishers and the single notification surface; there is no package-level
// state. At most one message is visible system-wide: a new publish cancels
// the pending auto-dismiss timer and replaces the current message, so the
// only locking discipline needed is cancel-then-replace under one mutex.
package notify

import (
	"sync"
	"time"

	"github.com/campuskit/campusctl/internal/shared"
	"github.com/charmbracelet/log"
)

// Kind classifies a toast message.
type Kind int

const (
	Info Kind = iota
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Info:
		return "info"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return ""
	}
}

// DefaultDuration is how long a message stays visible unless overridden.
const DefaultDuration = 3 * time.Second

// Message is a transient user-facing status message.
type Message struct {
	ID       string
	Text     string
	Kind     Kind
	Duration time.Duration
}

// Option customizes a published message.
type Option func(*Message)

// WithKind sets the message kind.
func WithKind(k Kind) Option {
	return func(m *Message) { m.Kind = k }
}

// WithDuration overrides the auto-dismiss duration.
func WithDuration(d time.Duration) Option {
	return func(m *Message) { m.Duration = d }
}

// Handler receives the currently visible message, or nil when the visible
// message was dismissed.
type Handler func(*Message)

// Bus delivers toast messages to at most one live subscriber.
type Bus struct {
	mu      sync.Mutex
	logger  *log.Logger
	handler Handler
	seq     int
	visible *Message
	timer   *time.Timer
}

// NewBus creates a Bus. The logger receives a diagnostic line for messages
// published while no surface is mounted.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Bus{logger: logger}
}

// Publish makes a message visible. Defaults to [Info] and [DefaultDuration].
// A publish while another message is visible replaces it and restarts the
// dismiss timer; messages never queue. Publishing with no live subscriber
// never blocks or panics, it only logs.
func (b *Bus) Publish(text string, opts ...Option) {
	msg := &Message{
		ID:       shared.GenerateID(),
		Text:     text,
		Kind:     Info,
		Duration: DefaultDuration,
	}
	for _, opt := range opts {
		opt(msg)
	}

	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.visible = msg
	handler := b.handler
	id := msg.ID
	b.timer = time.AfterFunc(msg.Duration, func() { b.expire(id) })
	b.mu.Unlock()

	if handler == nil {
		b.logger.Debugf("toast dropped, no surface mounted: [%s] %s", msg.Kind, msg.Text)
		return
	}
	handler(msg)
}

// Subscribe registers the live handler, replacing any previous one
// (last-mount-wins). If a message is currently visible it is delivered
// immediately. The returned func unregisters this handler; a stale
// unsubscribe from a replaced handler is a no-op.
func (b *Bus) Subscribe(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.seq++
	token := b.seq
	b.handler = fn
	visible := b.visible
	b.mu.Unlock()

	if visible != nil && fn != nil {
		fn(visible)
	}

	return func() {
		b.mu.Lock()
		if b.seq == token {
			b.handler = nil
		}
		b.mu.Unlock()
	}
}

// Dismiss clears the visible message before its timer fires.
func (b *Bus) Dismiss() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	hadVisible := b.visible != nil
	b.visible = nil
	handler := b.handler
	b.mu.Unlock()

	if hadVisible && handler != nil {
		handler(nil)
	}
}

// Visible returns the currently visible message, or nil.
func (b *Bus) Visible() *Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// expire auto-dismisses the message with the given ID. A message superseded
// before its timer fired is left alone: only the latest publish owns the slot.
func (b *Bus) expire(id string) {
	b.mu.Lock()
	if b.visible == nil || b.visible.ID != id {
		b.mu.Unlock()
		return
	}
	b.visible = nil
	handler := b.handler
	b.mu.Unlock()

	if handler != nil {
		handler(nil)
	}
}
