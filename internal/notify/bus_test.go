package notify

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/campuskit/campusctl/internal/shared"
)

func newTestBus() *Bus {
	return NewBus(shared.NewLogger(&bytes.Buffer{}))
}

// recorder collects handler deliveries; nil deliveries mark dismissals.
type recorder struct {
	mu       sync.Mutex
	messages []*Message
}

func (r *recorder) handle(m *Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

func (r *recorder) snapshot() []*Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Message{}, r.messages...)
}

func TestBus(t *testing.T) {
	t.Run("PublishWithoutSubscriber", func(t *testing.T) {
		b := newTestBus()
		b.Publish("nobody is listening")

		if b.Visible() == nil {
			t.Error("message should still occupy the visible slot")
		}
	})

	t.Run("DeliversToSubscriber", func(t *testing.T) {
		b := newTestBus()
		rec := &recorder{}
		b.Subscribe(rec.handle)

		b.Publish("saved", WithKind(Success))

		got := rec.snapshot()
		if len(got) != 1 {
			t.Fatalf("expected 1 delivery, got %d", len(got))
		}
		if got[0].Text != "saved" || got[0].Kind != Success {
			t.Errorf("unexpected message: %+v", got[0])
		}
	})

	t.Run("AutoDismiss", func(t *testing.T) {
		b := newTestBus()
		rec := &recorder{}
		b.Subscribe(rec.handle)

		b.Publish("short lived", WithDuration(20*time.Millisecond))
		time.Sleep(60 * time.Millisecond)

		if b.Visible() != nil {
			t.Error("message should have auto-dismissed")
		}
		got := rec.snapshot()
		if len(got) != 2 || got[1] != nil {
			t.Errorf("expected delivery then dismissal, got %d deliveries", len(got))
		}
	})

	t.Run("SupersededTimerNeverFires", func(t *testing.T) {
		b := newTestBus()
		rec := &recorder{}
		b.Subscribe(rec.handle)

		b.Publish("first", WithDuration(30*time.Millisecond))
		b.Publish("second", WithDuration(120*time.Millisecond))

		// Past the first message's deadline the second must still be visible.
		time.Sleep(70 * time.Millisecond)
		visible := b.Visible()
		if visible == nil || visible.Text != "second" {
			t.Fatalf("expected second message visible, got %+v", visible)
		}

		for _, m := range rec.snapshot() {
			if m == nil {
				t.Fatal("no dismissal should have been delivered yet")
			}
		}
	})

	t.Run("LastMountWins", func(t *testing.T) {
		b := newTestBus()
		first := &recorder{}
		second := &recorder{}

		unsubFirst := b.Subscribe(first.handle)
		b.Subscribe(second.handle)

		b.Publish("hello")

		if len(first.snapshot()) != 0 {
			t.Error("replaced subscriber should not receive messages")
		}
		if len(second.snapshot()) != 1 {
			t.Error("live subscriber should receive the message")
		}

		// A stale unsubscribe must not detach the live subscriber.
		unsubFirst()
		b.Publish("again")
		if len(second.snapshot()) != 2 {
			t.Error("live subscriber should survive a stale unsubscribe")
		}
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		b := newTestBus()
		rec := &recorder{}
		unsub := b.Subscribe(rec.handle)
		unsub()

		b.Publish("into the void")
		if len(rec.snapshot()) != 0 {
			t.Error("unsubscribed handler should not be called")
		}
	})

	t.Run("SubscribeSeesVisibleMessage", func(t *testing.T) {
		b := newTestBus()
		b.Publish("already showing", WithDuration(time.Second))

		rec := &recorder{}
		b.Subscribe(rec.handle)

		got := rec.snapshot()
		if len(got) != 1 || got[0].Text != "already showing" {
			t.Errorf("late subscriber should receive the visible message, got %v", got)
		}
	})

	t.Run("Dismiss", func(t *testing.T) {
		b := newTestBus()
		rec := &recorder{}
		b.Subscribe(rec.handle)

		b.Publish("going away", WithDuration(time.Second))
		b.Dismiss()

		if b.Visible() != nil {
			t.Error("dismiss should clear the visible slot")
		}

		// Dismissing twice is harmless.
		b.Dismiss()
	})
}
