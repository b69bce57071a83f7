package notify

import (
	"testing"
	"time"

	"github.com/goccy/go-json"

	"lpstats/internal/events"
)

func newTestClient(userID string) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 8)}
}

func TestNotify_ReachesAllUserConnections(t *testing.T) {
	h := NewHub()
	a := newTestClient("lp-1")
	b := newTestClient("lp-1") // second tab
	other := newTestClient("lp-2")
	h.Register(a)
	h.Register(b)
	h.Register(other)

	h.Notify("lp-1", BadgeMessage{Type: "badge", BadgeID: "first_review", Name: "First Review"})

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.Send:
			var msg BadgeMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if msg.BadgeID != "first_review" {
				t.Errorf("BadgeID = %q, want %q", msg.BadgeID, "first_review")
			}
		default:
			t.Error("connection received nothing")
		}
	}

	select {
	case <-other.Send:
		t.Error("lp-2 received a message meant for lp-1")
	default:
	}
}

func TestNotify_DropsWhenChannelFull(t *testing.T) {
	h := NewHub()
	c := &Client{UserID: "lp-1", Send: make(chan []byte)} // unbuffered, nobody reading
	h.Register(c)

	done := make(chan struct{})
	go func() {
		h.Notify("lp-1", BadgeMessage{Type: "badge", BadgeID: "night_owl"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full client channel")
	}
}

func TestUnregister_RemovesOnlyThatClient(t *testing.T) {
	h := NewHub()
	a := newTestClient("lp-1")
	b := newTestClient("lp-1")
	h.Register(a)
	h.Register(b)

	h.Unregister(a)

	if _, ok := <-a.Send; ok {
		t.Error("unregistered client's Send channel not closed")
	}

	h.Notify("lp-1", BadgeMessage{Type: "badge", BadgeID: "streak_3"})
	select {
	case <-b.Send:
	default:
		t.Error("remaining connection no longer receives")
	}
}

func TestRun_ForwardsBusEvents(t *testing.T) {
	h := NewHub()
	c := newTestClient("lp-1")
	h.Register(c)

	bus := events.NewBus()
	done := make(chan struct{})
	go func() {
		h.Run(bus)
		close(done)
	}()

	bus.Publish(events.BadgeEarned{
		UserID:   "lp-1",
		BadgeID:  "kingmaker",
		Name:     "Kingmaker",
		Category: "accuracy",
	})

	select {
	case data := <-c.Send:
		var msg BadgeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if msg.Type != "badge" || msg.BadgeID != "kingmaker" || msg.Category != "accuracy" {
			t.Errorf("forwarded message = %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no message forwarded from bus")
	}

	close(bus.BadgeEarnings)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after bus close")
	}
}
