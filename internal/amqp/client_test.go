package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker() (*breaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	b := newBreaker(3, time.Minute)
	b.now = clock.now
	return b, clock
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker()

	for i := 0; i < 2; i++ {
		b.Failure()
		if !b.Allow() {
			t.Fatalf("breaker open after %d failures, threshold is 3", i+1)
		}
	}
	b.Failure()
	if b.Allow() {
		t.Fatal("breaker should be open after 3 failures")
	}
	if b.State() != StateOpen {
		t.Errorf("State() = %d, want StateOpen", b.State())
	}
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b, _ := newTestBreaker()

	b.Failure()
	b.Failure()
	b.Success()
	b.Failure()
	b.Failure()

	if !b.Allow() {
		t.Error("failures before a success should not count towards the threshold")
	}
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	tests := []struct {
		name      string
		wait      time.Duration
		probeOK   bool
		wantAllow bool
		wantState int32
	}{
		{name: "still cooling down", wait: 30 * time.Second, wantAllow: false, wantState: StateOpen},
		{name: "probe succeeds", wait: time.Minute, probeOK: true, wantAllow: true, wantState: StateClosed},
		{name: "probe fails", wait: 2 * time.Minute, probeOK: false, wantAllow: true, wantState: StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, clock := newTestBreaker()
			for i := 0; i < 3; i++ {
				b.Failure()
			}
			clock.advance(tt.wait)

			allowed := b.Allow()
			if allowed != tt.wantAllow {
				t.Fatalf("Allow() = %v, want %v", allowed, tt.wantAllow)
			}
			if allowed {
				if b.State() != StateHalfOpen {
					t.Fatalf("State() = %d after cooldown, want StateHalfOpen", b.State())
				}
				if tt.probeOK {
					b.Success()
				} else {
					b.Failure()
				}
			}
			if b.State() != tt.wantState {
				t.Errorf("State() = %d, want %d", b.State(), tt.wantState)
			}
		})
	}
}

func TestBreaker_FailedProbeRestartsCooldown(t *testing.T) {
	b, clock := newTestBreaker()
	for i := 0; i < 3; i++ {
		b.Failure()
	}
	clock.advance(time.Minute)
	b.Allow()
	b.Failure()

	clock.advance(30 * time.Second)
	if b.Allow() {
		t.Error("cooldown should restart from the failed probe")
	}
}

func TestBreaker_SingleProbeWhileHalfOpen(t *testing.T) {
	b, clock := newTestBreaker()
	for i := 0; i < 3; i++ {
		b.Failure()
	}
	clock.advance(time.Minute)

	if !b.Allow() {
		t.Fatal("first call after cooldown should be let through")
	}
	for i := 0; i < 3; i++ {
		if b.Allow() {
			t.Fatalf("call %d allowed while probe in flight", i+2)
		}
	}

	b.Success()
	if !b.Allow() || !b.Allow() {
		t.Error("closed breaker should allow every call")
	}
}

func TestPublishLedgerChanged_Guards(t *testing.T) {
	t.Run("open circuit", func(t *testing.T) {
		b, _ := newTestBreaker()
		for i := 0; i < 3; i++ {
			b.Failure()
		}
		c := &Client{exchangeName: "finflow", queueName: "ledger_changed", breaker: b}

		err := c.PublishLedgerChanged(context.Background(), EntityTransaction, []string{"t1"})
		if !errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("PublishLedgerChanged() error = %v, want ErrCircuitOpen", err)
		}
		if !strings.Contains(err.Error(), "transaction") {
			t.Errorf("error should name the entity, got %q", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		b, _ := newTestBreaker()
		c := &Client{breaker: b}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := c.PublishLedgerChanged(ctx, EntityCard, []string{"visa"}); !errors.Is(err, context.Canceled) {
			t.Errorf("PublishLedgerChanged() error = %v, want context.Canceled", err)
		}
		if b.State() != StateClosed {
			t.Error("a cancelled publish must not count as a broker failure")
		}
	})
}

func TestDispatch(t *testing.T) {
	valid, err := NewLedgerChangedMessage(EntityInvoice, []string{"visa:2024-04"}).ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		body        []byte
		redelivered bool
		handlerErr  error
		want        outcome
		wantCalled  bool
	}{
		{name: "handled", body: valid, want: outcomeAck, wantCalled: true},
		{name: "handled on redelivery", body: valid, redelivered: true, want: outcomeAck, wantCalled: true},
		{name: "handler fails", body: valid, handlerErr: errors.New("sheets down"), want: outcomeRequeue, wantCalled: true},
		{name: "handler fails again on redelivery", body: valid, redelivered: true, handlerErr: errors.New("sheets down"), want: outcomeDrop, wantCalled: true},
		{name: "garbage", body: []byte("not json"), want: outcomeDrop},
		{name: "wrong shape", body: []byte(`{"entity": 42}`), want: outcomeDrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			got := dispatch(context.Background(), tt.body, tt.redelivered, func(_ context.Context, msg *LedgerChangedMessage) error {
				called = true
				if msg.Entity != EntityInvoice {
					t.Errorf("handler got entity %q", msg.Entity)
				}
				return tt.handlerErr
			})
			if got != tt.want {
				t.Errorf("dispatch() = %d, want %d", got, tt.want)
			}
			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestExponentialBackoff(t *testing.T) {
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second, maxBackoff, maxBackoff}
	for attempt, w := range want {
		if got := exponentialBackoff(attempt); got != w {
			t.Errorf("exponentialBackoff(%d) = %v, want %v", attempt, got, w)
		}
	}
	if got := exponentialBackoff(64); got != maxBackoff {
		t.Errorf("exponentialBackoff(64) = %v, want %v", got, maxBackoff)
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{amqp091.ErrClosed, true},
		{fmt.Errorf("publish message: %w", amqp091.ErrClosed), true},
		{errors.New("dial tcp 127.0.0.1:5672: connect: connection refused"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("write: broken pipe"), true},
		{errors.New("message channel closed"), true},
		{errors.New("export summary: invalid month"), false},
	}

	for _, tt := range tests {
		if got := isConnectionError(tt.err); got != tt.want {
			t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestLedgerChangedMessage_RoundTrip(t *testing.T) {
	msg := NewLedgerChangedMessage(EntityCardTransaction, []string{"ct-1", "ct-2"})
	if time.Since(msg.Timestamp) > time.Second || msg.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want recent UTC", msg.Timestamp)
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"entity":"card_transaction"`) {
		t.Errorf("ToJSON() = %s", data)
	}

	parsed, err := LedgerChangedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("LedgerChangedMessageFromJSON() error = %v", err)
	}
	if parsed.Entity != msg.Entity || len(parsed.IDs) != 2 || !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("parsed = %+v, want %+v", parsed, msg)
	}
}
