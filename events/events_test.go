package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type capture struct {
	got []OrderEvent
	err error
}

func (c *capture) Publish(_ context.Context, ev OrderEvent) error {
	c.got = append(c.got, ev)
	return c.err
}

func TestMultiFansOut(t *testing.T) {
	a := &capture{}
	b := &capture{}
	m := Multi{a, b}

	ev := OrderEvent{Type: TypeOrderCreated, OrderID: "o1", At: time.Now()}
	if err := m.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(a.got) != 1 || len(b.got) != 1 {
		t.Fatalf("fanout = %d/%d, want 1/1", len(a.got), len(b.got))
	}
}

func TestMultiKeepsGoingOnError(t *testing.T) {
	boom := errors.New("broker down")
	a := &capture{err: boom}
	b := &capture{}
	m := Multi{a, b}

	err := m.Publish(context.Background(), OrderEvent{Type: TypeOrderCreated, OrderID: "o1"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want first sink error", err)
	}
	if len(b.got) != 1 {
		t.Fatalf("second sink skipped after first failed")
	}
}

func TestNoop(t *testing.T) {
	if err := (Noop{}).Publish(context.Background(), OrderEvent{}); err != nil {
		t.Fatalf("noop publish: %v", err)
	}
}
