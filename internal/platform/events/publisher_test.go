package events

import (
	"context"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func TestNoop_Publish(t *testing.T) {
	var p Publisher = Noop{}
	if err := p.Publish(context.Background(), "assessment.completed", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewPublishing(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg, err := newPublishing(map[string]int{"total": 3}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(msg.Body) != `{"total":3}` {
		t.Errorf("unexpected body: %s", msg.Body)
	}
	if msg.DeliveryMode != amqp.Persistent {
		t.Errorf("expected persistent delivery, got %d", msg.DeliveryMode)
	}
	if msg.ContentType != "application/json" || !msg.Timestamp.Equal(now) {
		t.Errorf("unexpected headers: %+v", msg)
	}
}

func TestNewPublishing_Unmarshalable(t *testing.T) {
	if _, err := newPublishing(make(chan int), time.Now()); err == nil {
		t.Error("expected marshal error for channel payload")
	}
}
