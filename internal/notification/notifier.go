package notification

import (
	"context"
	"log"
	"time"
)

// Notification kinds emitted by the booking lifecycle.
const (
	KindBookingCreated     = "booking_created"
	KindBookingConfirmed   = "booking_confirmed"
	KindBookingCancelled   = "booking_cancelled"
	KindBookingRescheduled = "booking_rescheduled"
	KindBookingRefunded    = "booking_refunded"
)

type Event struct {
	Kind      string
	Recipient string
	Data      map[string]any
}

// Sink delivers one notification. Implementations must treat delivery as
// best-effort; a failed send is logged and dropped, never retried into the
// request path.
type Sink interface {
	Send(ctx context.Context, ev Event) error
}

// LogSink writes notifications to the process log. It stands in for the
// hosted email provider in development and tests.
type LogSink struct{}

func (LogSink) Send(_ context.Context, ev Event) error {
	log.Printf("notify %s -> %s %v", ev.Kind, ev.Recipient, ev.Data)
	return nil
}

// Dispatcher fans notifications out to the sink from a worker goroutine so
// lifecycle operations never wait on the provider.
type Dispatcher struct {
	sink  Sink
	queue chan Event
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := d.sink.Send(ctx, ev); err != nil {
			log.Printf("notification error (%s to %s): %v", ev.Kind, ev.Recipient, err)
		}
		cancel()
	}
}

// Dispatch never blocks: a full queue drops the notification.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Println("notification queue full, dropping event")
	}
}
