package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	OrderCreated       EventType = "order.created"
	OrderAssigned      EventType = "order.assigned"
	OrderStatusChanged EventType = "order.status_changed"
	OrderUnassigned    EventType = "order.unassigned"
)

// OrderEvent is emitted after every committed order mutation.
type OrderEvent struct {
	Type             EventType  `json:"type"`
	OrderID          uuid.UUID  `json:"order_id"`
	SessionID        uuid.UUID  `json:"session_id"`
	Status           string     `json:"status"`
	AssignedWorkerID *uuid.UUID `json:"assigned_worker_id"`
	OccurredAt       time.Time  `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// Subscriber streams order events until ctx is done. The returned channel is
// closed when the subscription ends.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan OrderEvent, error)
}

// Fanout publishes to every sink and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event OrderEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
