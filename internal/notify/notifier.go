package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	kafkax "github.com/tiendaops/tienda-api/internal/kafka"
	"github.com/tiendaops/tienda-api/internal/orders"
)

// Kafka enqueues order confirmations as events consumed by the mailer
// worker. Delivery is decoupled from the request lifecycle: once the event is
// in the producer inbox the request is done with it.
type Kafka struct {
	Producer *kafkax.Producer
	Service  string
}

func (k *Kafka) OrderConfirmed(_ context.Context, o *orders.Order, userEmail string) error {
	lines := make([]LinePayload, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, LinePayload{
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			Qty:            l.Qty,
			UnitPriceCents: l.UnitPriceCents,
		})
	}
	ev := Envelope{
		EventID:    uuid.NewString(),
		EventType:  EventOrderConfirmed,
		OccurredAt: time.Now().UTC(),
		Producer:   k.Service,
		Payload: kafkax.MustMarshal(OrderConfirmedPayload{
			OrderID:    o.ID,
			UserEmail:  userEmail,
			Status:     o.Status,
			TotalCents: o.TotalCents,
			CreatedAt:  o.CreatedAt,
			Lines:      lines,
		}),
	}
	k.Producer.Publish([]byte(strconv.FormatInt(o.ID, 10)), kafkax.MustMarshal(ev))
	return nil
}
