package notify

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

// Deliverer is the outbound delivery boundary (SMTP, push, webhook).
type Deliverer interface {
	Deliver(ctx context.Context, p OrderConfirmedPayload) error
}

// LogDeliverer records the confirmation instead of sending it; the actual
// transport lives outside this service.
type LogDeliverer struct {
	Log zerolog.Logger
}

func (d *LogDeliverer) Deliver(_ context.Context, p OrderConfirmedPayload) error {
	d.Log.Info().
		Int64("order_id", p.OrderID).
		Str("email", p.UserEmail).
		Int64("total_centavos", p.TotalCents).
		Int("lines", len(p.Lines)).
		Msg("order confirmation delivered")
	return nil
}

// ConsumerHandler decodes confirmation events. Returning an error prevents
// the offset commit, so failed deliveries are retried (at-least-once).
type ConsumerHandler struct {
	Deliverer Deliverer
	Log       zerolog.Logger
}

func (h *ConsumerHandler) Handle(ctx context.Context, m kafkago.Message) error {
	var env Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// Malformed message: drop it, redelivery cannot fix it.
		h.Log.Error().Err(err).Msg("dropping undecodable confirmation event")
		return nil
	}
	if env.EventType != EventOrderConfirmed {
		return nil
	}
	var p OrderConfirmedPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		h.Log.Error().Err(err).Str("event_id", env.EventID).Msg("dropping confirmation event with bad payload")
		return nil
	}
	return h.Deliverer.Deliver(ctx, p)
}
