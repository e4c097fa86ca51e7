package notify

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderConfirmed = "tienda.pedido.confirmado"
	EventOrderConfirmed = "OrderConfirmed"
)

type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Producer   string          `json:"producer"`
	Payload    json.RawMessage `json:"payload"`
}

type LinePayload struct {
	ProductID      int64  `json:"producto_id"`
	ProductName    string `json:"producto"`
	Qty            int    `json:"cantidad"`
	UnitPriceCents int64  `json:"precio_unitario_centavos"`
}

type OrderConfirmedPayload struct {
	OrderID    int64         `json:"pedido_id"`
	UserEmail  string        `json:"email"`
	Status     string        `json:"estado"`
	TotalCents int64         `json:"total_centavos"`
	CreatedAt  time.Time     `json:"fecha_pedido"`
	Lines      []LinePayload `json:"detalles"`
}
