package orders

import "time"

const StatusPending = "pendiente"

type Order struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"usuario_id"`
	Status     string    `json:"estado"`
	TotalCents int64     `json:"total_centavos"`
	CreatedAt  time.Time `json:"fecha_pedido"`
	Lines      []Line    `json:"detalles,omitempty"`
}

// Line captures unit price at order time: historical orders are immune to
// later catalog price changes.
type Line struct {
	ID             int64  `json:"id"`
	OrderID        int64  `json:"pedido_id"`
	ProductID      int64  `json:"producto_id"`
	ProductName    string `json:"producto,omitempty"`
	Qty            int    `json:"cantidad"`
	UnitPriceCents int64  `json:"precio_unitario_centavos"`
}

// LineInput is one (product, quantity) pair of an order request.
type LineInput struct {
	ProductID int64 `json:"producto_id"`
	Qty       int   `json:"cantidad"`
}
