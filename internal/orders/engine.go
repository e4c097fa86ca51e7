package orders

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tiendaops/tienda-api/internal/errs"
)

// Store persists one order atomically or not at all.
type Store interface {
	CreateOrder(ctx context.Context, userID int64, items []LineInput) (*Order, error)
}

// Notifier hands the completed order to the confirmation queue. Best effort:
// a notification failure never unwinds the order.
type Notifier interface {
	OrderConfirmed(ctx context.Context, o *Order, userEmail string) error
}

// Invalidator evicts statistics-derived cached reads after a commit.
type Invalidator interface {
	Stats(ctx context.Context) int
}

// Engine validates an order request, runs the unit of work, and on commit
// triggers confirmation and cache invalidation.
type Engine struct {
	Store       Store
	Notifier    Notifier
	Invalidator Invalidator
	Log         zerolog.Logger
}

// PlaceOrder creates exactly one order with consistent lines and decremented
// stock, or nothing. Input is checked before any database interaction.
func (e *Engine) PlaceOrder(ctx context.Context, userID int64, userEmail string, items []LineInput) (*Order, error) {
	if len(items) == 0 {
		return nil, errs.Validation("order must contain at least one line item")
	}
	var violations []string
	for i, it := range items {
		if it.ProductID <= 0 {
			violations = append(violations, fmt.Sprintf("line %d: producto_id is required", i+1))
		}
		if it.Qty <= 0 {
			violations = append(violations, fmt.Sprintf("line %d: cantidad must be positive", i+1))
		}
	}
	if len(violations) > 0 {
		return nil, &errs.ValidationError{Violations: violations}
	}

	o, err := e.Store.CreateOrder(ctx, userID, items)
	if err != nil {
		return nil, err
	}

	// The order is committed and irreversible from here on.
	if err := e.Notifier.OrderConfirmed(ctx, o, userEmail); err != nil {
		e.Log.Error().Err(err).Int64("order_id", o.ID).Msg("order confirmation not enqueued")
	}
	e.Invalidator.Stats(ctx)

	return o, nil
}
