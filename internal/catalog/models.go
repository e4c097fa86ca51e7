package catalog

import "time"

// Product prices are integer cents; stock is never negative. Stock is mutated
// only by the order transaction (decrement) or a direct catalog update.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nombre"`
	Description *string   `json:"descripcion,omitempty"`
	PriceCents  int64     `json:"precio_centavos"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"activo"`
	ImagePath   *string   `json:"imagen,omitempty"`
	CategoryID  *int64    `json:"categoria_id,omitempty"`
	Category    *string   `json:"categoria,omitempty"`
	CreatedAt   time.Time `json:"fecha_creacion"`
}

type Input struct {
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	PriceCents  *int64  `json:"precio_centavos"`
	Stock       *int    `json:"stock"`
	CategoryID  *int64  `json:"categoria_id"`
}

// Validate returns the list of field violations; empty means valid.
func (in Input) Validate() []string {
	var violations []string
	if in.Name == "" {
		violations = append(violations, "nombre is required")
	}
	if in.PriceCents == nil {
		violations = append(violations, "precio_centavos is required")
	} else if *in.PriceCents < 0 {
		violations = append(violations, "precio_centavos must be non-negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		violations = append(violations, "stock must be non-negative")
	}
	return violations
}
