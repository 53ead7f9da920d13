package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a digital good with a queue of unique content units.
// Invariant: Stock equals len(Contents); both are mutated only through the
// atomic pop-one-unit operation on the product repository.
type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Contents  []string  `json:"contents"` // ordered queue of undelivered units
	Stock     int64     `json:"stock"`
	TotalSold int64     `json:"total_sold"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InStock reports whether at least one content unit remains.
func (p *Product) InStock() bool {
	return len(p.Contents) > 0
}
