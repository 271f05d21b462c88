package model

import "time"

// Product is a catalog entry. Price is expressed in minor currency units,
// Stock is the number of units available for reservation.
type Product struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	Price       int64
	Stock       int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
