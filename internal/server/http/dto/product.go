package dto

import "time"

// ProductResponse describes a catalog entry. Price is in minor currency units.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Price       int64     `json:"price"`
	Stock       int32     `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductRequest describes a new catalog entry.
type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	Stock       int32  `json:"stock" binding:"gte=0"`
}

// UpdatePriceRequest sets a new unit price for a product.
type UpdatePriceRequest struct {
	Price int64 `json:"price" binding:"required,gt=0"`
}

// AdjustStockRequest changes available stock by a signed delta.
type AdjustStockRequest struct {
	Delta int32 `json:"delta" binding:"required"`
}
