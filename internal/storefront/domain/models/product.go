package models

import (
	"time"
)

type Product struct {
	ID          int64     `json:"product_id"` //nolint:tagliatelle
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"` //nolint:tagliatelle
	ImageURL    string    `json:"image_url"`   //nolint:tagliatelle
	Stock       int       `json:"stock"`
	Published   bool      `json:"is_published"` //nolint:tagliatelle
	CreatedAt   time.Time `json:"created_at"`   //nolint:tagliatelle
	UpdatedAt   time.Time `json:"updated_at"`   //nolint:tagliatelle
}
