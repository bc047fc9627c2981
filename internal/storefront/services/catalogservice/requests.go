package catalogservice

import (
	"time"
)

// Product and event writes are full replacements (PUT semantics);
// handlers send every field.

type ProductRequest struct {
	Actor       string
	ID          int64
	Name        string
	Slug        string
	Description string
	PriceCents  int64
	ImageURL    string
	Stock       int
	Published   bool
}

type EventRequest struct {
	Actor       string
	ID          int64
	Title       string
	Description string
	ImageURL    string
	StartsAt    time.Time
	EndsAt      time.Time
	Published   bool
}
