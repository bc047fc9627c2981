package models

import (
	"time"
)

type Event struct {
	ID          int64     `json:"event_id"` //nolint:tagliatelle
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"` //nolint:tagliatelle
	StartsAt    time.Time `json:"starts_at"` //nolint:tagliatelle
	EndsAt      time.Time `json:"ends_at"`   //nolint:tagliatelle
	Published   bool      `json:"is_published"` //nolint:tagliatelle
	CreatedAt   time.Time `json:"created_at"`   //nolint:tagliatelle
	UpdatedAt   time.Time `json:"updated_at"`   //nolint:tagliatelle
}
