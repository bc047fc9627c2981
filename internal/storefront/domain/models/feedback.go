package models

import (
	"time"
)

type Feedback struct {
	ID           int64     `json:"feedback_id"` //nolint:tagliatelle
	CustomerName string    `json:"customer_name"` //nolint:tagliatelle
	Email        string    `json:"email"`
	Message      string    `json:"message"`
	Rating       int       `json:"rating"`
	Published    bool      `json:"is_published"` //nolint:tagliatelle
	CreatedAt    time.Time `json:"created_at"`   //nolint:tagliatelle
}
