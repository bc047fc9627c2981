package models

import (
	"time"
)

// Layout families for positioned advertisements. The family determines
// how many slots the storefront renders.
const (
	FamilyHorizontal = "horizontal"
	FamilyVertical   = "vertical"
)

const (
	MaxHorizontalPosition = 2
	MaxVerticalPosition   = 3
)

func MaxPosition(family string) (int, bool) {
	switch family {
	case FamilyHorizontal:
		return MaxHorizontalPosition, true
	case FamilyVertical:
		return MaxVerticalPosition, true
	default:
		return 0, false
	}
}

type CallToAction struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Advertisement struct {
	ID           int64         `json:"ad_id"`         //nolint:tagliatelle
	Family       string        `json:"family"`
	Position     int           `json:"position"`
	Title        string        `json:"title"`
	BannerImage  string        `json:"banner_image"`  //nolint:tagliatelle
	BadgeTitle   string        `json:"badge_title"`   //nolint:tagliatelle
	DiscountText string        `json:"discount_text"` //nolint:tagliatelle
	CallToAction *CallToAction `json:"call_to_action,omitempty"` //nolint:tagliatelle
	Active       bool          `json:"is_active"`  //nolint:tagliatelle
	CreatedAt    time.Time     `json:"created_at"` //nolint:tagliatelle
	UpdatedAt    time.Time     `json:"updated_at"` //nolint:tagliatelle
}
