package adservice

import (
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

type CreateAdRequest struct {
	Actor        string
	Family       string
	Position     int
	Title        string
	BannerImage  string
	BadgeTitle   string
	DiscountText string
	CallToAction *models.CallToAction
	Active       *bool // nil defaults to true
}

type UpdateAdRequest struct {
	Actor        string
	ID           int64
	Position     *int
	Title        *string
	BannerImage  *string
	BadgeTitle   *string
	DiscountText *string
	CallToAction *models.CallToAction
	Active       *bool
}

// UpdateAdResponse carries the updated record and, when the move
// displaced another record, that record in its new position.
type UpdateAdResponse struct {
	Ad        models.Advertisement
	Swapped   bool
	Displaced *models.Advertisement
}

type ReorderItem struct {
	ID       int64 `json:"ad_id"` //nolint:tagliatelle
	Position int   `json:"position"`
}

type ReorderRequest struct {
	Actor  string
	Family string
	Items  []ReorderItem
}
