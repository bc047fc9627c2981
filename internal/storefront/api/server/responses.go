package server

import (
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

type CreateAdResponse struct {
	AdID int64 `json:"ad_id"` //nolint:tagliatelle
}

type UpdateAdResponse struct {
	Ad        models.Advertisement  `json:"ad"`
	Swapped   bool                  `json:"swapped"`
	Displaced *models.Advertisement `json:"displaced,omitempty"`
}

type AuthUserResponse struct {
	Token string `json:"token"`
}

type CreateUserResponse struct {
	Token string `json:"token"`
}

type CreateProductResponse struct {
	ProductID int64 `json:"product_id"` //nolint:tagliatelle
}

type CreateEventResponse struct {
	EventID int64 `json:"event_id"` //nolint:tagliatelle
}

type CreateOrderResponse struct {
	OrderID    int64 `json:"order_id"`    //nolint:tagliatelle
	TotalCents int64 `json:"total_cents"` //nolint:tagliatelle
}

// PublicAd is the storefront view of an advertisement: internal
// bookkeeping fields are stripped.
type PublicAd struct {
	Family       string               `json:"family"`
	Position     int                  `json:"position"`
	Title        string               `json:"title"`
	BannerImage  string               `json:"banner_image"`  //nolint:tagliatelle
	BadgeTitle   string               `json:"badge_title,omitempty"`   //nolint:tagliatelle
	DiscountText string               `json:"discount_text,omitempty"` //nolint:tagliatelle
	CallToAction *models.CallToAction `json:"call_to_action,omitempty"` //nolint:tagliatelle
}

func toPublicAds(ads []models.Advertisement) []PublicAd {
	out := make([]PublicAd, 0, len(ads))
	for _, ad := range ads {
		out = append(out, PublicAd{
			Family:       ad.Family,
			Position:     ad.Position,
			Title:        ad.Title,
			BannerImage:  ad.BannerImage,
			BadgeTitle:   ad.BadgeTitle,
			DiscountText: ad.DiscountText,
			CallToAction: ad.CallToAction,
		})
	}

	return out
}
