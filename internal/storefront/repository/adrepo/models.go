package adrepo

import (
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

type ListRequest struct {
	Family     string // empty means both families
	OnlyActive bool
}

// UpdateRequest carries only the fields present in the caller's input;
// nil pointers are left untouched.
type UpdateRequest struct {
	ID           int64
	Position     *int
	Title        *string
	BannerImage  *string
	BadgeTitle   *string
	DiscountText *string
	Active       *bool
	CallToAction *models.CallToAction
}

// UpdateResult reports whether a slot swap happened and carries the
// record that was moved to the mover's old position.
type UpdateResult struct {
	Swapped   bool
	Displaced *models.Advertisement
}

type ReorderItem struct {
	ID       int64
	Position int
}
