package adservice

import (
	"fmt"
	"strconv"

	"github.com/softcart/storefront_control/internal/storefront/domain/models"
)

// Validation collects every violation before failing, so the caller
// sees the full list in one response instead of fixing fields one at
// a time.

func validateCreate(req CreateAdRequest) []string {
	var msgs []string

	maxPos, familyOK := models.MaxPosition(req.Family)
	if !familyOK {
		msgs = append(msgs, "family must be horizontal or vertical")
	}

	msgs = append(msgs, validatePosition(req.Position, req.Family, maxPos, familyOK)...)

	if req.Title == "" {
		msgs = append(msgs, "title must not be empty")
	}

	if req.BannerImage == "" {
		msgs = append(msgs, "banner image must not be empty")
	}

	msgs = append(msgs, validateCTA(req.CallToAction)...)

	return msgs
}

func validateUpdate(req UpdateAdRequest) []string {
	var msgs []string

	if req.Position != nil {
		// family range is checked against the stored record's family in
		// the repository, positions beyond the widest family are always
		// invalid
		if *req.Position < 1 {
			msgs = append(msgs, "position must be at least 1")
		} else if *req.Position > models.MaxVerticalPosition {
			msgs = append(msgs, "position must be at most "+strconv.Itoa(models.MaxVerticalPosition))
		}
	}

	if req.Title != nil && *req.Title == "" {
		msgs = append(msgs, "title must not be empty")
	}

	if req.BannerImage != nil && *req.BannerImage == "" {
		msgs = append(msgs, "banner image must not be empty")
	}

	msgs = append(msgs, validateCTA(req.CallToAction)...)

	return msgs
}

func validateReorder(req ReorderRequest) []string {
	var msgs []string

	maxPos, familyOK := models.MaxPosition(req.Family)
	if !familyOK {
		msgs = append(msgs, "family must be horizontal or vertical")
	}

	if len(req.Items) == 0 {
		msgs = append(msgs, "items must not be empty")

		return msgs
	}

	seenPositions := make(map[int]struct{}, len(req.Items))
	seenIDs := make(map[int64]struct{}, len(req.Items))

	for _, item := range req.Items {
		if item.Position < 1 || (familyOK && item.Position > maxPos) {
			msgs = append(msgs, fmt.Sprintf("position %d is out of range for advertisement %d", item.Position, item.ID))
		}

		if _, ok := seenPositions[item.Position]; ok {
			msgs = append(msgs, fmt.Sprintf("position %d is assigned more than once", item.Position))
		}

		seenPositions[item.Position] = struct{}{}

		if _, ok := seenIDs[item.ID]; ok {
			msgs = append(msgs, fmt.Sprintf("advertisement %d appears more than once", item.ID))
		}

		seenIDs[item.ID] = struct{}{}
	}

	return msgs
}

func validatePosition(position int, family string, maxPos int, familyOK bool) []string {
	var msgs []string

	if position < 1 {
		msgs = append(msgs, "position must be at least 1")
	} else if familyOK && position > maxPos {
		msgs = append(msgs, fmt.Sprintf("position must be at most %d for family %s", maxPos, family))
	}

	return msgs
}

func validateCTA(cta *models.CallToAction) []string {
	if cta == nil {
		return nil
	}

	var msgs []string

	if cta.Label == "" {
		msgs = append(msgs, "call to action label must not be empty")
	}

	if cta.URL == "" {
		msgs = append(msgs, "call to action url must not be empty")
	}

	return msgs
}
