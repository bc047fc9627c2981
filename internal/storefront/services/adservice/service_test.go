package adservice

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	repo "github.com/softcart/storefront_control/internal/storefront/repository/adrepo"
	"github.com/stretchr/testify/require"
)

// fakeAdRepo mirrors the repository contract in memory, including the
// swap-on-conflict behavior of the postgres implementation.
type fakeAdRepo struct {
	nextID int64
	ads    map[int64]models.Advertisement
}

func newFakeAdRepo() *fakeAdRepo {
	return &fakeAdRepo{ads: make(map[int64]models.Advertisement)}
}

func (f *fakeAdRepo) CreateAd(_ context.Context, ad models.Advertisement) (int64, error) {
	for _, existing := range f.ads {
		if existing.Family == ad.Family && existing.Position == ad.Position {
			return 0, apperrors.NewConflict("position already occupied")
		}
	}

	f.nextID++
	ad.ID = f.nextID
	f.ads[ad.ID] = ad

	return ad.ID, nil
}

func (f *fakeAdRepo) UpdateAd(_ context.Context, req repo.UpdateRequest) (models.Advertisement, repo.UpdateResult, error) {
	ad, ok := f.ads[req.ID]
	if !ok {
		return models.Advertisement{}, repo.UpdateResult{}, apperrors.ErrNotFound
	}

	var res repo.UpdateResult

	if req.Position != nil {
		maxPos, _ := models.MaxPosition(ad.Family)
		if *req.Position > maxPos {
			return models.Advertisement{}, repo.UpdateResult{}, apperrors.NewValidation(
				[]string{fmt.Sprintf("position must be at most %d for family %s", maxPos, ad.Family)})
		}
	}

	if req.Position != nil && *req.Position != ad.Position {
		for id, other := range f.ads {
			if id != ad.ID && other.Family == ad.Family && other.Position == *req.Position {
				other.Position = ad.Position
				f.ads[id] = other
				res.Swapped = true
				res.Displaced = &other

				break
			}
		}

		ad.Position = *req.Position
	}

	if req.Title != nil {
		ad.Title = *req.Title
	}

	if req.BannerImage != nil {
		ad.BannerImage = *req.BannerImage
	}

	if req.BadgeTitle != nil {
		ad.BadgeTitle = *req.BadgeTitle
	}

	if req.DiscountText != nil {
		ad.DiscountText = *req.DiscountText
	}

	if req.Active != nil {
		ad.Active = *req.Active
	}

	if req.CallToAction != nil {
		ad.CallToAction = req.CallToAction
	}

	f.ads[ad.ID] = ad

	return ad, res, nil
}

func (f *fakeAdRepo) Reorder(_ context.Context, family string, items []repo.ReorderItem) error {
	assignment := make(map[int64]int)

	for id, ad := range f.ads {
		if ad.Family == family {
			assignment[id] = ad.Position
		}
	}

	for _, item := range items {
		if _, ok := assignment[item.ID]; !ok {
			return apperrors.ErrNotFound
		}

		assignment[item.ID] = item.Position
	}

	occupied := make(map[int]int64, len(assignment))

	for id, pos := range assignment {
		if _, ok := occupied[pos]; ok {
			return apperrors.NewValidation(
				[]string{fmt.Sprintf("position %d would hold more than one advertisement", pos)})
		}

		occupied[pos] = id
	}

	for _, item := range items {
		ad := f.ads[item.ID]
		ad.Position = item.Position
		f.ads[item.ID] = ad
	}

	return nil
}

func (f *fakeAdRepo) DeleteAd(_ context.Context, id int64) (models.Advertisement, error) {
	ad, ok := f.ads[id]
	if !ok {
		return models.Advertisement{}, apperrors.ErrNotFound
	}

	delete(f.ads, id)

	return ad, nil
}

func (f *fakeAdRepo) ListAds(_ context.Context, req repo.ListRequest) ([]models.Advertisement, error) {
	out := make([]models.Advertisement, 0, len(f.ads))

	for _, ad := range f.ads {
		if req.Family != "" && ad.Family != req.Family {
			continue
		}

		if req.OnlyActive && !ad.Active {
			continue
		}

		out = append(out, ad)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}

		return out[i].Position < out[j].Position
	})

	return out, nil
}

func (f *fakeAdRepo) Shutdown(context.Context) error { return nil }

type fakeAdCache struct {
	entries map[string][]models.Advertisement
}

func newFakeAdCache() *fakeAdCache {
	return &fakeAdCache{entries: make(map[string][]models.Advertisement)}
}

func (f *fakeAdCache) GetPublicAds(_ context.Context, family string) ([]models.Advertisement, error) {
	ads, ok := f.entries[family]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	return ads, nil
}

func (f *fakeAdCache) SetPublicAds(_ context.Context, family string, ads []models.Advertisement) error {
	f.entries[family] = ads

	return nil
}

func (f *fakeAdCache) Invalidate(context.Context) error {
	f.entries = make(map[string][]models.Advertisement)

	return nil
}

type fakeAudit struct {
	entries []models.AuditEntry
}

func (f *fakeAudit) Record(_ context.Context, entry models.AuditEntry) error {
	f.entries = append(f.entries, entry)

	return nil
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Info(...interface{})           {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Error(...interface{})          {}
func (noopLogger) Errorf(string, ...interface{}) {}

func newTestService() (*AdService, *fakeAdRepo, *fakeAdCache, *fakeAudit) {
	adRepo := newFakeAdRepo()
	adCache := newFakeAdCache()
	audit := &fakeAudit{}

	return New(adRepo, adCache, audit, noopLogger{}), adRepo, adCache, audit
}

func validCreate(family string, position int) CreateAdRequest {
	return CreateAdRequest{ //nolint:exhaustruct
		Actor:       "admin",
		Family:      family,
		Position:    position,
		Title:       "Summer sale",
		BannerImage: "https://cdn.example.com/summer.png",
	}
}

func TestCreateAdAllValidSlots(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	slots := []struct {
		family   string
		position int
	}{
		{models.FamilyHorizontal, 1},
		{models.FamilyHorizontal, 2},
		{models.FamilyVertical, 1},
		{models.FamilyVertical, 2},
		{models.FamilyVertical, 3},
	}

	for _, slot := range slots {
		ad, err := svc.CreateAd(ctx, validCreate(slot.family, slot.position))
		require.NoError(t, err)
		require.Equal(t, slot.family, ad.Family)
		require.Equal(t, slot.position, ad.Position)
		require.True(t, ad.Active)
	}
}

func TestCreateAdPositionOutOfFamilyRange(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateAd(context.Background(), validCreate(models.FamilyHorizontal, 3))

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Messages, "position must be at most 2 for family horizontal")
}

func TestCreateAdCollectsAllViolations(t *testing.T) {
	svc, _, _, _ := newTestService()

	req := CreateAdRequest{ //nolint:exhaustruct
		Actor:        "admin",
		Family:       "diagonal",
		Position:     0,
		Title:        "   ",
		BannerImage:  "",
		CallToAction: &models.CallToAction{Label: "Shop now", URL: "  "},
	}

	_, err := svc.CreateAd(context.Background(), req)

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Messages, 5)
	require.Contains(t, validationErr.Messages, "family must be horizontal or vertical")
	require.Contains(t, validationErr.Messages, "position must be at least 1")
	require.Contains(t, validationErr.Messages, "title must not be empty")
	require.Contains(t, validationErr.Messages, "banner image must not be empty")
	require.Contains(t, validationErr.Messages, "call to action url must not be empty")
}

func TestCreateAdOccupiedSlotIsConflict(t *testing.T) {
	svc, adRepo, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 2))
	require.NoError(t, err)

	_, err = svc.CreateAd(ctx, validCreate(models.FamilyVertical, 2))

	var conflictErr *apperrors.ConflictError

	require.ErrorAs(t, err, &conflictErr)

	// the occupant stays where it was
	require.Equal(t, 2, adRepo.ads[first.ID].Position)
	require.Len(t, adRepo.ads, 1)
}

func TestCreateAdTrimsFields(t *testing.T) {
	svc, adRepo, _, _ := newTestService()

	req := validCreate(models.FamilyHorizontal, 1)
	req.Title = "  Summer sale  "
	req.BannerImage = " https://cdn.example.com/summer.png "

	ad, err := svc.CreateAd(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "Summer sale", ad.Title)
	require.Equal(t, "https://cdn.example.com/summer.png", ad.BannerImage)
	require.Equal(t, "Summer sale", adRepo.ads[ad.ID].Title)
}

func TestUpdateAdSwapsOccupiedPosition(t *testing.T) {
	svc, adRepo, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 1))
	require.NoError(t, err)

	b, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 2))
	require.NoError(t, err)

	// same position in the other family must not take part in the swap
	other, err := svc.CreateAd(ctx, validCreate(models.FamilyHorizontal, 2))
	require.NoError(t, err)

	newPos := 2
	resp, err := svc.UpdateAd(ctx, UpdateAdRequest{ //nolint:exhaustruct
		Actor:    "admin",
		ID:       a.ID,
		Position: &newPos,
	})
	require.NoError(t, err)
	require.True(t, resp.Swapped)
	require.NotNil(t, resp.Displaced)
	require.Equal(t, b.ID, resp.Displaced.ID)
	require.Equal(t, 1, resp.Displaced.Position)
	require.Equal(t, 2, adRepo.ads[a.ID].Position)
	require.Equal(t, 1, adRepo.ads[b.ID].Position)
	require.Equal(t, 2, adRepo.ads[other.ID].Position)
}

func TestUpdateAdSamePositionIsNoSwap(t *testing.T) {
	svc, adRepo, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 1))
	require.NoError(t, err)

	b, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 2))
	require.NoError(t, err)

	samePos := 1
	resp, err := svc.UpdateAd(ctx, UpdateAdRequest{ //nolint:exhaustruct
		Actor:    "admin",
		ID:       a.ID,
		Position: &samePos,
	})
	require.NoError(t, err)
	require.False(t, resp.Swapped)
	require.Nil(t, resp.Displaced)
	require.Equal(t, 1, adRepo.ads[a.ID].Position)
	require.Equal(t, 2, adRepo.ads[b.ID].Position)
}

func TestUpdateAdRejectsPositionBeyondFamilyRange(t *testing.T) {
	svc, adRepo, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.CreateAd(ctx, validCreate(models.FamilyHorizontal, 1))
	require.NoError(t, err)

	tooFar := 3
	_, err = svc.UpdateAd(ctx, UpdateAdRequest{ //nolint:exhaustruct
		Actor:    "admin",
		ID:       a.ID,
		Position: &tooFar,
	})

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Messages, "position must be at most 2 for family horizontal")
	require.Equal(t, 1, adRepo.ads[a.ID].Position)
}

func TestUpdateAdNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	title := "New title"
	_, err := svc.UpdateAd(context.Background(), UpdateAdRequest{ //nolint:exhaustruct
		Actor: "admin",
		ID:    404,
		Title: &title,
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateAdValidationRejectsEmptyTitle(t *testing.T) {
	svc, adRepo, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.CreateAd(ctx, validCreate(models.FamilyHorizontal, 1))
	require.NoError(t, err)

	empty := "   "
	_, err = svc.UpdateAd(ctx, UpdateAdRequest{ //nolint:exhaustruct
		Actor: "admin",
		ID:    a.ID,
		Title: &empty,
	})

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "Summer sale", adRepo.ads[a.ID].Title)
}

func TestReorderDuplicatePositionsRejectedWholesale(t *testing.T) {
	svc, adRepo, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 1))
	require.NoError(t, err)

	b, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 2))
	require.NoError(t, err)

	err = svc.Reorder(ctx, ReorderRequest{
		Actor:  "admin",
		Family: models.FamilyVertical,
		Items: []ReorderItem{
			{ID: a.ID, Position: 1},
			{ID: b.ID, Position: 1},
		},
	})

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Messages, "position 1 is assigned more than once")
	require.Equal(t, 1, adRepo.ads[a.ID].Position)
	require.Equal(t, 2, adRepo.ads[b.ID].Position)
}

func TestReorderPartialOntoOccupiedSlot(t *testing.T) {
	svc, adRepo, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 1))
	require.NoError(t, err)

	b, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 2))
	require.NoError(t, err)

	// b keeps position 2, so moving a there must fail, not double-occupy
	err = svc.Reorder(ctx, ReorderRequest{
		Actor:  "admin",
		Family: models.FamilyVertical,
		Items:  []ReorderItem{{ID: a.ID, Position: 2}},
	})

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Messages, "position 2 would hold more than one advertisement")
	require.Equal(t, 1, adRepo.ads[a.ID].Position)
	require.Equal(t, 2, adRepo.ads[b.ID].Position)
}

func TestReorderPartialToFreeSlot(t *testing.T) {
	svc, adRepo, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 1))
	require.NoError(t, err)

	b, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 2))
	require.NoError(t, err)

	err = svc.Reorder(ctx, ReorderRequest{
		Actor:  "admin",
		Family: models.FamilyVertical,
		Items:  []ReorderItem{{ID: a.ID, Position: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 3, adRepo.ads[a.ID].Position)
	require.Equal(t, 2, adRepo.ads[b.ID].Position)
}

func TestReorderEmptyItems(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.Reorder(context.Background(), ReorderRequest{
		Actor:  "admin",
		Family: models.FamilyVertical,
		Items:  nil,
	})

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Messages, "items must not be empty")
}

func TestReorderAppliesPermutation(t *testing.T) {
	svc, adRepo, _, audit := newTestService()
	ctx := context.Background()

	a, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 1))
	require.NoError(t, err)

	b, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 2))
	require.NoError(t, err)

	c, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 3))
	require.NoError(t, err)

	auditBefore := len(audit.entries)

	err = svc.Reorder(ctx, ReorderRequest{
		Actor:  "admin",
		Family: models.FamilyVertical,
		Items: []ReorderItem{
			{ID: a.ID, Position: 3},
			{ID: b.ID, Position: 1},
			{ID: c.ID, Position: 2},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, adRepo.ads[a.ID].Position)
	require.Equal(t, 1, adRepo.ads[b.ID].Position)
	require.Equal(t, 2, adRepo.ads[c.ID].Position)

	// one audit entry for the whole batch
	require.Len(t, audit.entries, auditBefore+1)
	require.Equal(t, models.ActionReorder, audit.entries[len(audit.entries)-1].Action)
}

func TestDeleteAdNotFoundProducesNoAudit(t *testing.T) {
	svc, _, _, audit := newTestService()

	err := svc.DeleteAd(context.Background(), "admin", 404)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.Empty(t, audit.entries)
}

func TestDeleteAdRecordsSnapshot(t *testing.T) {
	svc, adRepo, _, audit := newTestService()
	ctx := context.Background()

	a, err := svc.CreateAd(ctx, validCreate(models.FamilyHorizontal, 1))
	require.NoError(t, err)

	err = svc.DeleteAd(ctx, "admin", a.ID)
	require.NoError(t, err)
	require.Empty(t, adRepo.ads)

	last := audit.entries[len(audit.entries)-1]
	require.Equal(t, models.ActionDelete, last.Action)
	require.Equal(t, models.FamilyHorizontal, last.Metadata["family"])
	require.Equal(t, "Summer sale", last.Metadata["title"])
}

func TestPublicAdsExcludesInactive(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateAd(ctx, validCreate(models.FamilyVertical, 1))
	require.NoError(t, err)

	inactive := false
	req := validCreate(models.FamilyVertical, 2)
	req.Active = &inactive

	_, err = svc.CreateAd(ctx, req)
	require.NoError(t, err)

	ads, err := svc.PublicAds(ctx, "")
	require.NoError(t, err)
	require.Len(t, ads, 1)
	require.True(t, ads[0].Active)
}

func TestPublicAdsServedFromCache(t *testing.T) {
	svc, _, adCache, _ := newTestService()
	ctx := context.Background()

	cached := []models.Advertisement{{ //nolint:exhaustruct
		ID:       99,
		Family:   models.FamilyHorizontal,
		Position: 1,
		Title:    "cached",
		Active:   true,
	}}
	require.NoError(t, adCache.SetPublicAds(ctx, models.FamilyHorizontal, cached))

	ads, err := svc.PublicAds(ctx, models.FamilyHorizontal)
	require.NoError(t, err)
	require.Equal(t, cached, ads)
}

func TestPublicAdsRejectsUnknownFamily(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.PublicAds(context.Background(), "diagonal")

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
}

func TestMutationsInvalidateCache(t *testing.T) {
	svc, _, adCache, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, adCache.SetPublicAds(ctx, "", []models.Advertisement{}))

	_, err := svc.CreateAd(ctx, validCreate(models.FamilyHorizontal, 1))
	require.NoError(t, err)
	require.Empty(t, adCache.entries)
}
