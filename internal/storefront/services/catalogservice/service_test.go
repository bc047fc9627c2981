package catalogservice

import (
	"context"
	"testing"
	"time"

	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	"github.com/stretchr/testify/require"
)

type fakeCatalogRepo struct {
	nextID   int64
	products map[int64]models.Product
	events   map[int64]models.Event
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		products: make(map[int64]models.Product),
		events:   make(map[int64]models.Event),
	}
}

func (f *fakeCatalogRepo) CreateProduct(_ context.Context, p models.Product) (int64, error) {
	for _, existing := range f.products {
		if existing.Slug == p.Slug {
			return 0, apperrors.NewConflict("slug already taken")
		}
	}

	f.nextID++
	p.ID = f.nextID
	f.products[p.ID] = p

	return p.ID, nil
}

func (f *fakeCatalogRepo) UpdateProduct(_ context.Context, p models.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return apperrors.ErrNotFound
	}

	f.products[p.ID] = p

	return nil
}

func (f *fakeCatalogRepo) DeleteProduct(_ context.Context, id int64) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, apperrors.ErrNotFound
	}

	delete(f.products, id)

	return p, nil
}

func (f *fakeCatalogRepo) GetProduct(_ context.Context, id int64) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, apperrors.ErrNotFound
	}

	return p, nil
}

func (f *fakeCatalogRepo) GetProductBySlug(_ context.Context, slug string) (models.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}

	return models.Product{}, apperrors.ErrNotFound
}

func (f *fakeCatalogRepo) ListProducts(_ context.Context, onlyPublished bool) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))

	for _, p := range f.products {
		if onlyPublished && !p.Published {
			continue
		}

		out = append(out, p)
	}

	return out, nil
}

func (f *fakeCatalogRepo) CreateEvent(_ context.Context, e models.Event) (int64, error) {
	f.nextID++
	e.ID = f.nextID
	f.events[e.ID] = e

	return e.ID, nil
}

func (f *fakeCatalogRepo) UpdateEvent(_ context.Context, e models.Event) error {
	if _, ok := f.events[e.ID]; !ok {
		return apperrors.ErrNotFound
	}

	f.events[e.ID] = e

	return nil
}

func (f *fakeCatalogRepo) DeleteEvent(_ context.Context, id int64) (models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return models.Event{}, apperrors.ErrNotFound
	}

	delete(f.events, id)

	return e, nil
}

func (f *fakeCatalogRepo) GetEvent(_ context.Context, id int64) (models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return models.Event{}, apperrors.ErrNotFound
	}

	return e, nil
}

func (f *fakeCatalogRepo) ListEvents(_ context.Context, publicView bool, now time.Time) ([]models.Event, error) {
	out := make([]models.Event, 0, len(f.events))

	for _, e := range f.events {
		if publicView && (!e.Published || !e.EndsAt.After(now)) {
			continue
		}

		out = append(out, e)
	}

	return out, nil
}

func (f *fakeCatalogRepo) Shutdown(context.Context) error { return nil }

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

func newTestService() (*CatalogService, *fakeCatalogRepo, *fakeAudit) {
	catalogRepo := newFakeCatalogRepo()
	audit := &fakeAudit{}

	return New(catalogRepo, audit, noopLogger{}), catalogRepo, audit
}

func validProduct(slug string, published bool) ProductRequest {
	return ProductRequest{ //nolint:exhaustruct
		Actor:      "manager",
		Name:       "Mug",
		Slug:       slug,
		PriceCents: 1500,
		ImageURL:   "https://cdn.example.com/mug.png",
		Stock:      10,
		Published:  published,
	}
}

func validEvent(published bool, endsAt time.Time) EventRequest {
	return EventRequest{ //nolint:exhaustruct
		Actor:     "manager",
		Title:     "Black friday",
		ImageURL:  "https://cdn.example.com/bf.png",
		StartsAt:  endsAt.Add(-24 * time.Hour),
		EndsAt:    endsAt,
		Published: published,
	}
}

func TestCreateProduct(t *testing.T) {
	svc, _, audit := newTestService()

	p, err := svc.CreateProduct(context.Background(), validProduct("mug", true))
	require.NoError(t, err)
	require.NotZero(t, p.ID)
	require.Equal(t, "mug", p.Slug)
	require.Len(t, audit.entries, 1)
	require.Equal(t, models.ActionCreate, audit.entries[0].Action)
}

func TestCreateProductDuplicateSlug(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProduct("mug", true))
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, validProduct("mug", true))

	var conflictErr *apperrors.ConflictError

	require.ErrorAs(t, err, &conflictErr)
}

func TestCreateProductCollectsViolations(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), ProductRequest{ //nolint:exhaustruct
		Actor:      "manager",
		Name:       "  ",
		Slug:       "",
		PriceCents: -1,
		Stock:      -2,
	})

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Messages, 5)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	req := validProduct("mug", true)
	req.ID = 404

	_, err := svc.UpdateProduct(context.Background(), req)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateProductReplacesAllFields(t *testing.T) {
	svc, catalogRepo, _ := newTestService()
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, validProduct("mug", true))
	require.NoError(t, err)

	req := validProduct("mug-v2", false)
	req.ID = p.ID
	req.Description = "Bigger mug"

	updated, err := svc.UpdateProduct(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "mug-v2", updated.Slug)
	require.Equal(t, "Bigger mug", catalogRepo.products[p.ID].Description)
	require.False(t, catalogRepo.products[p.ID].Published)
}

func TestPublicProductHidesUnpublished(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProduct("secret-mug", false))
	require.NoError(t, err)

	_, err = svc.PublicProduct(ctx, "secret-mug")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPublicProductResolvesSlug(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, validProduct("mug", true))
	require.NoError(t, err)

	p, err := svc.PublicProduct(ctx, "mug")
	require.NoError(t, err)
	require.Equal(t, created.ID, p.ID)
}

func TestListProductsPublicView(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProduct("mug", true))
	require.NoError(t, err)

	req := validProduct("draft-mug", false)
	_, err = svc.CreateProduct(ctx, req)
	require.NoError(t, err)

	public, err := svc.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, public, 1)

	all, err := svc.ListProducts(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestDeleteProductRecordsSnapshot(t *testing.T) {
	svc, catalogRepo, audit := newTestService()
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, validProduct("mug", true))
	require.NoError(t, err)

	err = svc.DeleteProduct(ctx, "admin", p.ID)
	require.NoError(t, err)
	require.Empty(t, catalogRepo.products)

	last := audit.entries[len(audit.entries)-1]
	require.Equal(t, models.ActionDelete, last.Action)
	require.Equal(t, "mug", last.Metadata["slug"])
}

func TestCreateEventEndsBeforeStarts(t *testing.T) {
	svc, _, _ := newTestService()

	req := validEvent(true, time.Now())
	req.StartsAt = req.EndsAt.Add(time.Hour)

	_, err := svc.CreateEvent(context.Background(), req)

	var validationErr *apperrors.ValidationError

	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Messages, "event must end after it starts")
}

func TestListEventsPublicViewSkipsExpired(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, validEvent(true, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	_, err = svc.CreateEvent(ctx, validEvent(true, time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	_, err = svc.CreateEvent(ctx, validEvent(false, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	public, err := svc.ListEvents(ctx, true)
	require.NoError(t, err)
	require.Len(t, public, 1)

	all, err := svc.ListEvents(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
