package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	"github.com/softcart/storefront_control/internal/storefront/services/adservice"
	"github.com/softcart/storefront_control/internal/storefront/services/authservice"
	"github.com/softcart/storefront_control/internal/storefront/services/catalogservice"
	"github.com/softcart/storefront_control/internal/storefront/services/feedbackservice"
	"github.com/softcart/storefront_control/internal/storefront/services/orderservice"
	"github.com/softcart/storefront_control/internal/storefront/services/settingsservice"
	"github.com/softcart/storefront_control/pkg/logger"
)

type Server struct {
	serv            *http.Server
	adService       AdService
	authService     AuthService
	catalogService  CatalogService
	orderService    OrderService
	feedbackService FeedbackService
	settingsService SettingsService
	lg              logger.Logger
}

type AdService interface {
	CreateAd(context.Context, adservice.CreateAdRequest) (models.Advertisement, error)
	UpdateAd(context.Context, adservice.UpdateAdRequest) (adservice.UpdateAdResponse, error)
	Reorder(context.Context, adservice.ReorderRequest) error
	DeleteAd(context.Context, string, int64) error
	ListAds(context.Context, string) ([]models.Advertisement, error)
	PublicAds(context.Context, string) ([]models.Advertisement, error)
	Shutdown(context.Context) error
}

type AuthService interface {
	CreateUser(context.Context, authservice.CreateUserRequest) (string, error)
	Auth(string) (models.Principal, error)
	Login(context.Context, string, string) (string, error)
}

type CatalogService interface {
	CreateProduct(context.Context, catalogservice.ProductRequest) (models.Product, error)
	UpdateProduct(context.Context, catalogservice.ProductRequest) (models.Product, error)
	DeleteProduct(context.Context, string, int64) error
	GetProduct(context.Context, int64) (models.Product, error)
	PublicProduct(context.Context, string) (models.Product, error)
	ListProducts(context.Context, bool) ([]models.Product, error)
	CreateEvent(context.Context, catalogservice.EventRequest) (models.Event, error)
	UpdateEvent(context.Context, catalogservice.EventRequest) (models.Event, error)
	DeleteEvent(context.Context, string, int64) error
	ListEvents(context.Context, bool) ([]models.Event, error)
	Shutdown(context.Context) error
}

type OrderService interface {
	CreateOrder(context.Context, orderservice.CreateOrderRequest) (models.Order, error)
	GetOrder(context.Context, int64) (models.Order, error)
	ListOrders(context.Context, string) ([]models.Order, error)
	UpdateStatus(context.Context, string, int64, string) error
	AssignCourier(context.Context, orderservice.AssignCourierRequest) (models.CourierTask, error)
	DeleteOrder(context.Context, string, int64) error
	Shutdown(context.Context) error
}

type FeedbackService interface {
	Submit(context.Context, feedbackservice.SubmitRequest) (models.Feedback, error)
	SetPublished(context.Context, string, int64, bool) error
	DeleteFeedback(context.Context, string, int64) error
	ListFeedback(context.Context, bool) ([]models.Feedback, error)
}

type SettingsService interface {
	GetSettings(context.Context) (models.Settings, error)
	SaveSettings(context.Context, settingsservice.SaveRequest) (models.Settings, error)
}

func New(cfg config.Server, ads AdService, auth AuthService, catalog CatalogService,
	orders OrderService, feedback FeedbackService, settings SettingsService, lg logger.Logger,
) *Server {
	s := Server{ //nolint:exhaustruct
		adService:       ads,
		authService:     auth,
		catalogService:  catalog,
		orderService:    orders,
		feedbackService: feedback,
		settingsService: settings,
		lg:              lg,
	}

	serv := &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	s.serv = serv

	return &s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware(s.lg))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth", s.login)
		r.Post("/user", s.createUser)

		// public storefront, no token required
		r.Route("/storefront", func(r chi.Router) {
			r.Get("/ads", s.publicAds)
			r.Get("/products", s.publicProducts)
			r.Get("/products/{slug}", s.publicProduct)
			r.Get("/events", s.publicEvents)
			r.Get("/feedback", s.publicFeedback)
			r.Post("/feedback", s.submitFeedback)
			r.Get("/settings", s.publicSettings)
			r.Post("/orders", s.createOrder)
		})

		// staff console
		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(models.RoleAdmin, models.RoleManager))

				r.Get("/ads", s.listAds)
				r.Post("/ads", s.createAd)
				r.Patch("/ads/{id}", s.updateAd)
				r.Post("/ads/reorder", s.reorderAds)

				r.Get("/products", s.listProducts)
				r.Post("/products", s.createProduct)
				r.Get("/products/{id}", s.getProduct)
				r.Put("/products/{id}", s.updateProduct)
				r.Delete("/products/{id}", s.deleteProduct)

				r.Get("/events", s.listEvents)
				r.Post("/events", s.createEvent)
				r.Put("/events/{id}", s.updateEvent)
				r.Delete("/events/{id}", s.deleteEvent)

				r.Get("/feedback", s.listFeedback)
				r.Patch("/feedback/{id}", s.publishFeedback)

				r.Get("/orders", s.listOrders)
				r.Get("/orders/{id}", s.getOrder)
				r.Patch("/orders/{id}/status", s.updateOrderStatus)
				r.Post("/orders/{id}/courier", s.assignCourier)
			})

			// destructive routes and settings stay admin-only
			r.Group(func(r chi.Router) {
				r.Use(requireRole(models.RoleAdmin))

				r.Delete("/ads/{id}", s.deleteAd)
				r.Delete("/feedback/{id}", s.deleteFeedback)
				r.Delete("/orders/{id}", s.deleteOrder)
				r.Put("/settings", s.saveSettings)
			})
		})
	})

	return r
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}
