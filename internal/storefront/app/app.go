package app

import (
	"context"
	"fmt"
	"time"

	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/storefront/api/server"
	adcache "github.com/softcart/storefront_control/internal/storefront/repository/adcache/redis"
	ar "github.com/softcart/storefront_control/internal/storefront/repository/adrepo/postgres"
	audr "github.com/softcart/storefront_control/internal/storefront/repository/auditrepo/postgres"
	cr "github.com/softcart/storefront_control/internal/storefront/repository/catalogrepo/postgres"
	fr "github.com/softcart/storefront_control/internal/storefront/repository/feedbackrepo/postgres"
	or "github.com/softcart/storefront_control/internal/storefront/repository/orderrepo/postgres"
	sr "github.com/softcart/storefront_control/internal/storefront/repository/settingsrepo/postgres"
	ur "github.com/softcart/storefront_control/internal/storefront/repository/userrepo/postgres"
	"github.com/softcart/storefront_control/internal/storefront/services/adservice"
	"github.com/softcart/storefront_control/internal/storefront/services/authservice"
	"github.com/softcart/storefront_control/internal/storefront/services/catalogservice"
	"github.com/softcart/storefront_control/internal/storefront/services/feedbackservice"
	"github.com/softcart/storefront_control/internal/storefront/services/orderservice"
	"github.com/softcart/storefront_control/internal/storefront/services/settingsservice"
	"github.com/softcart/storefront_control/pkg/logger"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type StorefrontApp struct {
	s   Server
	lg  logger.Logger
	cfg config.Config
}

func New(ctx context.Context, cfg config.Config) (StorefrontApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return StorefrontApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	adRepo, err := ar.New(ctx, cfg.PostgresDB)
	if err != nil {
		return StorefrontApp{}, fmt.Errorf("postgres ad repo initializing error: %w", err)
	}

	adCache, err := adcache.New(ctx, cfg.RedisCache)
	if err != nil {
		return StorefrontApp{}, fmt.Errorf("redis ad cache initializing error: %w", err)
	}

	auditRepo, err := audr.New(ctx, cfg.PostgresDB)
	if err != nil {
		return StorefrontApp{}, fmt.Errorf("postgres audit repo initializing error: %w", err)
	}

	adService := adservice.New(adRepo, adCache, auditRepo, lg)

	go adService.BackgroundRefresh(ctx, cfg.RedisCache.TTL)

	userRepo, err := ur.New(ctx, cfg.PostgresDB)
	if err != nil {
		return StorefrontApp{}, fmt.Errorf("postgres user repo initializing error: %w", err)
	}

	authService := authservice.New(userRepo, cfg.Auth)

	catalogRepo, err := cr.New(ctx, cfg.PostgresDB)
	if err != nil {
		return StorefrontApp{}, fmt.Errorf("postgres catalog repo initializing error: %w", err)
	}

	catalogService := catalogservice.New(catalogRepo, auditRepo, lg)

	orderRepo, err := or.New(ctx, cfg.PostgresDB)
	if err != nil {
		return StorefrontApp{}, fmt.Errorf("postgres order repo initializing error: %w", err)
	}

	orderService := orderservice.New(orderRepo, catalogRepo, auditRepo, lg)

	feedbackRepo, err := fr.New(ctx, cfg.PostgresDB)
	if err != nil {
		return StorefrontApp{}, fmt.Errorf("postgres feedback repo initializing error: %w", err)
	}

	feedbackService := feedbackservice.New(feedbackRepo, auditRepo, lg)

	settingsRepo, err := sr.New(ctx, cfg.PostgresDB)
	if err != nil {
		return StorefrontApp{}, fmt.Errorf("postgres settings repo initializing error: %w", err)
	}

	settingsService := settingsservice.New(settingsRepo, auditRepo, lg)

	s := server.New(cfg.Server, adService, authService, catalogService,
		orderService, feedbackService, settingsService, lg)

	return StorefrontApp{
		s:   s,
		lg:  lg,
		cfg: cfg,
	}, nil
}

func (sa *StorefrontApp) Run(ctx context.Context) {
	sa.lg.Infof("STARTED SERVER ON %s", sa.cfg.Server.Addr)

	go func() {
		if err := sa.s.Start(ctx); err != nil {
			sa.lg.Errorf("server start error: %s", err.Error())

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := sa.Stop(ctxS); err != nil { //nolint:contextcheck
		sa.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (sa *StorefrontApp) Stop(ctx context.Context) error {
	if err := sa.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	sa.lg.Info("Shutdowned successfully")

	return nil
}
