package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"takeout-storefront/internal/checkout"
	"takeout-storefront/internal/config"
	"takeout-storefront/internal/coupon"
	"takeout-storefront/internal/db"
	"takeout-storefront/internal/geo"
	"takeout-storefront/internal/httpserver"
	"takeout-storefront/internal/persist"
	"takeout-storefront/internal/rates"
	addressstore "takeout-storefront/internal/store/address"
	cartstore "takeout-storefront/internal/store/cart"
	prefsstore "takeout-storefront/internal/store/prefs"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	persister := persist.NewPostgres(dbpool, logger)
	carts, err := persister.LoadCarts(ctx)
	if err != nil {
		logger.Fatalf("load carts: %v", err)
	}
	addresses, err := persister.LoadAddresses(ctx)
	if err != nil {
		logger.Fatalf("load addresses: %v", err)
	}
	preferences, err := persister.LoadPreferences(ctx)
	if err != nil {
		logger.Fatalf("load preferences: %v", err)
	}
	logger.Printf("loaded %d carts, %d address lists, %d preference sets",
		len(carts), len(addresses), len(preferences))

	cartStore := cartstore.New(persister, carts, logger)
	addressStore := addressstore.New(persister, addresses, logger)
	prefsStore := prefsstore.New(persister, preferences, logger)

	ratesStore := rates.NewStore(logger)
	ratesClient := rates.NewClient(cfg.RatesURL, cfg.ClientTimeout, logger)
	ratesManager := rates.NewManager(ratesStore, ratesClient, rates.ManagerConfig{
		Interval:     cfg.RatesRefreshEvery,
		MaxAge:       cfg.RatesMaxAge,
		FetchOnStart: cfg.FetchOnStart,
	}, logger)

	managerCtx, stopManager := context.WithCancel(ctx)
	defer stopManager()
	go ratesManager.Run(managerCtx)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Carts:        cartStore,
		Addresses:    addressStore,
		Prefs:        prefsStore,
		Rates:        ratesStore,
		RatesManager: ratesManager,
		RatesMaxAge:  cfg.RatesMaxAge,
		Coupons:      coupon.NewClient(cfg.CouponURL, cfg.ClientTimeout, logger),
		Orders:       checkout.NewClient(cfg.OrderURL, cfg.ClientTimeout, logger),
		Geo:          geo.NewClient(cfg.GeocodeURL, cfg.ClientTimeout, logger),
		Logger:       logger,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	stopManager()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
