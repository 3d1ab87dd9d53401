package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	httpapi "storefront/internal/http"
	"storefront/internal/repository"
	"storefront/internal/service"

	_ "storefront/docs"
)

type repos struct {
	users    repository.UserRepository
	products repository.ProductRepository
	carts    repository.CartRepository
	orders   repository.OrderRepository
	tx       repository.TxManager
	close    func() error
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	r, err := buildRepos(cfg)
	if err != nil {
		slog.Error("store init", "error", err)
		os.Exit(1)
	}
	defer r.close()

	usersSvc := service.NewUserService(r.users)
	productsSvc := service.NewProductService(r.products)
	cartsSvc := service.NewCartService(r.carts)
	checkoutSvc := service.NewCheckoutService(r.carts, r.orders, r.tx)
	historySvc := service.NewOrderHistoryService(r.orders)

	srv := httpapi.NewServer(usersSvc, productsSvc, cartsSvc, checkoutSvc, historySvc)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func buildRepos(cfg *config.Config) (*repos, error) {
	if cfg.Store == "memory" {
		// volatile, for local development only
		slog.Warn("using in-memory store, data will not survive a restart")
		store := repository.NewMemoryStore()
		return &repos{
			users:    repository.NewMemoryUsers(store),
			products: store,
			carts:    repository.NewMemoryCarts(store),
			orders:   repository.NewMemoryOrders(store),
			tx:       repository.NewMemoryTx(store),
			close:    func() error { return nil },
		}, nil
	}

	store, err := repository.NewPostgresStore(&cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := store.RunMigrations(&cfg.DB); err != nil {
		return nil, err
	}
	slog.Info("connected to postgres, migrations applied", "db", cfg.DB.DBName)
	return &repos{
		users:    repository.NewPostgresUsers(store),
		products: repository.NewPostgresProducts(store),
		carts:    repository.NewPostgresCarts(store),
		orders:   repository.NewPostgresOrders(store),
		tx:       repository.NewPostgresTx(store),
		close:    store.Close,
	}, nil
}
