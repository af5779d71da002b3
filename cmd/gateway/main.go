package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	catalogapp "github.com/dwikikusuma/brewhome/internal/catalog/app"
	"github.com/dwikikusuma/brewhome/internal/catalog/infra/yamlcatalog"
	"github.com/dwikikusuma/brewhome/internal/storefront"
	"github.com/dwikikusuma/brewhome/internal/storefront/httpapi"
	"github.com/dwikikusuma/brewhome/pkg/config"
	"github.com/dwikikusuma/brewhome/pkg/logger"
	"github.com/dwikikusuma/brewhome/pkg/shutdown"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Service:   "gateway",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		log.Error("storage open failed", slog.String("backend", cfg.Storage.Backend), slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("storage close failed", slog.Any("err", err))
		}
	}()

	products, err := yamlcatalog.Default()
	if err != nil {
		log.Error("catalog load failed", slog.Any("err", err))
		os.Exit(1)
	}

	front := storefront.New(store, catalogapp.NewService(products), storefront.Config{
		Namespace:     cfg.Storage.Namespace,
		OrderIDPrefix: cfg.OrderIDPrefix,
		DeliveryFee:   decimal.NewFromInt(cfg.DeliveryFee),
	}, log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(front, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting",
			slog.String("addr", addr),
			slog.String("storage", cfg.Storage.Backend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("gateway stopped with error", slog.Any("err", err))
	}
	log.Info("bye")
}
