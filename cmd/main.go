package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/phoneshop-backend/internal/app"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to CONFIG_FILE)")
	seedPath := flag.String("seed", "", "catalog seed file applied after migration")
	offset := flag.Int("offset", 0, "first order to list")
	limit := flag.Int("limit", 20, "number of orders to list")
	metricsAddr := flag.String("metrics-addr", "", "serve /metrics on this address until interrupted")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *seedPath != "" {
		cfg.CatalogSeedFile = *seedPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init app: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	count, err := a.Services.Orders.OrderCount(ctx)
	if err != nil {
		a.Log.Error("count orders failed", "error", err)
		return
	}
	list, err := a.Services.Orders.FindAll(ctx, *offset, *limit)
	if err != nil {
		a.Log.Error("list orders failed", "error", err)
		return
	}
	a.Log.Info("orders", "total", count, "offset", *offset, "returned", len(list))
	for _, o := range list {
		a.Log.Info("order",
			"order_id", o.ID,
			"secure_id", o.SecureID.String(),
			"status", string(o.Status),
			"total_price", o.TotalPrice.StringFixed(2),
			"items", len(o.Items),
		)
		for _, it := range o.Items {
			model := ""
			if it.Phone != nil {
				model = it.Phone.Brand + " " + it.Phone.Model
			}
			a.Log.Info("order item", "order_id", o.ID, "item_id", it.ID, "phone", model, "quantity", it.Quantity)
		}
	}

	if *metricsAddr == "" || a.Metrics == nil {
		return
	}
	srv := &http.Server{Addr: *metricsAddr, Handler: metricsMux(a), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	a.Log.Info("serving metrics", "addr", *metricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.Log.Error("metrics server failed", "error", err)
	}
}

func metricsMux(a *app.App) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.Metrics.Handler())
	return mux
}
