package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kakeistat/internal/catalog"
	"kakeistat/internal/config"
	"kakeistat/internal/download"
	apphttp "kakeistat/internal/http"
	"kakeistat/internal/httpx"
	"kakeistat/internal/observability"
	"kakeistat/internal/platform/estat"
)

const maxRequestBytes = 64 << 10

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.AppID == "" {
		log.Println("ESTAT_APP_ID is not set; data endpoints will answer 503")
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("cannot load catalog: %v", err)
	}
	log.Printf("catalog loaded stats_data_id=%s items=%d", cat.StatsDataID, len(cat.Items))

	svc := download.NewService(estat.NewClient(cfg.Client()), cat, cfg.SaveDir)

	limiter := httpx.NewClientLimiter(5, 10)
	done := make(chan struct{})
	defer close(done)
	go limiter.Cleanup(done)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newRouter(svc, limiter),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on %s", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func newRouter(svc apphttp.DownloadService, limiter *httpx.ClientLimiter) http.Handler {
	observability.Register()

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("GET /metrics", observability.Handler())

	api := http.NewServeMux()
	apphttp.Routes(api, apphttp.NewItemHandler(svc), apphttp.NewDownloadHandler(svc))
	router.Handle("/v1/", httpx.Chain(api,
		limiter.Limit,
		httpx.SecurityHeadersMiddleware,
		httpx.RequestSizeLimitMiddleware(maxRequestBytes),
	))

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLog,
		httpx.RecoveryMiddleware,
	)
}
