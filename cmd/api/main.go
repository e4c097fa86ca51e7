package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tiendaops/tienda-api/internal/auth"
	"github.com/tiendaops/tienda-api/internal/cache"
	"github.com/tiendaops/tienda-api/internal/catalog"
	"github.com/tiendaops/tienda-api/internal/config"
	"github.com/tiendaops/tienda-api/internal/httpx"
	kafkax "github.com/tiendaops/tienda-api/internal/kafka"
	"github.com/tiendaops/tienda-api/internal/notify"
	"github.com/tiendaops/tienda-api/internal/orders"
	"github.com/tiendaops/tienda-api/internal/postgres"
	"github.com/tiendaops/tienda-api/internal/reviews"
	"github.com/tiendaops/tienda-api/internal/stats"
	"github.com/tiendaops/tienda-api/internal/upload"
	"github.com/tiendaops/tienda-api/internal/users"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "tienda-api").Logger()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Cache (explicitly constructed, passed down; degrades to always-miss)
	cacheSvc := cache.NewRedis(ctx, cfg.RedisAddr, log)
	defer cacheSvc.Close()
	inv := &cache.Invalidator{Cache: cacheSvc}

	// Confirmation producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, notify.TopicOrderConfirmed, 1024, log)
	prod.Start(ctx)
	notifier := &notify.Kafka{Producer: prod, Service: cfg.ServiceName}

	// Uploads
	uploads, err := upload.New(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir")
	}

	am := auth.NewManager(cfg.JWTSecret)

	ordersRepo := &orders.Repo{DB: db}
	engine := &orders.Engine{
		Store:       ordersRepo,
		Notifier:    notifier,
		Invalidator: inv,
		Log:         log,
	}

	router := httpx.NewRouter(log)
	(&httpx.AuthHandler{Users: &users.Repo{DB: db}, Auth: am, Log: log}).Register(router)
	(&httpx.UsersHandler{Repo: &users.Repo{DB: db}, Auth: am, Log: log}).Register(router)
	(&httpx.ProductsHandler{
		Repo: &catalog.Repo{DB: db}, Cache: cacheSvc, Invalidator: inv,
		Uploads: uploads, Auth: am, Log: log,
	}).Register(router)
	(&httpx.ReviewsHandler{
		Repo: &reviews.Repo{DB: db}, Cache: cacheSvc, Invalidator: inv,
		Auth: am, Log: log,
	}).Register(router)
	(&httpx.OrdersHandler{Engine: engine, Repo: ordersRepo, Auth: am, Log: log}).Register(router)
	(&httpx.StatsHandler{Repo: &stats.Repo{DB: db}, Cache: cacheSvc, Auth: am, Log: log}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // flush pending confirmations
	cancel()
	prod.WaitClosed()
}
