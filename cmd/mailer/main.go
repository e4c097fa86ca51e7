package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tiendaops/tienda-api/internal/config"
	kafkax "github.com/tiendaops/tienda-api/internal/kafka"
	"github.com/tiendaops/tienda-api/internal/notify"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "tienda-mailer").Logger()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group := getenv("MAILER_GROUP", "tienda-mailer")
	workers := atoiDefault(os.Getenv("MAILER_WORKERS"), 4)

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, notify.TopicOrderConfirmed, workers, log)
	handler := &notify.ConsumerHandler{
		Deliverer: &notify.LogDeliverer{Log: log},
		Log:       log,
	}

	go func() {
		log.Info().Str("group", group).Int("workers", workers).Msg("confirmation consumer started")
		if err := cons.Start(ctx, handler.Handle); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down consumer")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
