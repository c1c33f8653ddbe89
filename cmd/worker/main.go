// Worker consumes user events from Kafka and delivers notification email via
// Resend. Set KAFKA_BROKERS, EVENT_KAFKA_TOPIC, KAFKA_GROUP_ID, RESEND_API_KEY,
// RESEND_FROM, and APP_URL.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storegate/internal/config"
	"storegate/internal/event/consumer"
	"storegate/internal/mailer"
	"storegate/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.EventKafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}

	var sender mailer.Sender = mailer.Noop{}
	if cfg.ResendAPIKey != "" && cfg.ResendFrom != "" {
		sender = mailer.NewResendSender(cfg.ResendAPIKey, cfg.ResendFrom, cfg.AppURL)
	} else {
		log.Println("worker: RESEND_API_KEY or RESEND_FROM unset, emails will be discarded")
	}

	c := consumer.NewConsumer(brokers, cfg.EventKafkaTopic, cfg.KafkaGroupID)
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	log.Printf("worker: consuming %s (group %s)", cfg.EventKafkaTopic, cfg.KafkaGroupID)
	if err := c.Run(ctx, notify.NewNotifier(sender).Handle); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("worker: %v", err)
	}
	log.Println("worker: stopped")
}
