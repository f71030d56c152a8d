package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/joho/godotenv"

	"github.com/innomart/innomart-server/config"
	"github.com/innomart/innomart-server/pkg/helpers"
	"github.com/innomart/innomart-server/pkg/mailer"
)

// Consumes purchase receipt jobs and sends the confirmation email.
// Runs as a separate process so a slow or failing mail provider never
// stalls the API.

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL is required")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
		log.Fatal("MAILGUN_DOMAIN and MAILGUN_API_KEY are required")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(cfg.RabbitMQReceiptQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}
	// One unacked job at a time; mail sends are slow and order is irrelevant.
	if err := ch.Qos(1, 0, false); err != nil {
		log.Fatalf("failed to set qos: %v", err)
	}

	deliveries, err := ch.Consume(cfg.RabbitMQReceiptQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to consume: %v", err)
	}

	mail := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Infof("email worker consuming from %q", cfg.RabbitMQReceiptQueue)
	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker shutting down")
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("delivery channel closed")
				return
			}
			handleDelivery(ctx, d, mail, logger)
		}
	}
}

func handleDelivery(ctx context.Context, d amqp.Delivery, mail *mailer.Mailgun, logger *logrus.Logger) {
	var job mailer.ReceiptJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logger.Errorf("dropping malformed receipt job: %v", err)
		_ = d.Nack(false, false)
		return
	}

	subject := "Your purchase receipt"
	text := fmt.Sprintf(
		"Hi %s,\n\nThanks for your purchase!\n\nItem: %s\nAmount: %s\nOrder ID: %s\nDate: %s\n\nThe InnoMart Team",
		job.Username,
		job.ProductName,
		job.Cost,
		job.PurchaseID,
		job.PurchaseDate.Format("Jan 2, 2006 15:04 MST"),
	)

	if err := mail.Send(ctx, job.To, subject, text, ""); err != nil {
		logger.Errorf("failed to send receipt for purchase %s: %v", job.PurchaseID, err)
		// Requeue once; the broker redelivers to the next consumer.
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	logger.Infof("receipt sent for purchase %s", job.PurchaseID)
	_ = d.Ack(false)
}
