package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	"github.com/oksasatya/bootcamp-directory/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for d := range msgs {
			handle(logger, mg, d)
		}
		close(done)
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-stop
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle renders and sends one job. Malformed jobs are dropped; send
// failures are requeued.
func handle(logger *logrus.Logger, sender mailer.Sender, d amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logger.WithError(err).Warn("bad message")
		_ = d.Nack(false, false)
		return
	}
	msg, err := job.Message()
	if err != nil {
		logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		_ = d.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := sender.Send(ctx, msg); err != nil {
		logger.WithError(err).WithField("to", msg.To).Error("send failed")
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}
