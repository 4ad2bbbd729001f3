package main // Notification worker: drains the broker queue into e-mail

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/stay-reservation/internal/config"
	"github.com/iliyamo/stay-reservation/internal/queue"
)

func main() {
	config.LoadDotEnv()

	logger, closer := config.NewLogger(config.LoadLogConfig())
	defer closer.Close()
	log := logger.WithField("component", "notifier")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	amqpCfg := config.LoadAMQPConfig()
	mailer := queue.NewMailer(config.LoadSMTPConfig(), log)
	consumer := queue.NewConsumer(amqpCfg, mailer, log)

	log.WithField("queue", amqpCfg.Queue).Info("notifier started")
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("notifier stopped")
	}
	log.Info("notifier stopped")
}
