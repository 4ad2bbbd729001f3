package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/config"
)

// Consumer reads notifications from the queue and delivers them by mail.
type Consumer struct {
    cfg    config.AMQPConfig
    mailer Mailer
    log    logrus.FieldLogger
}

// NewConsumer returns a Consumer for cfg delivering through mailer.
func NewConsumer(cfg config.AMQPConfig, mailer Mailer, log logrus.FieldLogger) *Consumer {
    return &Consumer{cfg: cfg, mailer: mailer, log: log}
}

// Run connects to RabbitMQ, declares the queue and consumes until ctx is
// cancelled.  Lost connections are re-dialed with exponential backoff
// capped at 30s.  A message that cannot be handled is rejected without
// requeue so a poison message cannot spin the worker.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.cfg.URL)
        if err != nil {
            c.log.WithError(err).Warnf("notifier: failed to dial broker; retrying in %s", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.WithError(err).Warn("notifier: consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
        c.log.WithError(err).Warn("notifier: set QoS failed")
    }
    if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.Handle(d.Body); err != nil {
                c.log.WithError(err).Error("notifier: handle message failed")
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// Handle decodes, renders and delivers one message body.
func (c *Consumer) Handle(body []byte) error {
    var n Notification
    if err := json.Unmarshal(body, &n); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if n.RecipientEmail == "" {
        c.log.WithFields(logrus.Fields{"template": n.Template, "booking": n.BookingUUID}).
            Warn("notifier: no recipient address, dropping")
        return nil
    }
    subject, text, err := Render(n)
    if err != nil {
        return err
    }
    if err := c.mailer.Send(n.RecipientEmail, subject, text); err != nil {
        return fmt.Errorf("send: %w", err)
    }
    c.log.WithFields(logrus.Fields{"template": n.Template, "booking": n.BookingUUID}).Info("notification delivered")
    return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
