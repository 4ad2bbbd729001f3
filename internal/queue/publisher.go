package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"
    "github.com/sony/gobreaker"

    "github.com/iliyamo/stay-reservation/internal/config"
)

// Publisher publishes notifications to a durable RabbitMQ queue.  Each
// publish dials its own connection; publishes are rare compared to reads
// and the broker may be restarted independently.  A circuit breaker stops
// dialing a broker that keeps failing.
type Publisher struct {
    cfg     config.AMQPConfig
    breaker *gobreaker.CircuitBreaker
    log     logrus.FieldLogger
    publish func(ctx context.Context, body []byte) error
}

// NewPublisher returns a Publisher for cfg.
func NewPublisher(cfg config.AMQPConfig, log logrus.FieldLogger) *Publisher {
    p := &Publisher{cfg: cfg, log: log}
    p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
        Name:    "amqp-publish",
        Timeout: cfg.BreakerTimeout,
        ReadyToTrip: func(c gobreaker.Counts) bool {
            return c.ConsecutiveFailures >= cfg.BreakerFailures
        },
        OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
            log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
                Warn("circuit breaker state changed")
        },
    })
    p.publish = p.publishAMQP
    return p
}

// Notify marshals n and publishes it as a persistent message.  When the
// breaker is open the call fails fast with gobreaker.ErrOpenState.
func (p *Publisher) Notify(ctx context.Context, n Notification) error {
    body, err := json.Marshal(n)
    if err != nil {
        return fmt.Errorf("marshal notification: %w", err)
    }
    if p.cfg.PublishTimeout > 0 {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, p.cfg.PublishTimeout)
        defer cancel()
    }
    _, err = p.breaker.Execute(func() (interface{}, error) {
        return nil, p.publish(ctx, body)
    })
    return err
}

func (p *Publisher) publishAMQP(ctx context.Context, body []byte) error {
    conn, err := amqp.Dial(p.cfg.URL)
    if err != nil {
        return fmt.Errorf("rabbitmq dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("rabbitmq channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("rabbitmq queue declare: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, pub); err != nil {
        return fmt.Errorf("rabbitmq publish: %w", err)
    }
    return nil
}

// LogDispatcher writes notifications to the log instead of a broker.  It
// is used when RabbitMQ is disabled.
type LogDispatcher struct {
    Log logrus.FieldLogger
}

// Notify logs n and never fails.
func (d LogDispatcher) Notify(_ context.Context, n Notification) error {
    d.Log.WithFields(logrus.Fields{
        "template":  n.Template,
        "recipient": n.RecipientID,
        "booking":   n.BookingUUID,
    }).Info("notification (broker disabled)")
    return nil
}
