package queue

import (
    "context"
    "encoding/json"
    "errors"
    "io"
    "strings"
    "testing"
    "time"

    "github.com/sirupsen/logrus"
    "github.com/sony/gobreaker"

    "github.com/iliyamo/stay-reservation/internal/config"
)

func quietLogger() *logrus.Logger {
    l := logrus.New()
    l.SetOutput(io.Discard)
    return l
}

type recordingMailer struct {
    to, subject, body string
    calls             int
}

func (m *recordingMailer) Send(to, subject, body string) error {
    m.to, m.subject, m.body = to, subject, body
    m.calls++
    return nil
}

func TestRenderEveryTemplate(t *testing.T) {
    n := Notification{
        BookingUUID: "b-1", PropertyTitle: "Sea House", GuestName: "Ana",
        CheckIn: "2025-03-10", CheckOut: "2025-03-13", Nights: 3,
        FinalPriceCents: 71000, RefundAmountCents: 35500, Reason: "plans changed",
    }
    for tpl := range messages {
        n.Template = tpl
        subject, body, err := Render(n)
        if err != nil {
            t.Fatalf("%s: %v", tpl, err)
        }
        if !strings.Contains(subject, "Sea House") || body == "" {
            t.Fatalf("%s: subject=%q body=%q", tpl, subject, body)
        }
    }
    n.Template = TemplateBookingCancelled
    _, body, _ := Render(n)
    if !strings.Contains(body, "355.00") || !strings.Contains(body, "plans changed") {
        t.Fatalf("cancel body = %q", body)
    }
}

func TestRenderUnknownTemplate(t *testing.T) {
    if _, _, err := Render(Notification{Template: "nope"}); err == nil {
        t.Fatal("expected error")
    }
}

func TestConsumerHandleDelivers(t *testing.T) {
    m := &recordingMailer{}
    c := NewConsumer(config.AMQPConfig{}, m, quietLogger())
    body, _ := json.Marshal(Notification{
        Template: TemplateBookingConfirmed, RecipientEmail: "guest@example.com",
        BookingUUID: "b-2", PropertyTitle: "Loft", FinalPriceCents: 12345,
    })
    if err := c.Handle(body); err != nil {
        t.Fatal(err)
    }
    if m.calls != 1 || m.to != "guest@example.com" || !strings.Contains(m.body, "123.45") {
        t.Fatalf("mailer got %+v", m)
    }
}

func TestConsumerHandleRejectsGarbage(t *testing.T) {
    c := NewConsumer(config.AMQPConfig{}, &recordingMailer{}, quietLogger())
    if err := c.Handle([]byte("{")); err == nil {
        t.Fatal("expected unmarshal error")
    }
}

func TestPublisherBreakerOpens(t *testing.T) {
    cfg := config.AMQPConfig{BreakerFailures: 2, BreakerTimeout: time.Minute}
    p := NewPublisher(cfg, quietLogger())
    calls := 0
    p.publish = func(context.Context, []byte) error {
        calls++
        return errors.New("broker down")
    }
    for i := 0; i < 2; i++ {
        if err := p.Notify(context.Background(), Notification{}); err == nil {
            t.Fatal("expected publish error")
        }
    }
    err := p.Notify(context.Background(), Notification{})
    if !errors.Is(err, gobreaker.ErrOpenState) {
        t.Fatalf("err = %v, want open state", err)
    }
    if calls != 2 {
        t.Fatalf("publish called %d times", calls)
    }
}
