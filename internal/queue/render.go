package queue

import (
    "bytes"
    "fmt"
    "text/template"
)

type message struct {
    subject *template.Template
    body    *template.Template
}

func mustMessage(name, subject, body string) message {
    funcs := template.FuncMap{"money": formatCents}
    return message{
        subject: template.Must(template.New(name + ".subject").Funcs(funcs).Parse(subject)),
        body:    template.Must(template.New(name + ".body").Funcs(funcs).Parse(body)),
    }
}

var messages = map[Template]message{
    TemplateBookingRequested: mustMessage(string(TemplateBookingRequested),
        `New booking request for {{.PropertyTitle}}`,
        `{{.GuestName}} asked to stay at {{.PropertyTitle}} from {{.CheckIn}} to {{.CheckOut}} ({{.Nights}} nights).
Total: {{money .FinalPriceCents}}. Booking {{.BookingUUID}} waits for your confirmation.
`),
    TemplateBookingConfirmed: mustMessage(string(TemplateBookingConfirmed),
        `Your stay at {{.PropertyTitle}} is confirmed`,
        `Your booking {{.BookingUUID}} at {{.PropertyTitle}} from {{.CheckIn}} to {{.CheckOut}} is confirmed.
Total: {{money .FinalPriceCents}}.
`),
    TemplateBookingCancelled: mustMessage(string(TemplateBookingCancelled),
        `Booking at {{.PropertyTitle}} cancelled`,
        `Booking {{.BookingUUID}} at {{.PropertyTitle}} from {{.CheckIn}} to {{.CheckOut}} was cancelled.
{{if .Reason}}Reason: {{.Reason}}
{{end}}Refund: {{money .RefundAmountCents}}.
`),
    TemplateBookingExpiredGuest: mustMessage(string(TemplateBookingExpiredGuest),
        `Your request for {{.PropertyTitle}} expired`,
        `The owner of {{.PropertyTitle}} did not confirm booking {{.BookingUUID}} before {{.CheckIn}}.
The request has been cancelled and you will not be charged.
`),
    TemplateBookingExpiredOwner: mustMessage(string(TemplateBookingExpiredOwner),
        `Booking request for {{.PropertyTitle}} expired`,
        `The request {{.BookingUUID}} from {{.GuestName}} for {{.CheckIn}} to {{.CheckOut}} was not confirmed in time and has been cancelled.
`),
}

// Render returns the subject and plain-text body for n.
func Render(n Notification) (subject, body string, err error) {
    m, ok := messages[n.Template]
    if !ok {
        return "", "", fmt.Errorf("unknown template %q", n.Template)
    }
    var s, b bytes.Buffer
    if err := m.subject.Execute(&s, n); err != nil {
        return "", "", err
    }
    if err := m.body.Execute(&b, n); err != nil {
        return "", "", err
    }
    return s.String(), b.String(), nil
}

func formatCents(c int64) string {
    sign := ""
    if c < 0 {
        sign, c = "-", -c
    }
    return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
