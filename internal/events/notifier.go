package events

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"buffet/pkg/kafka"
	"buffet/pkg/logger"
)

type CacheInvalidator interface {
	Invalidate(ctx context.Context, times ...time.Time)
}

// Notifier consumes booking events: it drops the affected day's capacity
// cache entry and emails the guest on creation and cancellation.
type Notifier struct {
	cache      CacheInvalidator
	mailer     Mailer
	restaurant string
	loc        *time.Location
	log        *logger.Logger
}

func NewNotifier(cache CacheInvalidator, mailer Mailer, restaurant string, loc *time.Location, log *logger.Logger) *Notifier {
	return &Notifier{cache: cache, mailer: mailer, restaurant: restaurant, loc: loc, log: log}
}

func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("undecodable booking event", err)
	}
	if event.BookingID == "" {
		return kafka.NewPermanentError("booking event without booking_id", kafka.ErrInvalidMessage)
	}

	if event.ScheduledStart != nil && n.cache != nil {
		n.cache.Invalidate(ctx, *event.ScheduledStart)
	}

	email, ok := n.compose(event)
	if !ok {
		return nil
	}
	if err := n.mailer.Send(ctx, email); err != nil {
		return kafka.NewTransientError("failed to send booking email", err)
	}
	return nil
}

func (n *Notifier) compose(event BookingEvent) (Email, bool) {
	if event.GuestEmail == "" {
		return Email{}, false
	}

	when := "a time to be confirmed"
	if event.ScheduledStart != nil {
		when = event.ScheduledStart.In(n.loc).Format("Monday, January 2 at 3:04 PM")
	}
	name := event.GuestName
	if name == "" {
		name = "there"
	}

	var subject, body string
	switch event.Type {
	case BookingCreated:
		subject = fmt.Sprintf("Your buffet reservation at %s", n.restaurant)
		body = fmt.Sprintf("Hi %s,\n\nWe have your reservation for %d %s on %s. Status: %s.\n\nSee you soon,\n%s",
			name, event.GuestCount, guests(event.GuestCount), when, event.Status, n.restaurant)
	case BookingCancelled:
		subject = fmt.Sprintf("Your reservation at %s was cancelled", n.restaurant)
		body = fmt.Sprintf("Hi %s,\n\nYour reservation for %d %s on %s has been cancelled.\n\n%s",
			name, event.GuestCount, guests(event.GuestCount), when, n.restaurant)
	default:
		return Email{}, false
	}

	return Email{
		ToName:  name,
		ToEmail: event.GuestEmail,
		Subject: subject,
		Text:    body,
		HTML:    htmlBody(body),
	}, true
}

// htmlBody escapes the plain text body and wraps each paragraph in <p>.
func htmlBody(text string) string {
	var b strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

func guests(n int) string {
	if n == 1 {
		return "guest"
	}
	return "guests"
}
