package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"buffet/pkg/kafka"
	"buffet/pkg/logger"
	"buffet/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCache struct {
	invalidated []time.Time
}

func (c *recordingCache) Invalidate(ctx context.Context, times ...time.Time) {
	c.invalidated = append(c.invalidated, times...)
}

type recordingMailer struct {
	sent []Email
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, email Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

var toronto = time.FixedZone("EDT", -4*60*60)

func eventMessage(t *testing.T, event BookingEvent) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().WithKey(event.BookingID).WithValue(event).WithEventType(string(event.Type)).Build()
	require.NoError(t, err)
	return msg
}

func sampleBooking() *model.Booking {
	start := time.Date(2026, 10, 24, 12, 0, 0, 0, toronto)
	return &model.Booking{
		ID:             "b1",
		UserID:         "u1",
		Status:         model.StatusPending,
		Session:        model.SessionSaturdayLunch,
		GuestCount:     4,
		GuestName:      "Ayesha Khan",
		GuestEmail:     "ayesha@example.com",
		ScheduledStart: &start,
	}
}

func TestNotifier_CreatedSendsEmailAndInvalidates(t *testing.T) {
	cache := &recordingCache{}
	mailer := &recordingMailer{}
	n := NewNotifier(cache, mailer, "Noor's Bhai Biryani", toronto, logger.Discard())

	err := n.Handle(context.Background(), eventMessage(t, NewBookingEvent(BookingCreated, sampleBooking())))
	require.NoError(t, err)

	require.Len(t, cache.invalidated, 1)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ayesha@example.com", mailer.sent[0].ToEmail)
	assert.Contains(t, mailer.sent[0].Text, "4 guests on Saturday, October 24 at 12:00 PM")
}

func TestNotifier_StatusChangeOnlyInvalidates(t *testing.T) {
	cache := &recordingCache{}
	mailer := &recordingMailer{}
	b := sampleBooking()
	b.Status = model.StatusConfirmed

	n := NewNotifier(cache, mailer, "Noor's", toronto, logger.Discard())
	require.NoError(t, n.Handle(context.Background(), eventMessage(t, StatusEvent(b))))

	assert.Len(t, cache.invalidated, 1)
	assert.Empty(t, mailer.sent)
}

func TestNotifier_CancelledWithoutTime(t *testing.T) {
	mailer := &recordingMailer{}
	b := sampleBooking()
	b.Status = model.StatusCancelled
	b.ScheduledStart = nil

	n := NewNotifier(&recordingCache{}, mailer, "Noor's", toronto, logger.Discard())
	require.NoError(t, n.Handle(context.Background(), eventMessage(t, StatusEvent(b))))

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Text, "a time to be confirmed")
	assert.Contains(t, mailer.sent[0].Subject, "cancelled")
}

func TestNotifier_ErrorClassification(t *testing.T) {
	n := NewNotifier(nil, &recordingMailer{err: errors.New("503")}, "Noor's", toronto, logger.Discard())

	err := n.Handle(context.Background(), kafka.Message{Value: []byte("{not json")})
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))

	err = n.Handle(context.Background(), eventMessage(t, NewBookingEvent(BookingCreated, sampleBooking())))
	assert.Equal(t, kafka.ErrorTypeTransient, kafka.ClassifyError(err))
}

func TestNotifier_EscapesGuestInputInHTML(t *testing.T) {
	mailer := &recordingMailer{}
	b := sampleBooking()
	b.GuestName = `<a href="https://evil.example">Click to verify</a>`

	n := NewNotifier(&recordingCache{}, mailer, "Noor's Bhai Biryani", toronto, logger.Discard())
	require.NoError(t, n.Handle(context.Background(), eventMessage(t, NewBookingEvent(BookingCreated, b))))

	require.Len(t, mailer.sent, 1)
	html := mailer.sent[0].HTML
	assert.NotContains(t, html, "<a ")
	assert.NotContains(t, html, `href="`)
	assert.Contains(t, html, "&lt;a href=&#34;https://evil.example&#34;&gt;Click to verify&lt;/a&gt;")
	assert.True(t, strings.HasPrefix(html, "<p>Hi "))
	assert.Contains(t, html, "</p><p>")
	assert.Contains(t, mailer.sent[0].Text, b.GuestName)
}
