package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"tutorcrm-backend/mailer"
	"tutorcrm-backend/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tzdate(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func createCustomer(t *testing.T, db *gorm.DB, firstName, email string) *models.Customer {
	t.Helper()
	c := &models.Customer{FirstName: firstName, LastName: "Tester", Email: email, Timezone: "Europe/Moscow"}
	require.NoError(t, db.Create(c).Error)
	return c
}

func createTeacher(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u := &models.User{Email: "host@tutor.test", Name: "Host", Role: "teacher", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func buySubscription(t *testing.T, db *gorm.DB, c *models.Customer, at time.Time, fullyUsed bool) *models.Subscription {
	t.Helper()
	s := &models.Subscription{CustomerID: c.ID, ProductName: "Product1", BuyDate: at, IsFullyUsed: fullyUsed}
	require.NoError(t, db.Create(s).Error)
	return s
}

func createLesson(t *testing.T, db *gorm.DB, lessonType string, photo *string) *models.Lesson {
	t.Helper()
	l := &models.Lesson{Type: lessonType, Name: "Lesson " + lessonType, Photo: photo, Slots: 5, Duration: 60}
	require.NoError(t, db.Create(l).Error)
	return l
}

func createEntry(t *testing.T, db *gorm.DB, teacher *models.User, lesson *models.Lesson, start time.Time, slots int, finished bool) *models.TimelineEntry {
	t.Helper()
	e := &models.TimelineEntry{
		TeacherID:  teacher.ID,
		LessonID:   lesson.ID,
		StartsAt:   start,
		EndsAt:     start.Add(time.Hour),
		Slots:      slots,
		IsFinished: finished,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

// attend books the customer onto a lesson that ran from start to start+1h.
func attend(t *testing.T, db *gorm.DB, c *models.Customer, teacher *models.User, start time.Time, finished bool) {
	t.Helper()
	lesson := createLesson(t, db, models.LessonTypeOrdinary, nil)
	entry := createEntry(t, db, teacher, lesson, start, 1, finished)
	require.NoError(t, db.Create(&models.Class{CustomerID: c.ID, TimelineEntryID: &entry.ID}).Error)
}

func activityOf(t *testing.T, db *gorm.DB, c *models.Customer) *models.Activity {
	t.Helper()
	var a models.Activity
	err := db.Where("customer_id = ?", c.ID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	require.NoError(t, err)
	return &a
}

func strPtr(s string) *string { return &s }

// failingTransport fails deliveries to one address and passes the rest to an outbox.
type failingTransport struct {
	failFor string
	outbox  *mailer.Outbox
}

func (f *failingTransport) Deliver(ctx context.Context, env mailer.Envelope) error {
	for _, to := range env.To {
		if to == f.failFor {
			return errors.New("550 mailbox unavailable")
		}
	}
	return f.outbox.Deliver(ctx, env)
}

// stallingTransport blocks the first delivery until the context is done.
type stallingTransport struct {
	once   sync.Once
	outbox mailer.Outbox
}

func (s *stallingTransport) Deliver(ctx context.Context, env mailer.Envelope) error {
	s.once.Do(func() { <-ctx.Done() })
	return s.outbox.Deliver(ctx, env)
}

type sentSMS struct {
	to, body string
}

type fakeSMS struct {
	sent []sentSMS
	err  error
}

func (f *fakeSMS) Send(_ context.Context, to, body string) (string, error) {
	if f.err != nil {
		return "sms", f.err
	}
	f.sent = append(f.sent, sentSMS{to: to, body: body})
	return "sms", nil
}
