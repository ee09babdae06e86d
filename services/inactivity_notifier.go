package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tutorcrm-backend/mailer"
	"tutorcrm-backend/models"
	"tutorcrm-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const (
	inactiveTemplate         = "inactive_customer_notification"
	inactiveNotificationType = "inactive_customer"
)

// One row per customer. The three counts are taken against the same week-ago
// boundary so EvaluateInactivity can run without touching the database.
const inactiveCandidateColumns = `customers.id AS customer_id, customers.first_name, customers.last_name,
	customers.email, customers.phone, customers.timezone, activities.id AS activity_id,
	(SELECT COUNT(*) FROM subscriptions
		WHERE subscriptions.customer_id = customers.id
		AND subscriptions.is_fully_used = ?) AS active_subscriptions,
	(SELECT COUNT(*) FROM subscriptions
		WHERE subscriptions.customer_id = customers.id
		AND subscriptions.is_fully_used = ? AND subscriptions.buy_date > ?) AS fresh_subscriptions,
	(SELECT COUNT(*) FROM classes
		JOIN timeline_entries ON timeline_entries.id = classes.timeline_entry_id
		WHERE classes.customer_id = customers.id
		AND timeline_entries.ends_at >= ? AND timeline_entries.is_finished = ?) AS recent_classes`

type inactiveCandidate struct {
	CustomerID uuid.UUID
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Timezone   string
	ActivityID *uuid.UUID
	InactivityStats
}

// RunReport summarises one notifier run.
type RunReport struct {
	StartedAt   time.Time          `json:"startedAt"`
	Candidates  int                `json:"candidates"`
	Notified    int                `json:"notified"`
	Failed      int                `json:"failed"`
	Skipped     map[SkipReason]int `json:"skipped"`
	Interrupted bool               `json:"interrupted"`
}

type InactivityNotifier struct {
	db         *gorm.DB
	mailer     mailer.Mailer
	sms        SMSSender
	smsMessage string
	log        *slog.Logger
	now        func() time.Time
}

type NotifierOption func(*InactivityNotifier)

// WithSMS sends a companion text to customers with a valid phone number.
// [CustomerName] in message is replaced with the customer's first name.
func WithSMS(sender SMSSender, message string) NotifierOption {
	return func(n *InactivityNotifier) {
		n.sms = sender
		n.smsMessage = message
	}
}

func WithClock(now func() time.Time) NotifierOption {
	return func(n *InactivityNotifier) { n.now = now }
}

func NewInactivityNotifier(db *gorm.DB, m mailer.Mailer, log *slog.Logger, opts ...NotifierOption) *InactivityNotifier {
	n := &InactivityNotifier{
		db:     db,
		mailer: m,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Job adapts Run for the scheduler.
func (s *InactivityNotifier) Job(ctx context.Context) error {
	_, err := s.Run(ctx)
	return err
}

// Run notifies subscribed customers who have been inactive for more than a week.
// A failure for one customer is logged and collected; the others are still processed.
// Selecting candidates is the only step whose failure aborts the run.
func (s *InactivityNotifier) Run(ctx context.Context) (*RunReport, error) {
	now := s.now().UTC()
	weekAgo := now.Add(-InactivityWindow)

	candidates, err := s.candidates(ctx, weekAgo)
	if err != nil {
		return nil, fmt.Errorf("select inactivity candidates: %w", err)
	}
	inactivityCandidates.Add(float64(len(candidates)))

	report := &RunReport{
		StartedAt:  now,
		Candidates: len(candidates),
		Skipped:    make(map[SkipReason]int),
	}

	var errs error
	for i, c := range candidates {
		if ctxErr := ctx.Err(); ctxErr != nil {
			report.Interrupted = true
			left := len(candidates) - i
			stop := ctxErr
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				stop = ErrTimeLimitExceeded
			}
			s.log.Warn("inactivity run interrupted", "remaining", left, "err", ctxErr)
			errs = multierr.Append(errs, fmt.Errorf("%w: %d customers left for the next run", stop, left))
			break
		}

		if reason := EvaluateInactivity(c.InactivityStats); reason != Eligible {
			report.Skipped[reason]++
			inactivitySkipped.WithLabelValues(string(reason)).Inc()
			continue
		}

		if err := s.notify(ctx, c, now); err != nil {
			report.Failed++
			s.log.Error("inactive customer notification failed", "customer", c.CustomerID, "err", err)
			errs = multierr.Append(errs, fmt.Errorf("customer %s: %w", c.CustomerID, err))
			continue
		}
		report.Notified++
	}

	s.log.Info("inactivity run completed",
		"candidates", report.Candidates,
		"notified", report.Notified,
		"failed", report.Failed,
		"interrupted", report.Interrupted)
	return report, errs
}

func (s *InactivityNotifier) candidates(ctx context.Context, weekAgo time.Time) ([]inactiveCandidate, error) {
	var out []inactiveCandidate
	err := s.db.WithContext(ctx).
		Model(&models.Customer{}).
		Distinct(inactiveCandidateColumns, false, false, weekAgo, weekAgo, true).
		Joins("LEFT JOIN activities ON activities.customer_id = customers.id").
		Where("(activities.last_notice_date <= ? OR activities.last_notice_date IS NULL)", weekAgo).
		Order("customer_id").
		Scan(&out).Error
	return out, err
}

func (s *InactivityNotifier) notify(ctx context.Context, c inactiveCandidate, now time.Time) error {
	if err := s.markNotified(ctx, c, utils.BeginningOfDay(now)); err != nil {
		return fmt.Errorf("update activity: %w", err)
	}

	err := s.mailer.Send(ctx, mailer.Message{
		Template: inactiveTemplate,
		Context:  map[string]any{"c": c},
		To:       []string{c.Email},
		Timezone: c.Timezone,
	})
	s.logDelivery(ctx, c, "email", c.Email, now, err)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	if s.sms != nil && utils.ValidatePhone(c.Phone) {
		body := strings.ReplaceAll(s.smsMessage, "[CustomerName]", c.FirstName)
		phone := utils.NormalizePhone(c.Phone)
		channel, err := s.sms.Send(ctx, phone, body)
		s.logDelivery(ctx, c, channel, phone, now, err)
		if err != nil {
			// the email went out, so the customer still counts as notified
			s.log.Warn("companion message failed", "customer", c.CustomerID, "channel", channel, "err", err)
		}
	}
	return nil
}

func (s *InactivityNotifier) markNotified(ctx context.Context, c inactiveCandidate, today time.Time) error {
	db := s.db.WithContext(ctx)
	if c.ActivityID == nil {
		return db.Create(&models.Activity{CustomerID: c.CustomerID, LastNoticeDate: &today}).Error
	}
	return db.Model(&models.Activity{}).
		Where("id = ?", *c.ActivityID).
		Update("last_notice_date", today).Error
}

func (s *InactivityNotifier) logDelivery(ctx context.Context, c inactiveCandidate, channel, recipient string, at time.Time, sendErr error) {
	status := "sent"
	errorMsg := ""
	if sendErr != nil {
		status = "failed"
		errorMsg = sendErr.Error()
	}
	notificationsTotal.WithLabelValues(channel, status).Inc()

	entry := models.NotificationLog{
		CustomerID:   c.CustomerID,
		Type:         inactiveNotificationType,
		Channel:      channel,
		Recipient:    recipient,
		Status:       status,
		ErrorMessage: errorMsg,
		Context:      models.JSONB{"template": inactiveTemplate, "firstName": c.FirstName, "timezone": c.Timezone},
		SentAt:       at,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Error("failed to log notification", "customer", c.CustomerID, "err", err)
	}
}
