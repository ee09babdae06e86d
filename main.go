package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutorcrm-backend/config"
	"tutorcrm-backend/controllers"
	"tutorcrm-backend/mailer"
	"tutorcrm-backend/models"
	"tutorcrm-backend/routes"
	"tutorcrm-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := config.NewLogger(cfg.Env)
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("database ready")

	var transport mailer.Transport
	switch cfg.MailBackend {
	case "console":
		transport = mailer.ConsoleTransport{Log: log}
	case "smtp":
		transport, err = mailer.NewSMTPTransport(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown MAIL_BACKEND %q", cfg.MailBackend)
	}
	owl, err := mailer.NewOwl(transport, cfg.SMTP.From)
	if err != nil {
		return err
	}

	var opts []services.NotifierOption
	if cfg.Twilio.Enabled() {
		sender := services.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken,
			cfg.Twilio.PhoneNumber, cfg.Twilio.WhatsAppNumber, log)
		opts = append(opts, services.WithSMS(sender, cfg.Twilio.InactiveMessage))
		log.Info("companion SMS enabled")
	}
	notifier := services.NewInactivityNotifier(db, owl, log, opts...)
	timeline := services.NewTimelineService(db, cfg.StartingSoonWindow)

	scheduler := services.NewScheduler(log, cfg.JobSoftTimeLimit)
	if err := scheduler.Register("notify_inactive_customers", cfg.InactivitySchedule, notifier.Job); err != nil {
		return err
	}
	scheduler.Start()

	r := routes.SetupRouter(routes.Deps{
		Log:         log,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Lessons:     &controllers.LessonController{Timeline: timeline},
		Jobs: &controllers.JobController{
			Notifier:  notifier,
			SoftLimit: cfg.JobSoftTimeLimit,
			Log:       log,
		},
		Notifications: &controllers.NotificationController{DB: db},
	})
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			stop()
		}
	}()
	log.Info("HTTP server started", "port", cfg.Port)

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "err", err)
	}
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("scheduler did not stop in time")
	}
	log.Info("graceful shutdown complete")
	return nil
}
