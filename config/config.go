package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env         string   `envconfig:"APP_ENV" default:"dev"`
	Port        string   `envconfig:"PORT" default:"8080"`
	DatabaseURL string   `envconfig:"DB_URL" required:"true"`
	JWTSecret   string   `envconfig:"JWT_SECRET" required:"true"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	InactivitySchedule string        `envconfig:"INACTIVITY_SCHEDULE" default:"0 9 * * *"`
	JobSoftTimeLimit   time.Duration `envconfig:"JOB_SOFT_TIME_LIMIT" default:"1h"`
	StartingSoonWindow time.Duration `envconfig:"STARTING_SOON_WINDOW" default:"60m"`

	MailBackend string `envconfig:"MAIL_BACKEND" default:"smtp"` // smtp or console
	SMTP
	Twilio
}

type SMTP struct {
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM" default:"noreply@localhost"`
}

type Twilio struct {
	AccountSID      string `envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken       string `envconfig:"TWILIO_AUTH_TOKEN"`
	PhoneNumber     string `envconfig:"TWILIO_PHONE_NUMBER"`
	WhatsAppNumber  string `envconfig:"TWILIO_WHATSAPP_NUMBER"`
	InactiveMessage string `envconfig:"TWILIO_INACTIVE_MESSAGE" default:"Hi [CustomerName], we miss you! Your lessons are waiting, book the next one any time."`
}

// Enabled reports whether companion SMS/WhatsApp messages can be sent.
func (t Twilio) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && (t.PhoneNumber != "" || t.WhatsAppNumber != "")
}

// Load reads an optional .env file and decodes the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}

func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
