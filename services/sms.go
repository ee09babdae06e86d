package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers a short text message and reports the channel used.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (channel string, err error)
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioSender struct {
	api            messageCreator
	phoneNumber    string
	whatsAppNumber string
	log            *slog.Logger
}

func NewTwilioSender(accountSID, authToken, phoneNumber, whatsAppNumber string, log *slog.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{
		api:            client.Api,
		phoneNumber:    phoneNumber,
		whatsAppNumber: whatsAppNumber,
		log:            log,
	}
}

// Send uses WhatsApp for E.164 numbers when a WhatsApp sender is configured, SMS otherwise.
func (s *TwilioSender) Send(_ context.Context, to, body string) (string, error) {
	channel := "sms"
	from := s.phoneNumber
	if s.whatsAppNumber != "" && strings.HasPrefix(to, "+") {
		channel = "whatsapp"
		to = "whatsapp:" + to
		from = "whatsapp:" + s.whatsAppNumber
	}
	if from == "" {
		return channel, errors.New("twilio: no sender number configured")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return channel, err
	}
	if resp.Sid != nil {
		s.log.Debug("message sent", "channel", channel, "sid", *resp.Sid)
	} else {
		s.log.Debug("message sent, but no SID returned", "channel", channel)
	}
	return channel, nil
}
