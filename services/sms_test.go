package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeMessages struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessages) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestTwilioSender_PrefersWhatsAppForInternationalNumbers(t *testing.T) {
	api := &fakeMessages{}
	s := &TwilioSender{api: api, phoneNumber: "+15550001", whatsAppNumber: "+15550002", log: discardLogger()}

	channel, err := s.Send(context.Background(), "+79990001122", "hello")
	require.NoError(t, err)
	assert.Equal(t, "whatsapp", channel)

	require.Len(t, api.params, 1)
	assert.Equal(t, "whatsapp:+79990001122", *api.params[0].To)
	assert.Equal(t, "whatsapp:+15550002", *api.params[0].From)
	assert.Equal(t, "hello", *api.params[0].Body)
}

func TestTwilioSender_FallsBackToSMS(t *testing.T) {
	api := &fakeMessages{}
	s := &TwilioSender{api: api, phoneNumber: "+15550001", log: discardLogger()}

	channel, err := s.Send(context.Background(), "+79990001122", "hello")
	require.NoError(t, err)
	assert.Equal(t, "sms", channel)
	assert.Equal(t, "+79990001122", *api.params[0].To)
	assert.Equal(t, "+15550001", *api.params[0].From)
}

func TestTwilioSender_Errors(t *testing.T) {
	s := &TwilioSender{api: &fakeMessages{}, log: discardLogger()}
	_, err := s.Send(context.Background(), "79990001122", "hello")
	assert.Error(t, err)

	s = &TwilioSender{api: &fakeMessages{err: errors.New("rate limited")}, phoneNumber: "+15550001", log: discardLogger()}
	channel, err := s.Send(context.Background(), "79990001122", "hello")
	assert.EqualError(t, err, "rate limited")
	assert.Equal(t, "sms", channel)
}
