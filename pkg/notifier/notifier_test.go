package notifier

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/utils"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []*resend.SendEmailRequest
	err  error
}

func (m *fakeMailer) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, params)
	return &resend.SendEmailResponse{Id: "em_1"}, nil
}

type fakeTelegram struct {
	msgs []tgbotapi.MessageConfig
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.msgs = append(f.msgs, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

type fakeDiscord struct {
	channel string
	content string
	err     error
}

func (f *fakeDiscord) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channel = channelID
	f.content = content
	return &discordgo.Message{}, f.err
}

func sampleBooking() (*entity.Booking, *entity.Tour) {
	msg := "Two adults, <one> child"
	return &entity.Booking{
			Base:                   entity.Base{ID: uuid.MustParse("5f7d1c34-9d1e-4c2b-8a53-0b2d9a1e2f11")},
			ClientName:             "Ana Horvat",
			ClientEmail:            "ana@example.com",
			ClientPhone:            "912345678",
			ClientPhoneCountryCode: "+385",
			ClientCountry:          "Croatia",
			ClientLanguage:         "hr",
			ClientMessage:          &msg,
			TourID:                 "T1",
			ClientSelectedDate:     time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			Price:                  1250,
			Status:                 entity.BookingStatusPending,
			PaymentStatus:          entity.PaymentStatusPending,
		}, &entity.Tour{
			ID:       "T1",
			Title:    "Krka Waterfalls",
			Duration: "8h",
			Price:    1250,
		}
}

var emailConfig = utils.EmailConfig{From: "tours@example.com", OperatorEmail: "driver@example.com"}

func TestEmailNotifier_SendConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewEmailNotifierWithMailer(mailer, emailConfig, "Split Day Trips", zap.NewNop())
	booking, tour := sampleBooking()

	require.NoError(t, n.SendConfirmation(context.Background(), booking, tour))

	require.Len(t, mailer.sent, 1)
	sent := mailer.sent[0]
	assert.Equal(t, "tours@example.com", sent.From)
	assert.Equal(t, []string{"ana@example.com"}, sent.To)
	assert.Equal(t, "Booking Confirmation - Krka Waterfalls", sent.Subject)
	assert.Contains(t, sent.Html, "Hello Ana Horvat")
	assert.Contains(t, sent.Html, "Tuesday, June 10, 2025")
	assert.Contains(t, sent.Html, "Split Day Trips")
	// client text is escaped
	assert.Contains(t, sent.Html, "&lt;one&gt;")
	assert.NotContains(t, sent.Html, "<one>")
}

func TestEmailNotifier_SendOperatorAlert(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewEmailNotifierWithMailer(mailer, emailConfig, "Split Day Trips", zap.NewNop())
	booking, tour := sampleBooking()

	require.NoError(t, n.SendOperatorAlert(context.Background(), booking, tour))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"driver@example.com"}, mailer.sent[0].To)
	assert.Equal(t, "New Booking - Krka Waterfalls on Tuesday, June 10, 2025", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].Html, booking.ID.String())
}

func TestEmailNotifier_SendReminder(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewEmailNotifierWithMailer(mailer, emailConfig, "Split Day Trips", zap.NewNop())
	booking, tour := sampleBooking()

	require.NoError(t, n.SendReminder(context.Background(), booking, tour))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Reminder - Your tour is tomorrow: Krka Waterfalls", mailer.sent[0].Subject)
}

func TestEmailNotifier_Disabled(t *testing.T) {
	booking, tour := sampleBooking()

	n := NewEmailNotifierWithMailer(nil, emailConfig, "x", zap.NewNop())
	assert.ErrorIs(t, n.SendConfirmation(context.Background(), booking, tour), ErrEmailDisabled)

	n = NewEmailNotifierWithMailer(&fakeMailer{}, utils.EmailConfig{From: "a@b.c"}, "x", zap.NewNop())
	assert.ErrorIs(t, n.SendOperatorAlert(context.Background(), booking, tour), ErrEmailDisabled)
}

func TestEmailNotifier_SendError(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("rate limited")}
	n := NewEmailNotifierWithMailer(mailer, emailConfig, "x", zap.NewNop())
	booking, tour := sampleBooking()

	err := n.SendReminder(context.Background(), booking, tour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestDisplayPrice(t *testing.T) {
	assert.Equal(t, "€120.00", displayPrice(120))
	assert.Equal(t, "€95.50", displayPrice(95.5))
}

func TestTelegramNotifier(t *testing.T) {
	booking, tour := sampleBooking()

	disabled, err := NewTelegramNotifier(utils.TelegramConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
	assert.NoError(t, disabled.SendOperatorAlert(context.Background(), booking, tour))

	bot := &fakeTelegram{}
	n := NewTelegramNotifierWithSender(bot, 42, zap.NewNop())
	require.NoError(t, n.SendOperatorAlert(context.Background(), booking, tour))

	require.Len(t, bot.msgs, 1)
	assert.Equal(t, int64(42), bot.msgs[0].ChatID)
	assert.True(t, strings.HasPrefix(bot.msgs[0].Text, "New booking: Krka Waterfalls"))
	assert.Contains(t, bot.msgs[0].Text, "+385 912345678")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.SendOperatorAlert(ctx, booking, tour), context.Canceled)
}

func TestDiscordNotifier(t *testing.T) {
	booking, tour := sampleBooking()

	disabled, err := NewDiscordNotifier(utils.DiscordConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, disabled.SendOperatorAlert(context.Background(), booking, tour))

	session := &fakeDiscord{}
	n := NewDiscordNotifierWithSender(session, "chan-1", zap.NewNop())
	require.NoError(t, n.SendOperatorAlert(context.Background(), booking, tour))
	assert.Equal(t, "chan-1", session.channel)
	assert.Contains(t, session.content, "Ana Horvat (Croatia)")

	session.err = errors.New("missing access")
	assert.Error(t, n.SendOperatorAlert(context.Background(), booking, tour))
}

type recordingOperator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *recordingOperator) SendOperatorAlert(context.Context, *entity.Booking, *entity.Tour) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.err
}

func TestDispatcher_NotifyOperator(t *testing.T) {
	booking, tour := sampleBooking()
	failing := &recordingOperator{err: errors.New("telegram down")}
	ok := &recordingOperator{}

	d := NewDispatcher(nil, []OperatorChannel{failing, ok}, zap.NewNop())
	err := d.NotifyOperator(context.Background(), booking, tour)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram down")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)

	d = NewDispatcher(nil, nil, zap.NewNop())
	assert.NoError(t, d.NotifyOperator(context.Background(), booking, tour))
}

func TestDispatcher_ClientMessagesGoByEmail(t *testing.T) {
	booking, tour := sampleBooking()
	mailer := &fakeMailer{}
	d := NewDispatcher(NewEmailNotifierWithMailer(mailer, emailConfig, "x", zap.NewNop()), nil, zap.NewNop())

	require.NoError(t, d.SendConfirmation(context.Background(), booking, tour))
	require.NoError(t, d.SendReminder(context.Background(), booking, tour))
	assert.Len(t, mailer.sent, 2)
}
