package notifier

import (
	"context"
	"fmt"
	"strings"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramSender is satisfied by *tgbotapi.BotAPI.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramNotifier struct {
	bot    TelegramSender
	chatID int64
	log    *zap.Logger
}

func NewTelegramNotifier(config utils.TelegramConfig, log *zap.Logger) (*TelegramNotifier, error) {
	log = log.With(zap.String("notifier", "telegram"))
	if config.BotToken == "" || config.ChatID == 0 {
		log.Info("Telegram bot token or chat id is empty, operator alerts via telegram disabled")
		return &TelegramNotifier{log: log}, nil
	}

	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: bot, chatID: config.ChatID, log: log}, nil
}

func NewTelegramNotifierWithSender(bot TelegramSender, chatID int64, log *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID, log: log.With(zap.String("notifier", "telegram"))}
}

func (n *TelegramNotifier) Enabled() bool {
	return n.bot != nil
}

func (n *TelegramNotifier) SendOperatorAlert(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	if !n.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, operatorText(booking, tour))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}

	n.log.Debug("Telegram alert sent", zap.String("booking_id", booking.ID.String()))
	return nil
}

// operatorText is the plain text alert shared by the chat notifiers.
func operatorText(booking *entity.Booking, tour *entity.Tour) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "New booking: %s\n", tour.Title)
	fmt.Fprintf(&sb, "Date: %s\n", displayDate(booking))
	fmt.Fprintf(&sb, "Price: %s\n", displayPrice(booking.Price))
	fmt.Fprintf(&sb, "Client: %s (%s)\n", booking.ClientName, booking.ClientCountry)
	fmt.Fprintf(&sb, "Email: %s\n", booking.ClientEmail)
	fmt.Fprintf(&sb, "Phone: %s %s\n", booking.ClientPhoneCountryCode, booking.ClientPhone)
	fmt.Fprintf(&sb, "Language: %s\n", booking.ClientLanguage)
	if booking.ClientMessage != nil {
		fmt.Fprintf(&sb, "Message: %s\n", *booking.ClientMessage)
	}
	fmt.Fprintf(&sb, "ID: %s", booking.ID)
	return sb.String()
}
