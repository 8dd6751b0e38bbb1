package notifier

import (
	"context"
	"fmt"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordSender is satisfied by *discordgo.Session.
type DiscordSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   DiscordSender
	channelID string
	log       *zap.Logger
}

func NewDiscordNotifier(config utils.DiscordConfig, log *zap.Logger) (*DiscordNotifier, error) {
	log = log.With(zap.String("notifier", "discord"))
	if config.BotToken == "" || config.ChannelID == "" {
		log.Info("Discord bot token or channel id is empty, operator alerts via discord disabled")
		return &DiscordNotifier{log: log}, nil
	}

	session, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	return &DiscordNotifier{session: session, channelID: config.ChannelID, log: log}, nil
}

func NewDiscordNotifierWithSender(session DiscordSender, channelID string, log *zap.Logger) *DiscordNotifier {
	return &DiscordNotifier{session: session, channelID: channelID, log: log.With(zap.String("notifier", "discord"))}
}

func (n *DiscordNotifier) Enabled() bool {
	return n.session != nil
}

func (n *DiscordNotifier) SendOperatorAlert(ctx context.Context, booking *entity.Booking, tour *entity.Tour) error {
	if !n.Enabled() {
		return nil
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, operatorText(booking, tour), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send discord alert: %w", err)
	}

	n.log.Debug("Discord alert sent", zap.String("booking_id", booking.ID.String()))
	return nil
}
