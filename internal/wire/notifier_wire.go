package wire

import (
	"fmt"

	"tour-booking/pkg/notifier"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

// NewNotifier assembles email for clients plus every configured operator channel.
func NewNotifier(config *utils.Config, logger *zap.Logger) (*notifier.Dispatcher, error) {
	email := notifier.NewEmailNotifier(config.Email, config.App.Name, logger)

	operators := []notifier.OperatorChannel{email}

	telegram, err := notifier.NewTelegramNotifier(config.Telegram, logger)
	if err != nil {
		return nil, fmt.Errorf("telegram notifier: %w", err)
	}
	if telegram.Enabled() {
		operators = append(operators, telegram)
	}

	discord, err := notifier.NewDiscordNotifier(config.Discord, logger)
	if err != nil {
		return nil, fmt.Errorf("discord notifier: %w", err)
	}
	if discord.Enabled() {
		operators = append(operators, discord)
	}

	return notifier.NewDispatcher(email, operators, logger), nil
}
