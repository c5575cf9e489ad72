package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"

	"ca-overview/internal/overview"
	"ca-overview/internal/services"
	"ca-overview/shared/logger"
	"ca-overview/shared/notifications"
)

var appLogger *logger.Logger
var botInstance *telego.Bot
var aggregator *services.Aggregator
var profile overview.Profile

// InitializeBot wires the shared telego instance to the overview
// pipeline. notifications.InitTelegramBot must have run first.
func InitializeBot(logInstance *logger.Logger, agg *services.Aggregator, p overview.Profile) error {
	if logInstance == nil {
		fmt.Println("FATAL ERROR: InitializeBot requires a non-nil logger instance")
		return fmt.Errorf("logger instance provided to InitializeBot is nil")
	}
	appLogger = logInstance
	aggregator = agg
	profile = p
	botInstance = notifications.GetBotInstance()
	if botInstance == nil {
		appLogger.Error("Could not retrieve initialized Telegram bot instance from notifications package. Bot may not function.")
		return fmt.Errorf("failed to get telego bot instance")
	}
	appLogger.Info("Telegram bot interaction services initialized using telego.")
	return nil
}

// StartListening consumes long-polling updates until the context is
// cancelled. Token queries only work in groups and supergroups; other
// chat types get a notice, matching the original deployment.
func StartListening(ctx context.Context) {
	if appLogger == nil {
		fmt.Println("ERROR: Logger not initialized for bot listener. Cannot start.")
		return
	}
	if botInstance == nil {
		appLogger.Warn("Bot API instance not available. Cannot start command listener.")
		return
	}
	appLogger.Info("Starting bot message/command listener (telego)...")

	updates, err := botInstance.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		appLogger.Error("Failed to start long polling for updates", "error", err)
		return
	}
	appLogger.Info("Listening for Telegram commands and messages...")

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				appLogger.Info("Updates channel closed. Stopping Telegram listener.")
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go handleMessage(ctx, *update.Message)

		case <-ctx.Done():
			appLogger.Info("Context cancelled. Stopping Telegram listener.")
			return
		}
	}
}

func handleMessage(ctx context.Context, message telego.Message) {
	chatType := message.Chat.Type
	if chatType != telego.ChatTypeGroup && chatType != telego.ChatTypeSupergroup {
		if err := notifications.SendPlainReply(ctx, message.Chat.ID,
			"This bot is not available in this chat type. Please try again in a group chat."); err != nil {
			appLogger.Warn("Failed to send chat-type notice", "chatID", message.Chat.ID, "error", err)
		}
		return
	}

	appLogger.Zap().Debugw("Received message",
		"chatID", message.Chat.ID,
		"fromUser", senderName(message),
		"text", message.Text,
	)

	if command, args, ok := parseCommand(message.Text); ok {
		HandleCommand(ctx, message, command, args)
		return
	}
	HandleAddressMessage(ctx, message)
}

func senderName(message telego.Message) string {
	if message.From == nil {
		return "Unknown User"
	}
	if message.From.Username != "" {
		return message.From.Username
	}
	if message.From.FirstName != "" {
		return message.From.FirstName
	}
	return "Unknown User"
}
