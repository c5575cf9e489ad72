package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego"

	"ca-overview/internal/overview"
	"ca-overview/internal/services"
	"ca-overview/shared/notifications"
)

const overviewTimeout = 45 * time.Second

// parseCommand splits "/cmd@BotName args" into its command and argument
// parts. ok is false for plain messages.
func parseCommand(text string) (command, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", "", false
	}
	command = fields[0]
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	args = strings.TrimSpace(strings.Join(fields[1:], " "))
	return command, args, true
}

func HandleCommand(ctx context.Context, message telego.Message, command, args string) {
	appLogger.Info("Processing command",
		"command", command,
		"args", args,
		"chatID", message.Chat.ID,
		"user", senderName(message),
	)

	switch command {
	case "start":
		sendReply(ctx, message.Chat.ID, fmt.Sprintf("Welcome to Here @%s! 🎉", senderName(message)))
	case "help":
		sendReply(ctx, message.Chat.ID, helpText())
	case "scan":
		handleScanCommand(ctx, message, args)
	default:
		appLogger.Warn("Unknown command received", "command", command)
		sendReply(ctx, message.Chat.ID, fmt.Sprintf("Unknown command: /%s", command))
	}
}

func helpText() string {
	return "These commands are supported:\n" +
		"/help - Display help message\n" +
		"/start - Send the welcome message\n" +
		"/scan {contract-address} - Show the token overview\n\n" +
		"You can also paste a contract address directly."
}

func handleScanCommand(ctx context.Context, message telego.Message, args string) {
	address := strings.TrimSpace(args)
	if address == "" {
		sendReply(ctx, message.Chat.ID, "Usage: /scan {contract-address}")
		return
	}
	if !overview.IsContractAddress(address) {
		sendReply(ctx, message.Chat.ID, "That does not look like a contract address. Expected 0x followed by 40 hex characters.")
		return
	}
	respondWithOverview(ctx, message.Chat.ID, address)
}

// HandleAddressMessage treats a plain group message as a token query
// when it is a well-formed contract address. Anything else is ordinary
// chat and is ignored.
func HandleAddressMessage(ctx context.Context, message telego.Message) {
	address := strings.TrimSpace(message.Text)
	if !overview.IsContractAddress(address) {
		return
	}
	respondWithOverview(ctx, message.Chat.ID, address)
}

func respondWithOverview(ctx context.Context, chatID int64, address string) {
	queryCtx, cancel := context.WithTimeout(ctx, overviewTimeout)
	defer cancel()

	report, err := aggregator.BuildOverview(queryCtx, address)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			appLogger.Warn("Token overview failed, identity missing", "address", address, "error", err)
			sendReply(ctx, chatID, "Invalid token address")
			return
		}
		appLogger.Error("Token overview failed", "address", address, "error", err)
		sendReply(ctx, chatID, "Something went wrong fetching token data. Please try again.")
		return
	}

	text := overview.Compose(report, profile)
	if err := notifications.SendHTMLReply(ctx, chatID, text); err != nil {
		appLogger.Error("Failed to deliver token overview", "chatID", chatID, "address", address, "error", err)
	}
}

func sendReply(ctx context.Context, chatID int64, text string) {
	if err := notifications.SendPlainReply(ctx, chatID, text); err != nil {
		appLogger.Warn("Failed to send reply", "chatID", chatID, "error", err)
	}
}
