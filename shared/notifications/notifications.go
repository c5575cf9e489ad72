package notifications

import (
	"ca-overview/shared/env"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/time/rate"
)

var bot *telego.Bot
var isInitialized bool = false
var telegramLimiter *rate.Limiter

// InitTelegramBot creates the shared telego instance and verifies the
// token with a GetMe call. Every outgoing message in the process goes
// through this package's limiter.
func InitTelegramBot() error {
	if isInitialized && bot != nil {
		log.Println("INFO: Telegram bot already initialized.")
		return nil
	}

	isInitialized = false
	bot = nil
	telegramLimiter = nil

	botToken := env.TelegramBotToken
	if botToken == "" {
		return fmt.Errorf("critical error: TELEGRAM_BOT_TOKEN missing from env configuration")
	}

	log.Println("Initializing Telegram bot API...")
	var err error
	bot, err = telego.NewBot(botToken, telego.WithDefaultLogger(false, true))
	if err != nil {
		bot = nil
		return fmt.Errorf("failed to initialize Telegram bot API: %w", err)
	}

	log.Println("Verifying bot token with Telegram API (GetMe)...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	userInfo, err := bot.GetMe(ctx)
	if err != nil {
		bot = nil
		return fmt.Errorf("failed to verify bot token with GetMe API call: %w", err)
	}

	isInitialized = true
	telegramLimiter = rate.NewLimiter(rate.Limit(0.5), 1)
	log.Printf("Telegram bot initialized successfully for @%s", userInfo.Username)
	log.Printf("Telegram rate limiter initialized (1 msg / 2 sec)")
	return nil
}

func GetBotInstance() *telego.Bot {
	if !isInitialized || bot == nil {
		log.Println("WARN: GetBotInstance called but bot is not initialized or initialization failed.")
	}
	return bot
}

// SendTelegramMessage forwards a MarkdownV2 log line to the configured
// operator group. Used by the logger for WARN and above.
func SendTelegramMessage(message string) {
	if env.TelegramGroupID == 0 {
		return
	}
	sendWithRetry(context.Background(), env.TelegramGroupID, EscapeMarkdownV2Preserve(message), telego.ModeMarkdownV2, false)
}

// SendHTMLReply sends a rendered token overview to a chat. Link
// previews are disabled so the footer links do not unfurl.
func SendHTMLReply(ctx context.Context, chatID int64, text string) error {
	return sendWithRetry(ctx, chatID, text, telego.ModeHTML, true)
}

// SendPlainReply sends an unformatted user-facing message.
func SendPlainReply(ctx context.Context, chatID int64, text string) error {
	return sendWithRetry(ctx, chatID, text, "", false)
}

func sendWithRetry(ctx context.Context, chatID int64, text string, parseMode string, disablePreview bool) error {
	if bot == nil {
		log.Println("ERROR: Cannot send message, Telegram bot is not initialized.")
		return fmt.Errorf("telegram bot not initialized")
	}
	if chatID == 0 {
		log.Println("ERROR: Cannot send message, target chatID is 0.")
		return fmt.Errorf("target chatID is 0")
	}

	if telegramLimiter == nil {
		log.Println("WARN: Telegram rate limiter not initialized! Sending without global limit check.")
	} else if err := telegramLimiter.Wait(ctx); err != nil {
		log.Printf("ERROR: Telegram rate limiter wait error for chat %d: %v. Proceeding with send attempt...", chatID, err)
	}

	params := tu.Message(tu.ID(chatID), text)
	if parseMode != "" {
		params = params.WithParseMode(parseMode)
	}
	if disablePreview {
		params = params.WithLinkPreviewOptions(&telego.LinkPreviewOptions{IsDisabled: true})
	}

	maxRetries := 3
	backoff := 1 * time.Second
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		_, err := bot.SendMessage(ctx, params)
		if err == nil {
			return nil
		}
		lastErr = err
		log.Printf("ERROR: Failed Telegram send (Attempt %d/%d) to chat %d: %v", attempt, maxRetries, chatID, err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("telegram send cancelled for chat %d: %w", chatID, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("telegram send failed after %d attempts for chat %d: %w", maxRetries, chatID, lastErr)
}

// EscapeMarkdownV2Preserve escapes MarkdownV2 special characters but
// keeps *, _ and ` so the logger's own formatting survives.
func EscapeMarkdownV2Preserve(text string) string {
	specials := []string{"[", "]", "(", ")", "~", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	for _, ch := range specials {
		text = strings.ReplaceAll(text, ch, "\\"+ch)
	}
	return text
}
