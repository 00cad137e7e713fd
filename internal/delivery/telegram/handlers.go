package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/NasaVasa/coinwatch/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const notRegisteredText = "You must /register to use this bot."

type Handlers struct {
	userUC   *usecase.UserUsecase
	alertUC  *usecase.AlertUsecase
	marketUC *usecase.MarketUsecase
	logger   *zap.Logger
}

func NewHandlers(userUC *usecase.UserUsecase, alertUC *usecase.AlertUsecase, marketUC *usecase.MarketUsecase, logger *zap.Logger) *Handlers {
	return &Handlers{userUC: userUC, alertUC: alertUC, marketUC: marketUC, logger: logger}
}

func (h *Handlers) HandleUpdate(ctx context.Context, sender Sender, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, sender, update)
		return
	}
}

func (h *Handlers) handleCommand(ctx context.Context, sender Sender, update tgbotapi.Update) {
	command := update.Message.Command()
	args := update.Message.CommandArguments()
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	username := update.Message.From.UserName
	if username == "" {
		username = update.Message.From.FirstName
	}

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.Int64("telegram_user_id", userID),
		zap.String("username", username),
		zap.String("command", command),
		zap.String("args", args),
	)

	if command == "register" {
		h.handleRegister(ctx, sender, chatID, userID, username)
		return
	}

	registered, err := h.userUC.IsRegistered(ctx, userID)
	if err != nil {
		h.logger.Warn("registration lookup failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
		h.reply(sender, chatID, "Something went wrong. Please try again.")
		return
	}
	if !registered {
		h.logger.Info("unregistered user rejected", zap.Int64("telegram_user_id", userID), zap.String("command", command))
		h.reply(sender, chatID, notRegisteredText)
		return
	}

	switch command {
	case "start":
		h.replyHTML(sender, chatID, WelcomeText)
	case "help":
		h.replyHTML(sender, chatID, HelpText)
	case "currencies":
		currencies, err := h.marketUC.Currencies(ctx)
		if err != nil {
			h.logger.Warn("currencies failed", zap.Error(err))
			h.reply(sender, chatID, "Failed to fetch currencies.")
			return
		}
		h.replyHTML(sender, chatID, formatCurrencies(currencies))
	case "crypto_price":
		currencies, cryptos, err := ParseCryptoPriceArgs(args)
		if err != nil {
			h.reply(sender, chatID, "Usage: /crypto_price <currency> <crypto>\nExample: /crypto_price usd bitcoin")
			return
		}
		quotes, err := h.marketUC.Prices(ctx, currencies, cryptos)
		if err != nil {
			if errors.Is(err, usecase.ErrNoPriceData) {
				h.reply(sender, chatID, "⚠️ Invalid currencies or cryptos.")
				return
			}
			h.logger.Warn("crypto_price failed", zap.String("args", args), zap.Error(err))
			h.reply(sender, chatID, "Error fetching price data.")
			return
		}
		h.replyHTML(sender, chatID, formatQuotes(quotes))
	case "token_info":
		tokenID, err := ParseTokenID(args)
		if err != nil {
			h.reply(sender, chatID, "Usage: /token_info <token_id>")
			return
		}
		info, err := h.marketUC.TokenInfo(ctx, tokenID)
		if err != nil {
			h.logger.Warn("token_info failed", zap.String("token_id", tokenID), zap.Error(err))
			h.reply(sender, chatID, "Could not fetch token info. Check token ID.")
			return
		}
		h.replyHTML(sender, chatID, formatTokenInfo(info))
	case "set_alert":
		tokenName, threshold, err := ParseSetAlertArgs(args)
		if err != nil {
			h.reply(sender, chatID, "Usage: /set_alert <token_name> <price_threshold>")
			return
		}
		alert, err := h.alertUC.SetAlert(ctx, userID, tokenName, threshold)
		if err != nil {
			h.logger.Warn("set_alert failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(sender, chatID, h.alertErrorMessage(err, "Failed to set alert."))
			return
		}
		h.logger.Info("set_alert complete", zap.Int64("telegram_user_id", userID), zap.String("alert_id", alert.ID), zap.String("token_id", alert.TokenID))
		h.replyHTML(sender, chatID, fmt.Sprintf("Alert set for %s at $%s", html.EscapeString(alert.TokenName), alert.Threshold.String()))
	case "list_alerts":
		alerts, err := h.alertUC.ListAlerts(ctx, userID)
		if err != nil {
			h.logger.Warn("list_alerts failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
			h.reply(sender, chatID, h.alertErrorMessage(err, "Could not list alerts."))
			return
		}
		if len(alerts) == 0 {
			h.reply(sender, chatID, "You have no active alerts.")
			return
		}
		h.replyHTML(sender, chatID, formatAlerts(alerts))
	case "remove_alert":
		alertID, err := ParseAlertID(args)
		if err != nil {
			h.reply(sender, chatID, "Usage: /remove_alert <alert_id>")
			return
		}
		if err := h.alertUC.RemoveAlert(ctx, userID, alertID); err != nil {
			h.logger.Warn("remove_alert failed", zap.Int64("telegram_user_id", userID), zap.String("alert_id", alertID), zap.Error(err))
			h.reply(sender, chatID, h.alertErrorMessage(err, "Could not remove alert."))
			return
		}
		h.logger.Info("remove_alert complete", zap.Int64("telegram_user_id", userID), zap.String("alert_id", alertID))
		h.reply(sender, chatID, "Alert removed.")
	default:
		h.logger.Warn("unknown command", zap.Int64("telegram_user_id", userID), zap.String("command", command))
		h.replyHTML(sender, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) handleRegister(ctx context.Context, sender Sender, chatID, userID int64, username string) {
	_, err := h.userUC.Register(ctx, userID, username)
	switch {
	case err == nil:
		h.logger.Info("register complete", zap.Int64("telegram_user_id", userID))
		h.reply(sender, chatID, "Registered! You're ready to use the bot.")
	case errors.Is(err, usecase.ErrAlreadyRegistered):
		h.reply(sender, chatID, "⚠️ You're already registered.")
	default:
		h.logger.Warn("register failed", zap.Int64("telegram_user_id", userID), zap.Error(err))
		h.reply(sender, chatID, "Registration failed. Please try again.")
	}
}

func (h *Handlers) alertErrorMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, usecase.ErrUserNotRegistered):
		return notRegisteredText
	case errors.Is(err, usecase.ErrInvalidThreshold):
		return "Invalid threshold. Use a positive number like 50000 or 0.25."
	case errors.Is(err, usecase.ErrTokenNotFound):
		return "Token not found."
	case errors.Is(err, usecase.ErrAlertNotFound):
		return "Alert not found."
	}

	h.logger.Warn("unhandled error", zap.Error(err))
	return fallback
}

func (h *Handlers) reply(sender Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := sender.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}

func (h *Handlers) replyHTML(sender Sender, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := sender.Send(msg); err != nil {
		h.logger.Warn("failed to send message", zap.Error(err))
	}
}
