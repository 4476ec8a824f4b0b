package handler

import (
	"context"
	"fmt"

	"lexibot/internal/apiclient"
	"lexibot/internal/middleware"
	"lexibot/internal/render"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const helpText = `Commands:
/define <word> - look up a word (or just send it)
/mock - toggle mock mode
/dashboard - your profile and plan
/joke <prompt> - generate a joke ⭐
/caption <description> - generate a caption ⭐
/notifications - recent notifications
/health - API status
/signout - sign out`

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	chatID := c.Chat().ID

	h.logger.Info("User started bot",
		zap.Int64("chat_id", chatID),
		zap.String("username", c.Sender().Username),
	)

	authenticated, err := h.auth.IsAuthenticated(chatContext(chatID), chatID)
	if err != nil {
		h.logger.Error("Failed to check authentication", zap.Error(err))
		return c.Send(middleware.ErrorMessage)
	}

	h.ResetState(chatID)

	if !authenticated {
		return c.Send("👋 Welcome to Lexi, your AI dictionary!\n\n" + middleware.SignInPrompt)
	}

	return c.Send(
		"👋 Welcome back!\n\n"+render.PromptDefine+"\n\n"+helpText,
		mainMenuMarkup(),
	)
}

// handleCancel aborts any multi-step input
func (h *Handler) handleCancel(c tele.Context) error {
	h.ResetState(c.Chat().ID)
	return c.Send("Cancelled.")
}

// handleHealth reports whether the dictionary API is up
func (h *Handler) handleHealth(c tele.Context) error {
	health, err := h.api.HealthCheck(chatContext(c.Chat().ID))
	if err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		return c.Send("🔴 API unavailable: " + apiclient.Message(err))
	}
	return c.Send(fmt.Sprintf("🟢 %s: %s", health.Service, health.Status))
}

// RedirectToSignIn is run after the API rejected a chat's session
func (h *Handler) RedirectToSignIn(ctx context.Context, chatID int64) {
	h.ResetState(chatID)

	if _, err := h.sender.Send(&tele.Chat{ID: chatID}, "Your session has expired.\n\n"+middleware.SignInPrompt); err != nil {
		h.logger.Warn("Failed to send sign-in redirect",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
