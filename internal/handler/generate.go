package handler

import (
	"strings"

	"lexibot/internal/apiclient"
	"lexibot/internal/domain"
	"lexibot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleJoke handles /joke [prompt]
func (h *Handler) handleJoke(c tele.Context) error {
	prompt := strings.TrimSpace(c.Message().Payload)
	if prompt == "" {
		chatID := c.Chat().ID
		h.SetState(chatID, &domain.StateData{State: domain.StateWaitingJokePrompt, UseMock: h.GetState(chatID).UseMock})
		return c.Send("😄 What should the joke be about? (or /cancel)")
	}
	return h.generateJoke(c, prompt)
}

// handleCaption handles /caption [description]
func (h *Handler) handleCaption(c tele.Context) error {
	prompt := strings.TrimSpace(c.Message().Payload)
	if prompt == "" {
		chatID := c.Chat().ID
		h.SetState(chatID, &domain.StateData{State: domain.StateWaitingCaption, UseMock: h.GetState(chatID).UseMock})
		return c.Send("🖼 Describe the picture to caption (or /cancel)")
	}
	return h.generateCaption(c, prompt)
}

func (h *Handler) generateJoke(c tele.Context, prompt string) error {
	chatID := c.Chat().ID
	if !h.limiter.Allow(chatID) {
		return c.Send(middleware.RateLimitMessage)
	}

	joke, err := h.api.GenerateJoke(chatContext(chatID), prompt)
	if err != nil {
		return h.sendFailure(c, "Joke generation failed", err)
	}
	return c.Send("😄 " + joke.Joke)
}

func (h *Handler) generateCaption(c tele.Context, prompt string) error {
	chatID := c.Chat().ID
	if !h.limiter.Allow(chatID) {
		return c.Send(middleware.RateLimitMessage)
	}

	caption, err := h.api.GenerateCaption(chatContext(chatID), prompt)
	if err != nil {
		return h.sendFailure(c, "Caption generation failed", err)
	}
	return c.Send("🖼 " + caption.Caption)
}

// sendFailure records err as a notification and shows it in a dismissible card.
// Unauthorized errors were already answered with the sign-in redirect.
func (h *Handler) sendFailure(c tele.Context, title string, err error) error {
	chatID := c.Chat().ID
	msg := apiclient.Message(err)

	h.logger.Info(title,
		zap.Int64("chat_id", chatID),
		zap.String("kind", string(apiclient.KindOf(err))),
		zap.Error(err),
	)
	h.notices.For(chatID).Notify(domain.Notification{
		Title:       title,
		Description: msg,
		Variant:     domain.VariantDestructive,
	})

	if apiclient.KindOf(err) == apiclient.KindUnauthorized {
		return nil
	}
	return c.Send("⚠️ "+msg, dismissMarkup())
}
