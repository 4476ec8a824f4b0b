package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"lexibot/internal/apiclient"
	"lexibot/internal/domain"
	"lexibot/internal/lookup"
	"lexibot/internal/middleware"
	"lexibot/internal/render"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// lookupTimeout bounds how long a chat waits for a rendered result
const lookupTimeout = 2 * time.Minute

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	chatID := c.Chat().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	state := h.GetState(chatID)

	if handled, err := h.handleAuthStep(c, state, text); handled {
		return err
	}

	// Everything else needs a session
	authenticated, err := h.auth.IsAuthenticated(chatContext(chatID), chatID)
	if err != nil {
		h.logger.Error("Failed to check authentication", zap.Error(err))
		return c.Send(middleware.ErrorMessage)
	}
	if !authenticated {
		return c.Send(middleware.SignInPrompt)
	}

	switch state.State {
	case domain.StateWaitingJokePrompt:
		h.ResetState(chatID)
		return h.generateJoke(c, text)

	case domain.StateWaitingCaption:
		h.ResetState(chatID)
		return h.generateCaption(c, text)

	default:
		return h.lookup(c, text, state.UseMock)
	}
}

// handleDefine handles /define <text>
func (h *Handler) handleDefine(c tele.Context) error {
	text := strings.TrimSpace(c.Message().Payload)
	if text == "" {
		return c.Send(render.PromptDefine)
	}
	return h.lookup(c, text, h.GetState(c.Chat().ID).UseMock)
}

// lookup submits text to the chat's machine and renders the outcome in place
func (h *Handler) lookup(c tele.Context, text string, useMock bool) error {
	chatID := c.Chat().ID

	if !useMock && !h.limiter.Allow(chatID) {
		return c.Send(middleware.RateLimitMessage)
	}

	m := h.machineFor(chatID)
	ctx := chatContext(chatID)

	if err := m.Submit(ctx, text, useMock); err != nil {
		if errors.Is(err, lookup.ErrBusy) {
			return c.Send("⏳ Still working on your previous lookup.")
		}
		return c.Send(render.Snapshot(m.Snapshot()), dismissMarkup())
	}

	h.logger.Info("Definition requested",
		zap.Int64("chat_id", chatID),
		zap.Bool("mock", useMock),
	)

	pending, err := h.sender.Send(c.Chat(), render.Snapshot(lookup.Snapshot{Status: domain.StatusPending}))
	if err != nil {
		h.logger.Warn("Failed to send pending message", zap.Error(err))
	}

	waitCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	snap, err := m.Wait(waitCtx)
	if err != nil {
		h.logger.Warn("Gave up waiting for definition", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	return h.finishLookup(c, pending, snap)
}

// finishLookup replaces the pending message with the outcome in snap
func (h *Handler) finishLookup(c tele.Context, pending *tele.Message, snap lookup.Snapshot) error {
	// Reset (and maybe a newer lookup) happened while waiting; that flow renders its own result
	if snap.IsIdle() || snap.IsPending() {
		return nil
	}

	// The sign-in redirect has already been sent
	if snap.IsError() && apiclient.KindOf(snap.Err) == apiclient.KindUnauthorized {
		if pending != nil {
			if err := h.sender.Delete(pending); err != nil {
				h.logger.Debug("Failed to delete pending message", zap.Error(err))
			}
		}
		return nil
	}

	markup := resultMarkup()
	if snap.IsError() {
		markup = dismissMarkup()
	}

	if pending != nil {
		if _, err := h.sender.Edit(pending, render.Snapshot(snap), markup); err == nil {
			return nil
		}
	}
	return c.Send(render.Snapshot(snap), markup)
}

// handleMockToggle flips mock mode for the chat
func (h *Handler) handleMockToggle(c tele.Context) error {
	chatID := c.Chat().ID
	state := h.GetState(chatID)

	next := *state
	next.UseMock = !state.UseMock
	h.SetState(chatID, &next)

	if c.Callback() != nil {
		_ = c.Respond()
	}

	if next.UseMock {
		return c.Send("🧪 Mock mode is ON. Lookups return sample data without calling the API.")
	}
	return c.Send("🌐 Mock mode is OFF. Lookups use the live API.")
}

// handleNewLookup resets the machine after a result
func (h *Handler) handleNewLookup(c tele.Context) error {
	h.machineFor(c.Chat().ID).Reset()
	_ = c.Respond()
	return c.Send(render.PromptDefine)
}

// handleDismiss closes an error card
func (h *Handler) handleDismiss(c tele.Context) error {
	chatID := c.Chat().ID
	h.machineFor(chatID).Reset()

	if err := c.Delete(); err != nil {
		h.logger.Debug("Failed to delete dismissed message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return c.Respond()
}
