package handler

import (
	"context"
	"errors"
	"strings"

	"lexibot/internal/domain"
	"lexibot/internal/middleware"
	"lexibot/internal/render"
	"lexibot/internal/service"
	"lexibot/internal/supabase"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleSignIn starts the email/password sign-in flow
func (h *Handler) handleSignIn(c tele.Context) error {
	chatID := c.Chat().ID
	h.SetState(chatID, &domain.StateData{
		State:   domain.StateWaitingEmail,
		UseMock: h.GetState(chatID).UseMock,
	})
	return c.Send("📧 Enter your email (or /cancel):")
}

// handleSignUp starts the registration flow
func (h *Handler) handleSignUp(c tele.Context) error {
	chatID := c.Chat().ID
	h.SetState(chatID, &domain.StateData{
		State:   domain.StateWaitingSignupEmail,
		UseMock: h.GetState(chatID).UseMock,
	})
	return c.Send("📧 Enter the email for your new account (or /cancel):")
}

// handleSignOut clears the chat's session
func (h *Handler) handleSignOut(c tele.Context) error {
	chatID := c.Chat().ID

	if err := h.auth.SignOut(context.Background(), chatID); err != nil {
		h.logger.Error("Failed to sign out", zap.Int64("chat_id", chatID), zap.Error(err))
		return c.Send(middleware.ErrorMessage)
	}

	h.machineFor(chatID).Reset()
	h.ResetState(chatID)
	return c.Send("👋 Signed out.")
}

// handleDashboard shows the profile and subscription of the signed-in user
func (h *Handler) handleDashboard(c tele.Context) error {
	chatID := c.Chat().ID

	dashboard, err := h.profiles.GetDashboard(chatContext(chatID), chatID)
	if err != nil {
		h.logger.Error("Failed to load dashboard", zap.Int64("chat_id", chatID), zap.Error(err))
		return c.Send(middleware.ErrorMessage)
	}
	if dashboard == nil {
		return c.Send(middleware.SignInPrompt)
	}

	if c.Callback() != nil {
		_ = c.Respond()
	}
	return c.Send(render.Dashboard(dashboard), mainMenuMarkup())
}

// handleAuthStep consumes text typed during the sign-in or sign-up flows.
// It reports false when the chat is not in one of them.
func (h *Handler) handleAuthStep(c tele.Context, state *domain.StateData, text string) (bool, error) {
	chatID := c.Chat().ID

	switch state.State {
	case domain.StateWaitingEmail:
		h.SetState(chatID, &domain.StateData{State: domain.StateWaitingPassword, Email: text, UseMock: state.UseMock})
		return true, c.Send("🔑 Enter your password:")

	case domain.StateWaitingPassword:
		h.deleteSecret(c)
		_, err := h.auth.SignIn(context.Background(), chatID, state.Email, text)
		if err != nil {
			h.logger.Info("Sign in failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.ResetState(chatID)
			return true, c.Send("❌ " + authErrorMessage(err) + "\n\nTry again: /signin")
		}
		h.ResetState(chatID)
		return true, c.Send("✅ Signed in!\n\n"+render.PromptDefine, mainMenuMarkup())

	case domain.StateWaitingSignupEmail:
		h.SetState(chatID, &domain.StateData{State: domain.StateWaitingSignupName, Email: text, UseMock: state.UseMock})
		return true, c.Send("👤 Choose a username (or send - to skip):")

	case domain.StateWaitingSignupName:
		username := text
		if username == "-" {
			username = ""
		}
		h.SetState(chatID, &domain.StateData{
			State:    domain.StateWaitingSignupSecret,
			Email:    state.Email,
			Username: username,
			UseMock:  state.UseMock,
		})
		return true, c.Send("🔑 Choose a password:")

	case domain.StateWaitingSignupSecret:
		h.deleteSecret(c)
		_, err := h.auth.SignUp(context.Background(), chatID, state.Email, text, state.Username)
		h.ResetState(chatID)
		if errors.Is(err, service.ErrConfirmationRequired) {
			return true, c.Send("📬 Account created. " + err.Error() + ": /signin")
		}
		if err != nil {
			h.logger.Info("Sign up failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return true, c.Send("❌ " + authErrorMessage(err) + "\n\nTry again: /signup")
		}
		return true, c.Send("🎉 Account created and signed in!\n\n"+render.PromptDefine, mainMenuMarkup())
	}

	return false, nil
}

// deleteSecret removes a message that carried a password
func (h *Handler) deleteSecret(c tele.Context) {
	if err := c.Delete(); err != nil {
		h.logger.Debug("Failed to delete password message", zap.Error(err))
	}
}

func authErrorMessage(err error) string {
	var supaErr *supabase.Error
	if errors.As(err, &supaErr) && supaErr.Message != "" {
		return supaErr.Message
	}
	if msg := err.Error(); strings.Contains(msg, "cannot be empty") {
		return "Email and password cannot be empty."
	}
	return "Authentication failed. Please try again."
}
