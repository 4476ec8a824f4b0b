package middleware

import (
	"context"

	"lexibot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Prompts sent when a chat is turned away
const (
	SignInPrompt  = "🔒 Please sign in first: /signin\nNo account yet? /signup"
	UpgradePrompt = "⭐ This feature needs an active subscription. Upgrade your plan, then try again."
	ErrorMessage  = "Something went wrong. Please try again later."
)

// RequireAuth lets signed-in chats through and sends everyone else to sign-in
func RequireAuth(gate *service.Gate, logger *zap.Logger) tele.MiddlewareFunc {
	return gated(gate, false, logger)
}

// RequireSubscription additionally requires an active subscription
func RequireSubscription(gate *service.Gate, logger *zap.Logger) tele.MiddlewareFunc {
	return gated(gate, true, logger)
}

func gated(gate *service.Gate, requireSubscription bool, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil {
				return nil
			}

			ctx := service.WithChatID(context.Background(), chat.ID)
			decision, err := gate.Check(ctx, chat.ID, requireSubscription)
			if err != nil {
				logger.Error("Failed to check access in middleware",
					zap.Int64("chat_id", chat.ID),
					zap.Error(err),
				)
				return c.Send(ErrorMessage)
			}

			switch decision {
			case service.RedirectSignIn:
				return c.Send(SignInPrompt)
			case service.RedirectUpgrade:
				return c.Send(UpgradePrompt)
			}

			return next(c)
		}
	}
}
