package service

import "context"

type chatIDKey struct{}

// WithChatID returns a context carrying the chat the request acts for
func WithChatID(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, chatIDKey{}, chatID)
}

// ChatIDFrom returns the chat stored by WithChatID
func ChatIDFrom(ctx context.Context) (int64, bool) {
	chatID, ok := ctx.Value(chatIDKey{}).(int64)
	return chatID, ok
}
