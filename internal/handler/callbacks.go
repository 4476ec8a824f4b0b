package handler

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const noticePrefix = "notice_"

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context) error {
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already up to date, acknowledging",
			zap.Int64("chat_id", c.Chat().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("chat_id", c.Chat().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles callback queries not matched by a registered button
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("chat_id", c.Chat().ID),
	)

	// Buttons whose Unique did not come through
	if callback.Unique == "" {
		switch data {
		case btnNewLookup.Unique:
			return h.handleNewLookup(c)
		case btnDismiss.Unique:
			return h.handleDismiss(c)
		case btnClearNotices.Unique:
			return h.handleClearNotices(c)
		}
	}

	// Handle by Data prefix (dynamic buttons)
	if id, ok := parseNoticeID(data); ok {
		return h.handleDismissNotice(c, id)
	}

	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// parseNoticeID extracts the notification id from notice_<id> callback data
func parseNoticeID(data string) (string, bool) {
	if !strings.HasPrefix(data, noticePrefix) {
		return "", false
	}
	id := strings.TrimPrefix(data, noticePrefix)
	return id, id != ""
}
