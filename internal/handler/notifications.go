package handler

import (
	"lexibot/internal/domain"
	"lexibot/internal/render"

	tele "gopkg.in/telebot.v3"
)

// handleNotifications lists the chat's notifications with dismiss buttons
func (h *Handler) handleNotifications(c tele.Context) error {
	items := h.notices.For(c.Chat().ID).Items()
	return c.Send(render.Notifications(items), notificationsMarkup(items))
}

// handleDismissNotice removes one notification and refreshes the list
func (h *Handler) handleDismissNotice(c tele.Context, id string) error {
	store := h.notices.For(c.Chat().ID)
	store.Clear(id)

	items := store.Items()
	err := c.Edit(render.Notifications(items), notificationsMarkup(items))
	if err == nil {
		return c.Respond()
	}
	if err := h.handleEditError(err, c); err != nil {
		return c.Send(render.Notifications(items), notificationsMarkup(items))
	}
	return nil
}

// handleClearNotices removes every notification of the chat
func (h *Handler) handleClearNotices(c tele.Context) error {
	h.notices.For(c.Chat().ID).Clear("")

	err := c.Edit(render.Notifications(nil))
	if err == nil {
		return c.Respond()
	}
	if err := h.handleEditError(err, c); err != nil {
		return c.Send(render.Notifications(nil))
	}
	return nil
}

func notificationsMarkup(items []domain.Notification) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	if len(items) == 0 {
		return menu
	}

	rows := make([]tele.Row, 0, len(items)+1)
	for _, n := range items {
		title := n.Title
		if title == "" {
			title = "notification"
		}
		rows = append(rows, menu.Row(tele.Btn{
			Text: "✖ " + title,
			Data: noticePrefix + n.ID,
		}))
	}
	rows = append(rows, menu.Row(btnClearNotices))
	menu.Inline(rows...)
	return menu
}
