// Package render formats lookups, dashboards and notifications as chat text.
package render

import (
	"fmt"
	"strings"

	"lexibot/internal/domain"
	"lexibot/internal/lookup"
	"lexibot/internal/service"
)

// PromptDefine asks for the next lookup
const PromptDefine = "✍️ Send me a word or phrase to define."

// Definition renders a definition card
func Definition(d *domain.DefinitionResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📖 %s", d.Word)
	if d.PartOfSpeech != "" {
		fmt.Fprintf(&b, " (%s)", d.PartOfSpeech)
	}
	b.WriteString("\n\n")
	b.WriteString(d.Definition)

	if len(d.Examples) > 0 {
		b.WriteString("\n\n📝 Examples:")
		for _, ex := range d.Examples {
			fmt.Fprintf(&b, "\n• %s", ex.Sentence)
			if ex.Context != "" {
				fmt.Fprintf(&b, " [%s]", ex.Context)
			}
		}
	}

	if len(d.Synonyms) > 0 {
		b.WriteString("\n\n🔗 Synonyms:")
		for _, syn := range d.Synonyms {
			fmt.Fprintf(&b, "\n• %s", syn.Word)
			if syn.Similarity != "" {
				fmt.Fprintf(&b, " (%s)", syn.Similarity)
			}
		}
	}

	if !d.Unscored {
		fmt.Fprintf(&b, "\n\n🎯 Confidence: %d%%", d.ConfidencePercent())
	}

	return b.String()
}

// Snapshot renders the lookup state shown in the chat
func Snapshot(s lookup.Snapshot) string {
	switch {
	case s.IsPending():
		return "🔎 Looking it up..."
	case s.IsSuccess():
		return Definition(s.Data)
	case s.IsError():
		return "⚠️ " + s.ErrorMessage()
	default:
		return PromptDefine
	}
}

// Dashboard renders the dashboard of a signed-in user
func Dashboard(d *service.Dashboard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "👤 Welcome back, %s!\n", d.Username)
	fmt.Fprintf(&b, "✉️ %s\n", d.Email)

	if d.Profile != nil {
		if d.Profile.FullName != nil && *d.Profile.FullName != "" {
			fmt.Fprintf(&b, "🪪 %s\n", *d.Profile.FullName)
		}
		if !d.Profile.CreatedAt.IsZero() {
			fmt.Fprintf(&b, "📅 Member since %s\n", d.Profile.CreatedAt.Format("January 2, 2006"))
		}
	}

	b.WriteString("\n")
	if d.Subscription == nil {
		b.WriteString("💳 Plan: Free\n")
	} else {
		fmt.Fprintf(&b, "💳 Plan: %s (%s)\n", d.Subscription.PlanName, d.Subscription.Status)
		if !d.Subscription.EndDate.IsZero() {
			fmt.Fprintf(&b, "⏳ Renews or ends on %s\n", d.Subscription.EndDate.Format("January 2, 2006"))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Notifications renders a chat's notifications, newest first
func Notifications(items []domain.Notification) string {
	if len(items) == 0 {
		return "🔔 No notifications."
	}

	var b strings.Builder
	b.WriteString("🔔 Notifications:")
	for _, n := range items {
		fmt.Fprintf(&b, "\n\n%s %s", variantIcon(n.Variant), n.Title)
		if n.Description != "" {
			fmt.Fprintf(&b, "\n%s", n.Description)
		}
	}
	return b.String()
}

func variantIcon(v domain.Variant) string {
	switch v {
	case domain.VariantDestructive:
		return "❌"
	case domain.VariantSuccess:
		return "✅"
	case domain.VariantInfo:
		return "ℹ️"
	default:
		return "•"
	}
}
