package render

import (
	"errors"
	"strings"
	"testing"
	"time"

	"lexibot/internal/apiclient"
	"lexibot/internal/domain"
	"lexibot/internal/lookup"
	"lexibot/internal/service"
	"lexibot/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestDefinition_MockCard(t *testing.T) {
	card := Definition(lookup.MockDefinition("ubiquitous"))

	assert.True(t, strings.HasPrefix(card, "📖 ubiquitous (noun)"))
	assert.Contains(t, card, "🎯 Confidence: 95%")

	for _, syn := range []string{"concept", "notion", "idea", "term", "expression"} {
		assert.Contains(t, card, "• "+syn+" (")
	}
	assert.Contains(t, card, "[Everyday usage]")
	assert.Contains(t, card, "[Academic writing]")
	assert.Contains(t, card, "[Product design]")
	assert.Equal(t, 8, strings.Count(card, "\n• "))
}

func TestDefinition(t *testing.T) {
	tests := []struct {
		name        string
		input       *domain.DefinitionResponse
		contains    []string
		notContains []string
	}{
		{
			name:     "full definition",
			input:    testutil.NewTestDefinition("ubiquitous"),
			contains: []string{"📖 ubiquitous (adjective)", "• omnipresent (high)", "[literature]", "Confidence: 90%"},
		},
		{
			name: "unscored definition hides confidence",
			input: &domain.DefinitionResponse{
				Word:       "serendipity",
				Definition: "A happy accident.",
				Synonyms:   []domain.Synonym{{Word: "chance"}},
				Unscored:   true,
			},
			contains:    []string{"📖 serendipity\n\nA happy accident.", "• chance"},
			notContains: []string{"Confidence", "Examples", "chance ("},
		},
		{
			name:        "no examples or synonyms",
			input:       &domain.DefinitionResponse{Word: "a", PartOfSpeech: "article", Definition: "x", Confidence: 0},
			contains:    []string{"Confidence: 0%"},
			notContains: []string{"Examples", "Synonyms"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Definition(tt.input)
			for _, s := range tt.contains {
				assert.Contains(t, result, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, result, s)
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snapshot lookup.Snapshot
		expected string
	}{
		{
			name:     "idle",
			snapshot: lookup.Snapshot{Status: domain.StatusIdle},
			expected: PromptDefine,
		},
		{
			name:     "pending",
			snapshot: lookup.Snapshot{Status: domain.StatusPending},
			expected: "🔎 Looking it up...",
		},
		{
			name: "validation error",
			snapshot: lookup.Snapshot{
				Status: domain.StatusError,
				Err:    &apiclient.Error{Kind: apiclient.KindValidation, Message: "Please enter a term to define."},
			},
			expected: "⚠️ Please enter a term to define.",
		},
		{
			name:     "unknown error",
			snapshot: lookup.Snapshot{Status: domain.StatusError, Err: errors.New("boom")},
			expected: "⚠️ Request failed. Try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Snapshot(tt.snapshot))
		})
	}
}

func TestDashboard(t *testing.T) {
	fullName := "Ann Smith"
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("with subscription", func(t *testing.T) {
		result := Dashboard(&service.Dashboard{
			Username: "annie",
			Email:    "ann@example.com",
			Profile: &domain.UserProfile{
				Username:  "annie",
				FullName:  &fullName,
				CreatedAt: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			},
			Subscription: &domain.Subscription{Status: domain.SubscriptionActive, PlanName: "Pro", EndDate: end},
		})

		assert.Contains(t, result, "Welcome back, annie!")
		assert.Contains(t, result, "Ann Smith")
		assert.Contains(t, result, "Member since March 5, 2024")
		assert.Contains(t, result, "Plan: Pro (active)")
		assert.Contains(t, result, "January 31, 2025")
	})

	t.Run("free plan", func(t *testing.T) {
		result := Dashboard(&service.Dashboard{Username: "User", Email: "x@example.com"})

		assert.Contains(t, result, "Plan: Free")
		assert.False(t, strings.HasSuffix(result, "\n"))
	})
}

func TestNotifications(t *testing.T) {
	assert.Equal(t, "🔔 No notifications.", Notifications(nil))

	result := Notifications([]domain.Notification{
		{ID: "2", Title: "Lookup failed", Description: "Request failed.", Variant: domain.VariantDestructive},
		{ID: "1", Title: "Signed in", Variant: domain.VariantSuccess},
	})

	assert.Contains(t, result, "❌ Lookup failed\nRequest failed.")
	assert.Contains(t, result, "✅ Signed in")
	assert.Less(t, strings.Index(result, "Lookup failed"), strings.Index(result, "Signed in"))
}
