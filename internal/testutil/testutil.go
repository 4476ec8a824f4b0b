package testutil

import (
	"time"

	"lexibot/internal/domain"
	"lexibot/internal/supabase"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestSession creates a session for chatID that expires in an hour
func NewTestSession(chatID int64, userID, token string) *domain.Session {
	return &domain.Session{
		ChatID:      chatID,
		UserID:      userID,
		Email:       userID + "@example.com",
		AccessToken: token,
		ExpiresAt:   time.Now().Add(time.Hour),
		CreatedAt:   time.Now(),
	}
}

// NewTestSupabaseSession creates a provider session as returned by sign-in
func NewTestSupabaseSession(userID, email, token string) *supabase.Session {
	return &supabase.Session{
		AccessToken:  token,
		TokenType:    "bearer",
		ExpiresIn:    3600,
		RefreshToken: "refresh-" + token,
		User:         &supabase.User{ID: userID, Email: email},
	}
}

// NewTestDefinition creates a definition payload for word
func NewTestDefinition(word string) *domain.DefinitionResponse {
	return &domain.DefinitionResponse{
		Word:         word,
		PartOfSpeech: "adjective",
		Definition:   "Present, appearing, or found everywhere.",
		Examples: []domain.Example{
			{Sentence: "His ubiquitous influence was felt by all.", Context: "literature"},
		},
		Synonyms: []domain.Synonym{
			{Word: "omnipresent", Similarity: "high"},
		},
		Confidence: 0.9,
	}
}
