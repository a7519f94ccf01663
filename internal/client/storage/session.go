package storage

import (
	"context"
	"time"
)

//go:generate moq -out session_mock.go . SessionStorage

// SessionStorage хранит bearer токен и запись агента между запусками.
// Ключи и подписи здесь не хранятся: подпись выполняет внешний кошелёк.
type SessionStorage interface {
	// SaveSession stores the session, replacing any previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns ErrSessionNotFound if nobody is logged in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout)
	DeleteSession(ctx context.Context) error
}

// Session аутентифицированная сессия агента
type Session struct {
	ExpiresAt time.Time `json:"expires_at,omitempty"` // zero if the token carries no exp claim
	AgentID   string    `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	PublicKey string    `json:"pubkey"`
	Token     string    `json:"token"`
	BaseURL   string    `json:"base_url"`
}

// Expired reports whether the token is known to be expired at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
