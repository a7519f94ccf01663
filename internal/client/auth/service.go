package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/shopkeeper/internal/client/api"
	"github.com/iudanet/shopkeeper/internal/client/storage"
	pkgapi "github.com/iudanet/shopkeeper/pkg/api"
)

var (
	// ErrNotLoggedIn означает, что сохранённой сессии нет
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrSessionExpired означает, что срок действия bearer токена истёк
	ErrSessionExpired = errors.New("session expired")
)

// Service выполняет вход через challenge/verify и хранит сессию
type Service struct {
	apiClient api.ClientAPI
	sessions  storage.SessionStorage
	logger    *slog.Logger
	now       func() time.Time
	baseURL   string
}

// NewService создает новый сервис авторизации. baseURL сохраняется в сессии,
// чтобы обнаружить вход на другой сервер.
func NewService(apiClient api.ClientAPI, sessions storage.SessionStorage, baseURL string, logger *slog.Logger) *Service {
	return &Service{
		apiClient: apiClient,
		sessions:  sessions,
		logger:    logger,
		baseURL:   baseURL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Login выполняет аутентификацию агента:
// challenge -> подпись внешним кошельком -> verify -> сохранение сессии
func (s *Service) Login(ctx context.Context, publicKey string, signer Signer) (*storage.Session, error) {
	publicKey = strings.TrimSpace(publicKey)
	if publicKey == "" {
		return nil, fmt.Errorf("public key is required")
	}

	// 1. Получаем challenge
	challenge, err := s.apiClient.RequestChallenge(ctx, pkgapi.ChallengeRequest{PublicKey: publicKey})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if !challenge.ExpiresAt.IsZero() && !s.now().Before(challenge.ExpiresAt) {
		return nil, fmt.Errorf("login failed: challenge already expired at %s", challenge.ExpiresAt.Format(time.RFC3339))
	}

	// 2. Подписываем во внешнем кошельке
	signature, err := signer.Sign(ctx, challenge.Challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to sign challenge: %w", err)
	}

	// 3. Обмениваем подпись на bearer токен
	resp, err := s.apiClient.Verify(ctx, pkgapi.VerifyRequest{
		PublicKey: publicKey,
		Challenge: challenge.Challenge,
		Signature: signature,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	// 4. Сохраняем сессию
	session := &storage.Session{
		AgentID:   resp.Agent.ID,
		AgentName: resp.Agent.Name,
		PublicKey: publicKey,
		Token:     resp.Token,
		BaseURL:   s.baseURL,
		ExpiresAt: TokenExpiry(resp.Token),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("logged in", "agent_id", session.AgentID, "expires_at", session.ExpiresAt)
	return session, nil
}

// ImportToken сохраняет уже выданный токен (например, полученный агентом
// другим путём). Запись агента берётся из claims, если они там есть.
func (s *Service) ImportToken(ctx context.Context, token, agentID string) (*storage.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}
	if agentID == "" {
		agentID = tokenSubject(token)
	}
	if agentID == "" {
		return nil, fmt.Errorf("agent id is required: token carries no subject")
	}

	session := &storage.Session{
		AgentID:   agentID,
		Token:     token,
		BaseURL:   s.baseURL,
		ExpiresAt: TokenExpiry(token),
	}
	if session.Expired(s.now()) {
		return nil, ErrSessionExpired
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// Logout удаляет локальную сессию. Отсутствие сессии ошибкой не считается.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.DeleteSession(ctx); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			s.logger.Debug("no session found during logout")
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Current возвращает действующую сессию
func (s *Service) Current(ctx context.Context) (*storage.Session, error) {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, ErrSessionExpired
	}
	if s.baseURL != "" && session.BaseURL != "" && session.BaseURL != s.baseURL {
		s.logger.Warn("session was created for another server",
			"session_url", session.BaseURL, "api_url", s.baseURL)
	}
	return session, nil
}

// Token returns the bearer credential of the current session.
func (s *Service) Token(ctx context.Context) (string, error) {
	session, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

// TokenExpiry извлекает exp из JWT без проверки подписи.
// Для непрозрачных токенов возвращается нулевое время.
func TokenExpiry(token string) time.Time {
	claims, ok := unverifiedClaims(token)
	if !ok {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.UTC()
}

func tokenSubject(token string) string {
	claims, ok := unverifiedClaims(token)
	if !ok {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

func unverifiedClaims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
