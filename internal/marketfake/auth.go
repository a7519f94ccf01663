package marketfake

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iudanet/shopkeeper/pkg/api"
)

type contextKey string

// agentIDKey ключ для хранения agent_id в контексте
const agentIDKey contextKey = "agent_id"

// Sign возвращает подпись, которую fake сервер принимает для challenge.
// Настоящую подпись делает кошелёк агента.
func Sign(publicKey, challenge string) string {
	return "sig:" + publicKey + ":" + challenge
}

// handleChallenge обрабатывает POST /api/v1/auth/challenge
func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	var req api.ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PublicKey == "" {
		s.sendError(w, "pubkey is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	// Неизвестный ключ регистрируется автоматически, как при онбординге
	if _, ok := s.agents[req.PublicKey]; !ok {
		s.agents[req.PublicKey] = api.Agent{ID: uuid.NewString(), PublicKey: req.PublicKey}
	}
	nonce := uuid.NewString()
	expiresAt := s.now().Add(s.challengeTT)
	s.challenges[nonce] = challenge{publicKey: req.PublicKey, expiresAt: expiresAt}
	s.mu.Unlock()

	s.sendJSON(w, api.ChallengeResponse{Challenge: nonce, ExpiresAt: expiresAt}, http.StatusOK)
}

// handleVerify обрабатывает POST /api/v1/auth/verify
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req api.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	ch, ok := s.challenges[req.Challenge]
	// challenge одноразовый
	delete(s.challenges, req.Challenge)
	agent := s.agents[req.PublicKey]
	now := s.now()
	s.mu.Unlock()

	switch {
	case !ok || ch.publicKey != req.PublicKey:
		s.sendError(w, "unknown challenge", http.StatusUnauthorized)
		return
	case !now.Before(ch.expiresAt):
		s.sendError(w, "challenge expired", http.StatusUnauthorized)
		return
	case req.Signature != Sign(req.PublicKey, req.Challenge):
		s.sendError(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	token, err := s.issueToken(agent.ID)
	if err != nil {
		s.logger.Error("failed to issue token", slog.Any("error", err))
		s.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, verifyPayload(token, agent), http.StatusOK)
}

// verifyPayload собирает ответ verify вместе с непрозрачными полями агента
func verifyPayload(token string, agent api.Agent) map[string]any {
	record := map[string]any{
		"id":     agent.ID,
		"name":   agent.Name,
		"pubkey": agent.PublicKey,
	}
	for k, v := range agent.Extra {
		record[k] = v
	}
	return map[string]any{"token": token, "agent": record}
}

// IssueToken выдаёт bearer токен для агента в обход challenge
func (s *Server) IssueToken(agentID string) (string, error) {
	return s.issueToken(agentID)
}

func (s *Server) issueToken(agentID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   agentID,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    "marketfake",
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *Server) validateToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

// authMiddleware проверяет bearer токен и кладёт agent_id в контекст
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.sendError(w, "missing token", http.StatusUnauthorized)
			return
		}

		// Ожидаем формат: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			s.sendError(w, "invalid token format", http.StatusUnauthorized)
			return
		}

		agentID, err := s.validateToken(parts[1])
		if err != nil {
			s.logger.Warn("Invalid access token", "error", err)
			s.sendError(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), agentIDKey, agentID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func agentFromContext(ctx context.Context) string {
	agentID, _ := ctx.Value(agentIDKey).(string)
	return agentID
}
