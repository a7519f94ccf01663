package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChallengeRequest запрос на выдачу challenge для подписи кошельком
type ChallengeRequest struct {
	PublicKey string `json:"pubkey"`
}

// ChallengeResponse challenge, который нужно подписать внешним подписантом
type ChallengeResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
	Challenge string    `json:"challenge"`
}

// VerifyRequest подписанный challenge
type VerifyRequest struct {
	PublicKey string `json:"pubkey"`
	Challenge string `json:"challenge"`
	Signature string `json:"signature"`
}

// Agent запись агента на сервере. Игровые метаданные (уровень, бейджи, нация)
// не интерпретируются клиентом и хранятся как есть.
type Agent struct {
	Extra     map[string]json.RawMessage `json:"-"`
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	PublicKey string                     `json:"pubkey"`
}

// UnmarshalJSON keeps every field that the client does not model in Extra.
func (a *Agent) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	type plain Agent
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Agent(p)
	for _, known := range []string{"id", "name", "pubkey"} {
		delete(raw, known)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}
	return nil
}

// VerifyResponse bearer токен и запись агента
type VerifyResponse struct {
	Token string `json:"token"`
	Agent Agent  `json:"agent"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// RemoteError сервер ответил, но отклонил запрос
type RemoteError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the bearer credential was rejected.
func (e *RemoteError) Unauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// Temporary reports whether retrying the same request may succeed.
func (e *RemoteError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
