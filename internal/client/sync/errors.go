package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/shopkeeper/pkg/api"
)

// Op операция координатора, во время которой произошла ошибка
type Op string

const (
	OpPush Op = "push"
	OpPull Op = "pull"
)

// Kind класс ошибки синхронизации
type Kind string

const (
	KindTransport Kind = "transport" // сервер недоступен или соединение оборвалось
	KindRemote    Kind = "remote"    // сервер ответил ошибкой на весь запрос
	KindAuth      Kind = "auth"      // нет агента, сессии или токен отклонён
	KindStorage   Kind = "storage"   // локальное сохранение не удалось
)

// ErrNoAgent означает, что push вызван без идентификатора агента
var ErrNoAgent = errors.New("agent id is required")

// SyncError структурированная ошибка push/pull. Локальное хранилище при такой
// ошибке не изменено, кроме KindStorage после успешного ответа сервера.
type SyncError struct {
	Err       error
	Op        Op
	Kind      Kind
	Retryable bool
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s failed [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a SyncError that is safe to retry.
func IsRetryable(err error) bool {
	var syncErr *SyncError
	return errors.As(err, &syncErr) && syncErr.Retryable
}

// classify превращает ошибку API клиента в SyncError
func classify(op Op, err error) *SyncError {
	var remoteErr *api.RemoteError
	if errors.As(err, &remoteErr) {
		if remoteErr.Unauthorized() {
			return &SyncError{Op: op, Kind: KindAuth, Err: err}
		}
		return &SyncError{Op: op, Kind: KindRemote, Err: err, Retryable: remoteErr.Temporary()}
	}

	// Исход прерванного push неизвестен, повтор безопасен.
	// Отмену вызывающей стороной повторять не нужно.
	return &SyncError{Op: op, Kind: KindTransport, Err: err, Retryable: !errors.Is(err, context.Canceled)}
}
