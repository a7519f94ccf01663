package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/shopkeeper/internal/client/iocli"
)

// Signer подписывает challenge ключом агента. Криптография живёт во внешнем
// кошельке, клиент только передаёт строки.
type Signer interface {
	Sign(ctx context.Context, challenge string) (string, error)
}

// SignerFunc adapts an ordinary function to the Signer interface.
type SignerFunc func(ctx context.Context, challenge string) (string, error)

// Sign calls f(ctx, challenge).
func (f SignerFunc) Sign(ctx context.Context, challenge string) (string, error) {
	return f(ctx, challenge)
}

// PromptSigner показывает challenge пользователю и читает подпись,
// полученную во внешнем кошельке.
type PromptSigner struct {
	io iocli.IO
}

// NewPromptSigner creates a signer that asks the user through io.
func NewPromptSigner(io iocli.IO) *PromptSigner {
	return &PromptSigner{io: io}
}

// Sign prints the challenge and reads the signature without echo.
func (s *PromptSigner) Sign(ctx context.Context, challenge string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.io.Println("Sign this challenge with your wallet:")
	s.io.Println(challenge)

	signature, err := s.io.ReadSecret("Signature: ")
	if err != nil {
		return "", fmt.Errorf("failed to read signature: %w", err)
	}
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return "", fmt.Errorf("signature is empty")
	}
	return signature, nil
}
