package validation

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// HashContent возвращает BLAKE2b-256 хеш содержимого в hex и его размер
func HashContent(r io.Reader) (string, int64, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create hash: %w", err)
	}
	n, err := io.Copy(h, r)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// HashFile hashes the file at path for the content_hash and file_size_bytes fields.
func HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return HashContent(f)
}
