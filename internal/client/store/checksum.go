package store

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/iudanet/shopkeeper/pkg/api"
)

// ManifestChecksum returns the hex BLAKE2b-256 digest of the canonical JSON
// encoding of the manifest entries. Identical entries always give the same
// checksum; timestamp and agent id are not covered.
func ManifestChecksum(products []api.ManifestProduct) (string, error) {
	if products == nil {
		products = []api.ManifestProduct{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest products: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
