package answer

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/pkg/errors"

	"github.com/faultsim/faultsim/faulterr"
)

// Digest returns the lowercase-hex SHA-256 of the file at path, for the
// "*.ans.sha" sidecar. Grounded on the pack's only SHA-256 consumer
// (tlsnotary-server's Sha256 helper): hash the bytes with sha256.Sum256, hex
// encode the result. No third-party hashing library appears anywhere in the
// retrieval pack, and SHA-256 is a single well-known stdlib primitive, so
// this stays on crypto/sha256/encoding/hex rather than reaching for one.
func Digest(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(faulterr.ErrIO, "read %s: %v", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// WriteDigestFile computes Digest(ansPath) and writes it, followed by a
// newline, to shaPath.
func WriteDigestFile(ansPath, shaPath string) error {
	digest, err := Digest(ansPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(shaPath, []byte(digest+"\n"), 0o644); err != nil {
		return errors.Wrapf(faulterr.ErrIO, "write %s: %v", shaPath, err)
	}
	return nil
}
