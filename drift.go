// File: lixenwraith/configer/drift.go
package configer

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// HashFunc computes the content fingerprint of a file.
type HashFunc func(path string) (string, error)

// HashFile returns the hex MD5 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open '%s' for hashing: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash '%s': %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashBytes(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// CheckDrift fails with ChangeDefaultError when the fingerprints differ.
func CheckDrift(recorded, current, defaultFile string) error {
	if recorded != current {
		return &ChangeDefaultError{DefaultFile: defaultFile}
	}
	return nil
}

// DriftGuard compares the fingerprint recorded at generation time with the current
// content of the default file.
type DriftGuard struct {
	recorded Fingerprint
	hash     HashFunc
}

// NewDriftGuard creates a guard for the recorded fingerprint. A nil hash uses HashFile.
func NewDriftGuard(recorded Fingerprint, hash HashFunc) *DriftGuard {
	if hash == nil {
		hash = HashFile
	}
	return &DriftGuard{recorded: recorded, hash: hash}
}

// Recorded returns the fingerprint the guard checks against.
func (g *DriftGuard) Recorded() Fingerprint {
	return g.recorded
}

// Check hashes the default file and compares it with the recorded hash.
func (g *DriftGuard) Check() error {
	current, err := g.hash(g.recorded.Path)
	if err != nil {
		return err
	}
	return CheckDrift(g.recorded.Hash, current, g.recorded.Path)
}
