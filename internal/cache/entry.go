// Package cache stores finished transcriptions in SQLite, keyed by a hash of
// the audio file's canonical path, so re-opening a file skips transcription.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ashutoshmjain/avim/internal/clip"
)

// Entry is one cached transcription.
type Entry struct {
	Key       string
	AudioPath string
	Clips     []clip.Clip
	CreatedAt time.Time
}

// CanonicalPath resolves path to an absolute path with symlinks evaluated.
// The file must exist.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}

// Key returns the hex SHA-256 of the canonical path.
func Key(canonicalPath string) string {
	sum := sha256.Sum256([]byte(canonicalPath))
	return hex.EncodeToString(sum[:])
}
