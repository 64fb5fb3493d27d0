package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const serviceTokenPrefix = "buildpcbs-bridge|"

// ResolveServiceToken returns the configured bridge token, deriving a stable
// value from the shell secret when no explicit token is provided. It returns
// an empty string when neither is available.
func ResolveServiceToken(secret string) string {
	token := strings.TrimSpace(os.Getenv("BUILDPCBS_SERVICE_TOKEN"))
	if token != "" {
		return token
	}

	return DeriveServiceToken(secret)
}

// DeriveServiceToken hashes the provided secret into a deterministic token.
func DeriveServiceToken(secret string) string {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(serviceTokenPrefix + secret))
	return hex.EncodeToString(sum[:])
}

// NewEphemeralToken returns a random token for a single shell process.
func NewEphemeralToken() string {
	return DeriveServiceToken(uuid.NewString())
}

// Equal compares tokens in constant time. Empty tokens never match.
func Equal(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// WriteTokenFile stores token at path with owner-only permissions.
func WriteTokenFile(path, token string) error {
	if token == "" {
		return errors.New("missing service token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("ensure token dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return os.Rename(tmp, path)
}

// ReadTokenFile loads a token written by WriteTokenFile.
func ReadTokenFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errors.New("token file is empty")
	}
	return token, nil
}

// TokenFilePath is where a running shell publishes its ephemeral token.
func TokenFilePath() (string, error) {
	if custom := strings.TrimSpace(os.Getenv("BUILDPCBS_SERVICE_TOKEN_FILE")); custom != "" {
		return custom, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine user config dir: %w", err)
	}
	return filepath.Join(base, "buildpcbs", "bridge.token"), nil
}
