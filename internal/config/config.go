package config

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/scrypt"

	"github.com/example/buildpcbs/internal/bridge"
)

const (
	configDirName    = "buildpcbs"
	plainFileName    = "settings.toml"
	sealedFileName   = "settings.enc"
	saltSize         = 16
	nonceSize        = 12
	defaultTooltip   = "BuildPCBs AI"
	defaultDocuments = "Documents"
)

// Settings is the persisted shell configuration.
type Settings struct {
	Debug        bool   `toml:"debug"`
	BridgeAddr   string `toml:"bridge_addr,omitempty"`
	DocumentsDir string `toml:"documents_dir"`
	MkdirPolicy  string `toml:"mkdir_policy"`
	Tooltip      string `toml:"tooltip"`
	IconPath     string `toml:"icon_path,omitempty"`
}

// Defaults returns the settings used when no file exists.
func Defaults() *Settings {
	return &Settings{
		DocumentsDir: defaultDocuments,
		MkdirPolicy:  bridge.MkdirIgnore.String(),
		Tooltip:      defaultTooltip,
	}
}

// Validate reports settings that cannot be used.
func (s *Settings) Validate() error {
	if _, err := s.SavePolicy(); err != nil {
		return err
	}
	if strings.TrimSpace(s.DocumentsDir) == "" {
		return errors.New("documents_dir must not be empty")
	}
	return nil
}

// SavePolicy parses the configured directory-creation policy.
func (s *Settings) SavePolicy() (bridge.MkdirPolicy, error) {
	p, err := bridge.ParseMkdirPolicy(s.MkdirPolicy)
	if err != nil {
		return p, fmt.Errorf("mkdir_policy: %w", err)
	}
	return p, nil
}

func (s *Settings) fillDefaults() {
	d := Defaults()
	if s.DocumentsDir == "" {
		s.DocumentsDir = d.DocumentsDir
	}
	if s.MkdirPolicy == "" {
		s.MkdirPolicy = d.MkdirPolicy
	}
	if s.Tooltip == "" {
		s.Tooltip = d.Tooltip
	}
}

// ApplyEnv overlays environment overrides onto the settings.
func (s *Settings) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if addr := strings.TrimSpace(getenv("BUILDPCBS_BRIDGE_ADDR")); addr != "" {
		s.BridgeAddr = addr
	}
	if raw := strings.TrimSpace(getenv("BUILDPCBS_DEBUG")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			s.Debug = v
		}
	}
	if policy := strings.TrimSpace(getenv("BUILDPCBS_MKDIR_POLICY")); policy != "" {
		s.MkdirPolicy = strings.ToLower(policy)
	}
}

// Path returns the resolved settings file path. Sealed settings live in a
// separate file so a plaintext file is never mistaken for ciphertext.
func Path(sealed bool) (string, error) {
	if custom := os.Getenv("BUILDPCBS_CONFIG_PATH"); custom != "" {
		if err := os.MkdirAll(filepath.Dir(custom), 0o700); err != nil {
			return "", fmt.Errorf("ensure custom config directory: %w", err)
		}
		return custom, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine user config dir: %w", err)
	}

	dir := filepath.Join(base, configDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("ensure config directory: %w", err)
	}

	name := plainFileName
	if sealed {
		name = sealedFileName
	}
	return filepath.Join(dir, name), nil
}

// Load reads the settings file. A non-empty passphrase selects the sealed
// file. A missing file yields defaults.
func Load(passphrase string) (*Settings, error) {
	path, err := Path(passphrase != "")
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	data := raw
	if passphrase != "" {
		data, err = decrypt(raw, passphrase)
		if err != nil {
			return nil, fmt.Errorf("decrypt settings: %w", err)
		}
	}

	return parse(data)
}

func parse(data []byte) (*Settings, error) {
	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	s.fillDefaults()
	return &s, nil
}

// Save persists the settings, sealing them when a passphrase is supplied.
func Save(s *Settings, passphrase string) error {
	if s == nil {
		return errors.New("nil settings")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	data := buf.Bytes()
	if passphrase != "" {
		sealed, err := encrypt(data, passphrase)
		if err != nil {
			return fmt.Errorf("encrypt settings: %w", err)
		}
		data = sealed
	}

	path, err := Path(passphrase != "")
	if err != nil {
		return err
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return os.Rename(tempFile, path)
}

func encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, saltSize+nonceSize+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

func decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	if len(ciphertext) < saltSize+nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	salt := ciphertext[:saltSize]
	nonce := ciphertext[saltSize : saltSize+nonceSize]
	payload := ciphertext[saltSize+nonceSize:]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	return gcm.Open(nil, nonce, payload, nil)
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	const (
		keyLength = 32
		n         = 1 << 15
		r         = 8
		p         = 1
	)

	key, err := scrypt.Key([]byte(passphrase), salt, n, r, p, keyLength)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}
