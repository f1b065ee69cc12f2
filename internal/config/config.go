package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	keyURL   = "zammad_url"
	keyToken = "zammad_token"

	dirName  = "zammad-tui"
	fileName = "config.yaml"
)

// Store is the persisted key-value settings store. The only settings are the
// Zammad base URL and API token.
type Store struct {
	v    *viper.Viper
	path string
}

// Open reads the settings file under the user config dir, creating nothing.
// A missing file yields an empty store.
func Open() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return openAt(filepath.Join(base, dirName)), nil
}

// NewMemory returns a store that is never written to disk.
func NewMemory() *Store {
	return &Store{v: newViper()}
}

func openAt(dir string) *Store {
	v := newViper()
	v.SetConfigFile(filepath.Join(dir, fileName))
	// A missing or unreadable file is the unconfigured state, not an error.
	_ = v.ReadInConfig()
	return &Store{v: v, path: filepath.Join(dir, fileName)}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault(keyURL, "")
	v.SetDefault(keyToken, "")
	return v
}

func (s *Store) URL() string {
	return s.v.GetString(keyURL)
}

func (s *Store) Token() string {
	return s.v.GetString(keyToken)
}

// SetCredentials persists both settings. For an in-memory store the values
// are only kept for the process lifetime.
func (s *Store) SetCredentials(url, token string) error {
	s.v.Set(keyURL, url)
	s.v.Set(keyToken, token)
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Dir returns the directory holding the settings file, or "" for an
// in-memory store. Also used as the home of the log file.
func (s *Store) Dir() string {
	if s.path == "" {
		return ""
	}
	return filepath.Dir(s.path)
}
