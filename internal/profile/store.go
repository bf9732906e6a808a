package profile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const (
	configEnvVar = "STUDYSCOUT_CONFIG_DIR"
	configSubdir = "studyscout"
	profileFile  = "profile.json"
	themeFile    = "theme.json"
)

// Store persists the profile blob and the theme preference as two files
// under one config directory. It is owned by the top-level controller:
// loaded once at startup, written on every mutation.
type Store struct {
	dir string
}

type themeRecord struct {
	Theme string `json:"theme"`
}

// NewStore resolves the config directory and ensures it exists.
// Resolution order: STUDYSCOUT_CONFIG_DIR, os.UserConfigDir, temp dir.
func NewStore() (*Store, error) {
	dir := os.Getenv(configEnvVar)
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "studyscout-config")
		}
		dir = filepath.Join(base, configSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// NewStoreAt builds a store rooted at an explicit directory.
func NewStoreAt(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir reports where the store keeps its files.
func (s *Store) Dir() string {
	return s.dir
}

// LoadProfile reads the persisted profile. A missing file yields a zero
// profile with Onboarded false, which routes the UI into onboarding.
func (s *Store) LoadProfile() (Profile, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, profileFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Profile{}, nil
		}
		return Profile{}, err
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// SaveProfile writes the profile blob.
func (s *Store) SaveProfile(p Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, profileFile), data, 0o644)
}

// LoadTheme reads the theme preference, defaulting when absent or invalid.
func (s *Store) LoadTheme() (Theme, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, themeFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ThemeMidnight, nil
		}
		return ThemeMidnight, err
	}
	var record themeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return ThemeMidnight, err
	}
	return NormalizeTheme(record.Theme), nil
}

// SaveTheme writes the theme preference.
func (s *Store) SaveTheme(theme Theme) error {
	data, err := json.MarshalIndent(themeRecord{Theme: string(theme)}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, themeFile), data, 0o644)
}
