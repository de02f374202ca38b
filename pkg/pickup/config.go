package pickup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jlrickert/cli-toolkit/toolkit"
	"gopkg.in/yaml.v3"

	"github.com/jlrickert/pickup/pkg/wheel"
)

// SettingsFilename is the per-repository settings file, stored alongside the
// root index.
const SettingsFilename = "pickup.yaml"

// DefaultRemote is the index queried when the settings file names none.
const DefaultRemote = "https://pypi.org/simple/"

// Settings is the on-disk repository configuration. A missing file is not an
// error; every field has a usable zero default.
type Settings struct {
	// Remote is the base URL of the upstream simple index. It must end with
	// a trailing slash so package names can be appended directly.
	Remote string `yaml:"remote,omitempty"`

	// Wheels narrows which wheel files are mirrored.
	Wheels wheel.Policy `yaml:"wheels,omitempty"`
}

// DefaultSettings returns the configuration used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{Remote: DefaultRemote}
}

// LoadSettings reads root/pickup.yaml. A missing file yields defaults; a
// malformed file is an error since silently ignoring it would mirror the
// wrong artifacts.
func LoadSettings(root string) (Settings, error) {
	settings := DefaultSettings()
	data, err := os.ReadFile(filepath.Join(root, SettingsFilename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse settings: %w", err)
	}
	if settings.Remote == "" {
		settings.Remote = DefaultRemote
	}
	if settings.Remote[len(settings.Remote)-1] != '/' {
		settings.Remote += "/"
	}
	return settings, nil
}

// SaveSettings writes the settings file under root. The write is atomic: a
// concurrent watch sweep sees either the old or the new content, never a
// partial file.
func SaveSettings(rt *toolkit.Runtime, root string, settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create repo root: %w", err)
	}
	path := filepath.Join(root, SettingsFilename)
	if err := rt.AtomicWriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
