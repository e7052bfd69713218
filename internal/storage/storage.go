package storage

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/fitsview/internal/colormap"
	"github.com/ensigniasec/fitsview/internal/validate"
)

const (
	DefaultPath      = "~/.config/fitsview/config.yaml"
	DefaultZoomWidth = 250.0
	DefaultBins      = 100
	// MaxRecent bounds the recently opened files list.
	MaxRecent = 10
)

// Preferences represents the structure of the preferences file.
type Preferences struct {
	ZoomWidth   float64  `yaml:"zoom_width" validate:"gte=2,lte=100000"`
	Bins        int      `yaml:"bins" validate:"gte=1,lte=4096"`
	Colormap    string   `yaml:"colormap" validate:"colormap"`
	SnapshotDir string   `yaml:"snapshot_dir,omitempty"`
	Recent      []string `yaml:"recent,omitempty" validate:"max=10,dive,required"`
	InstallID   string   `yaml:"install_id,omitempty" validate:"omitempty,uuid4"`
}

// Defaults returns the preferences used when no file exists.
func Defaults() Preferences {
	return Preferences{
		ZoomWidth: DefaultZoomWidth,
		Bins:      DefaultBins,
		Colormap:  colormap.Default,
	}
}

// Storage handles the loading and saving of the preferences file.
type Storage struct {
	Path string `validate:"required,filepath"`
	Data Preferences
}

// NewStorage creates a new Storage instance, loading path if it exists.
func NewStorage(path string) (*Storage, error) {
	expandedPath, err := ExpandTilde(path)
	if err != nil {
		return nil, err
	}

	s := &Storage{Path: expandedPath, Data: Defaults()}
	if err := validate.Struct(s); err != nil {
		return nil, err
	}

	if err := s.Load(); err != nil {
		// If the file doesn't exist, we can ignore the error.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if s.Data.InstallID == "" {
		s.Data.InstallID = uuid.NewString()
	}

	return s, nil
}

// NewOrExistingStorage returns existing storage if the file exists, or creates a new one otherwise.
// When creating a new storage, it writes the defaults to disk immediately.
func NewOrExistingStorage(path string) (*Storage, error) {
	expandedPath, err := ExpandTilde(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(expandedPath); err == nil {
		return NewStorage(path)
	} else if os.IsNotExist(err) {
		s, err := NewStorage(path)
		if err != nil {
			return nil, err
		}
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, err
}

// Load reads the preferences file. Invalid values are reset to their defaults
// and the healed file is written back.
func (s *Storage) Load() error {
	logrus.Debug("Loading preferences from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, &s.Data); err != nil {
		return err
	}

	if err := validate.Struct(s.Data); err != nil {
		if s.heal() {
			if err := s.Save(); err != nil {
				return err
			}
		}
	}
	return nil
}

// heal resets every invalid field and reports whether anything changed.
func (s *Storage) heal() bool {
	def := Defaults()
	changed := false
	if validate.Var(s.Data.ZoomWidth, "gte=2,lte=100000") != nil {
		logrus.Warnf("Invalid zoom_width %v in preferences; resetting to %v.", s.Data.ZoomWidth, def.ZoomWidth)
		s.Data.ZoomWidth = def.ZoomWidth
		changed = true
	}
	if validate.Var(s.Data.Bins, "gte=1,lte=4096") != nil {
		logrus.Warnf("Invalid bins %d in preferences; resetting to %d.", s.Data.Bins, def.Bins)
		s.Data.Bins = def.Bins
		changed = true
	}
	if validate.Var(s.Data.Colormap, "colormap") != nil {
		logrus.Warnf("Unknown colormap %q in preferences; resetting to %q.", s.Data.Colormap, def.Colormap)
		s.Data.Colormap = def.Colormap
		changed = true
	}
	if validate.Var(s.Data.Recent, "max=10,dive,required") != nil {
		kept := make([]string, 0, MaxRecent)
		for _, p := range s.Data.Recent {
			if p != "" && len(kept) < MaxRecent {
				kept = append(kept, p)
			}
		}
		s.Data.Recent = kept
		changed = true
	}
	if s.Data.InstallID != "" && validate.Var(s.Data.InstallID, "uuid4") != nil {
		s.Data.InstallID = uuid.NewString()
		changed = true
	}
	return changed
}

// Save writes the preferences to the file.
func (s *Storage) Save() error {
	logrus.Debug("Saving preferences to: ", s.Path)
	// Ensure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(s.Data)
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// ExpandTilde expands a leading tilde in a path to the user's home directory.
func ExpandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
