// Package profile stores named orientation presets in a YAML file, so a
// frequently used rotation can be applied by name instead of by angle.
package profile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/displayops/pivot/internal/config"
	"github.com/displayops/pivot/internal/display"
)

// Profile is one named preset.
type Profile struct {
	// Orientation is the angle selector, one of "0", "90", "180", "270".
	Orientation string `yaml:"orientation"`

	// Display optionally pins the preset to a display target. Empty uses
	// the invocation's target.
	Display string `yaml:"display,omitempty"`
}

type file struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// DefaultPath returns the profiles file location under the config directory.
func DefaultPath() string {
	return filepath.Join(config.Dir(), "profiles.yaml")
}

// Load reads the profiles file. A missing file is not an error and yields an
// empty set.
func Load(path string) (map[string]Profile, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Profile{}, nil
		}
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for name, p := range f.Profiles {
		if _, err := display.ParseOrientation(p.Orientation); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}

	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
	return f.Profiles, nil
}

// Resolve looks up a profile by name and returns its orientation and display
// override.
func Resolve(profiles map[string]Profile, name string) (display.Orientation, string, error) {
	p, ok := profiles[name]
	if !ok {
		return display.Landscape, "", fmt.Errorf("unknown profile %q", name)
	}
	o, err := display.ParseOrientation(p.Orientation)
	if err != nil {
		return display.Landscape, "", err
	}
	return o, p.Display, nil
}

// Names returns the profile names sorted for stable listing.
func Names(profiles map[string]Profile) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
