// Package project loads the sigil.toml manifest that configures a
// checking run: package identity and checker knobs.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up in the project root and its parents.
const ManifestName = "sigil.toml"

// ErrNoManifest is returned when no sigil.toml is found walking upward.
var ErrNoManifest = errors.New("project: sigil.toml not found")

// Manifest is the parsed sigil.toml.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Check   CheckSection   `toml:"check"`
}

// PackageSection identifies the project.
type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// CheckSection tunes the checker.
type CheckSection struct {
	// MaxDiagnostics caps the number of reported diagnostics per run.
	MaxDiagnostics int `toml:"max_diagnostics"`
	// WarningsAsErrors makes any warning fail the run.
	WarningsAsErrors bool `toml:"warnings_as_errors"`
}

// Default returns the manifest used when no sigil.toml exists.
func Default() Manifest {
	return Manifest{
		Package: PackageSection{Name: "unnamed"},
		Check:   CheckSection{MaxDiagnostics: 100},
	}
}

// Load parses a manifest file and fills in defaults for omitted values.
func Load(path string) (Manifest, error) {
	m := Default()
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Default(), fmt.Errorf("project: parse %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("project: %s: unknown key %q", path, undecoded[0].String())
	}
	if err := m.validate(); err != nil {
		return Default(), fmt.Errorf("project: %s: %w", path, err)
	}
	return m, nil
}

func (m Manifest) validate() error {
	if m.Package.Name == "" {
		return errors.New("package.name must not be empty")
	}
	if m.Check.MaxDiagnostics < 0 {
		return errors.New("check.max_diagnostics must not be negative")
	}
	return nil
}

// Find walks from dir upward until it meets a sigil.toml, returning its
// path. The search stops at the filesystem root.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoManifest
		}
		dir = parent
	}
}

// LoadOrDefault resolves the manifest for dir, falling back to defaults
// when none exists. Parse failures are still errors: a broken manifest
// should never be silently ignored.
func LoadOrDefault(dir string) (Manifest, error) {
	path, err := Find(dir)
	if errors.Is(err, ErrNoManifest) {
		return Default(), nil
	}
	if err != nil {
		return Default(), err
	}
	return Load(path)
}
