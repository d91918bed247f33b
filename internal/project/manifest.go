package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"lowerjs/internal/modules"
)

// ModuleSection is [module]: the output format plus the lowering config.
type ModuleSection struct {
	Format         string `toml:"format" yaml:"format"`
	modules.Config `yaml:",inline"`
}

// BuildSection is [build].
type BuildSection struct {
	OutDir string `toml:"out_dir" yaml:"out_dir"`
	Jobs   int    `toml:"jobs" yaml:"jobs"`
	Cache  bool   `toml:"cache" yaml:"cache"`
	// Resolve completes extensionless relative specifiers from disk.
	Resolve bool `toml:"resolve" yaml:"resolve"`
}

// Manifest is a parsed lowerjs.toml or lowerjs.yaml.
type Manifest struct {
	Path   string        `toml:"-" yaml:"-"`
	Module ModuleSection `toml:"module" yaml:"module"`
	Build  BuildSection  `toml:"build" yaml:"build"`
}

var ErrUnknownKeys = errors.New("unknown keys")

// Default is the manifest used when no project file exists.
func Default() Manifest {
	return Manifest{
		Module: ModuleSection{Format: "commonjs", Config: modules.DefaultConfig()},
		Build:  BuildSection{OutDir: "dist"},
	}
}

// Load reads the manifest at path. Keys it does not set keep the values of
// Default; unknown keys are an error.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	m := Default()
	m.Path = path
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = decodeTOML(data, &m)
	case ".yaml", ".yml":
		err = decodeYAML(bytes.NewReader(data), &m)
	default:
		err = fmt.Errorf("unsupported manifest type %q", filepath.Ext(path))
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func decodeTOML(data []byte, m *Manifest) error {
	meta, err := toml.Decode(string(data), m)
	if err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(r io.Reader, m *Manifest) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// Validate checks values the decoders cannot.
func (m Manifest) Validate() error {
	switch m.Module.Format {
	case "commonjs", "cjs", "amd":
	default:
		return fmt.Errorf("[module].format: unknown format %q (expected commonjs|amd)", m.Module.Format)
	}
	if m.Build.Jobs < 0 {
		return fmt.Errorf("[build].jobs: must not be negative")
	}
	return nil
}

// OutDir resolves [build].out_dir against the manifest directory.
func (m Manifest) OutDir() string {
	if m.Build.OutDir == "" || filepath.IsAbs(m.Build.OutDir) || m.Path == "" {
		return m.Build.OutDir
	}
	return filepath.Join(filepath.Dir(m.Path), m.Build.OutDir)
}

// Encode writes m as TOML.
func (m Manifest) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(m)
}
