package modules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config drives the lowering of one module. The zero value is not the
// default; use DefaultConfig.
type Config struct {
	// Strict suppresses the __esModule marker.
	Strict bool `json:"strict" toml:"strict" yaml:"strict"`
	// StrictMode emits a "use strict" prologue unless one is present.
	StrictMode bool `json:"strict_mode" toml:"strict_mode" yaml:"strict_mode"`
	Lazy       Lazy `json:"lazy" toml:"lazy" yaml:"lazy"`
	// NoInterop requires modules as they are, without interop helpers.
	NoInterop bool `json:"no_interop" toml:"no_interop" yaml:"no_interop"`
	// IgnoreDynamic leaves import() calls untouched.
	IgnoreDynamic bool `json:"ignore_dynamic" toml:"ignore_dynamic" yaml:"ignore_dynamic"`
	// ModuleID names the AMD module; empty means anonymous.
	ModuleID string `json:"module_id,omitempty" toml:"module_id" yaml:"module_id"`
}

func DefaultConfig() Config {
	return Config{StrictMode: true}
}

// DecodeConfig reads a JSON configuration on top of the defaults. Unknown
// fields are rejected.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("module config: %w", err)
	}
	return cfg, nil
}

// Lazy is the lazy-require policy: either a flag or an explicit list of
// specifiers. A non-nil List takes precedence over All.
type Lazy struct {
	All  bool
	List []string
}

// LazyList builds a list policy; with no specifiers nothing is lazy.
func LazyList(srcs ...string) Lazy {
	if srcs == nil {
		srcs = []string{}
	}
	return Lazy{List: srcs}
}

// IsLazy reports whether the module src is required on first use.
// Relative specifiers are never lazy under the flag policy.
func (l Lazy) IsLazy(src string) bool {
	if l.List != nil {
		return slices.Contains(l.List, src)
	}
	return l.All && !strings.HasPrefix(src, ".")
}

func (l Lazy) String() string {
	if l.List != nil {
		return "[" + strings.Join(l.List, ", ") + "]"
	}
	if l.All {
		return "true"
	}
	return "false"
}

func (l Lazy) MarshalJSON() ([]byte, error) {
	if l.List != nil {
		return json.Marshal(l.List)
	}
	return json.Marshal(l.All)
}

func (l *Lazy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("lazy: %w", err)
		}
		*l = LazyList(list...)
		return nil
	}
	var all bool
	if err := json.Unmarshal(data, &all); err != nil {
		return fmt.Errorf("lazy: expected a boolean or a list of specifiers")
	}
	*l = Lazy{All: all}
	return nil
}

// MarshalTOML implements toml.Marshaler.
func (l Lazy) MarshalTOML() ([]byte, error) {
	if l.List == nil {
		return []byte(strconv.FormatBool(l.All)), nil
	}
	quoted := make([]string, len(l.List))
	for i, s := range l.List {
		quoted[i] = strconv.Quote(s)
	}
	return []byte("[" + strings.Join(quoted, ", ") + "]"), nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (l *Lazy) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case bool:
		*l = Lazy{All: v}
		return nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("lazy: list item %v is not a string", item)
			}
			list = append(list, s)
		}
		*l = LazyList(list...)
		return nil
	default:
		return fmt.Errorf("lazy: expected a boolean or a list of specifiers, got %T", v)
	}
}

func (l Lazy) MarshalYAML() (any, error) {
	if l.List != nil {
		return l.List, nil
	}
	return l.All, nil
}

func (l *Lazy) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("lazy: %w", err)
		}
		*l = LazyList(list...)
		return nil
	case yaml.ScalarNode:
		var all bool
		if err := node.Decode(&all); err != nil {
			return fmt.Errorf("lazy: line %d: expected a boolean", node.Line)
		}
		*l = Lazy{All: all}
		return nil
	default:
		return fmt.Errorf("lazy: line %d: expected a boolean or a list of specifiers", node.Line)
	}
}
