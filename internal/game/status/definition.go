package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the display text for one status, loaded from YAML.
type Definition struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Registry holds the Definition of every status keyed by Status.
type Registry struct {
	defs map[Status]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Status]*Definition)}
}

// Register adds def to the registry, overwriting any existing entry for the
// same status.
//
// Precondition: def must not be nil.
// Postcondition: Returns an error if def.ID does not name a known status.
func (r *Registry) Register(def *Definition) error {
	s, err := Parse(def.ID)
	if err != nil {
		return err
	}
	r.defs[s] = def
	return nil
}

// Get returns the Definition for s, or (nil, false) if none was registered.
func (r *Registry) Get(s Status) (*Definition, bool) {
	d, ok := r.defs[s]
	return d, ok
}

// DisplayName returns the registered name of s, falling back to its code name.
func (r *Registry) DisplayName(s Status) string {
	if d, ok := r.defs[s]; ok && d.Name != "" {
		return d.Name
	}
	return s.String()
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Definition,
// and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to
// parse or names an unknown status.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading status dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := reg.Register(&def); err != nil {
			return nil, fmt.Errorf("registering %q: %w", path, err)
		}
	}
	return reg, nil
}
