package monster

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arcana/internal/game/spell"
)

// Entry is the YAML definition of one monster type's innate abilities.
type Entry struct {
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Abilities   []string `yaml:"abilities"` // spell catalog ids
}

// Validate checks that the entry names a known type.
//
// Postcondition: Returns nil iff Type parses as a Kind.
func (e *Entry) Validate() error {
	if _, err := ParseKind(e.Type); err != nil {
		return fmt.Errorf("bestiary entry: %w", err)
	}
	return nil
}

// Bestiary maps every monster type to its innate abilities.
type Bestiary struct {
	abilities [KindCount][]spell.Spell
}

// NewBestiary returns an empty Bestiary; every kind has no abilities.
func NewBestiary() *Bestiary {
	return &Bestiary{}
}

// Set replaces the innate abilities of k.
func (b *Bestiary) Set(k Kind, abilities []spell.Spell) {
	b.abilities[k] = abilities
}

// Abilities returns the innate abilities of k as authored.
func (b *Bestiary) Abilities(k Kind) []spell.Spell {
	if b == nil || !k.Valid() {
		return nil
	}
	return b.abilities[k]
}

// LoadEntryFromBytes parses a single bestiary entry from raw YAML bytes.
//
// Postcondition: Returns a validated *Entry, or an error.
func LoadEntryFromBytes(data []byte) (*Entry, error) {
	var e Entry
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("parsing bestiary YAML: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// LoadBestiary reads every *.yaml file in dir and resolves each entry's
// ability ids against cat.
//
// Precondition: dir must be a readable directory; cat must not be nil.
// Postcondition: Returns a Bestiary or an error on the first parse, validate or
// lookup failure. Types without a file have no abilities.
func LoadBestiary(dir string, cat *spell.Catalog) (*Bestiary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading monster dir %q: %w", dir, err)
	}
	b := NewBestiary()
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		entry, err := LoadEntryFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		kind, _ := ParseKind(entry.Type)
		var abilities []spell.Spell
		for _, id := range entry.Abilities {
			s, err := cat.ByID(id)
			if err != nil {
				return nil, fmt.Errorf("loading %q: %w", path, err)
			}
			abilities = append(abilities, s)
		}
		b.Set(kind, abilities)
	}
	return b, nil
}
