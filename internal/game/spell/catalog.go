package spell

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arcana/internal/game/magic"
	"github.com/cory-johannsen/arcana/internal/game/status"
)

// ErrUnknownSpell is returned when a catalog lookup misses.
var ErrUnknownSpell = errors.New("unknown spell")

type catalogFile struct {
	Spells []spellDef `yaml:"spells"`
}

type spellDef struct {
	ID         string      `yaml:"id"`
	Index      int         `yaml:"index"`
	Name       string      `yaml:"name"`
	Learnable  bool        `yaml:"learnable"`
	Glyph      string      `yaml:"glyph"`
	GlyphPower uint16      `yaml:"glyph_power"`
	Style      string      `yaml:"style"`
	StylePower uint16      `yaml:"style_power"`
	Priority   priorityDef `yaml:"priority"`
	Target     targetDef   `yaml:"target"`
	Effects    []effectDef `yaml:"effects"`
}

type priorityDef struct {
	Mode string   `yaml:"mode"` // "single" | "or" | "and"; empty = single
	Of   []string `yaml:"of"`
}

type targetDef struct {
	Kind  string `yaml:"kind"` // "self" | "ally" | "enemy"
	Count uint8  `yaml:"count"`
}

type effectDef struct {
	Magnitude uint16      `yaml:"magnitude"`
	Duration  durationDef `yaml:"duration"`
	Apply     applyDef    `yaml:"apply"`
}

type durationDef struct {
	Kind   string `yaml:"kind"` // empty = instant
	Length uint16 `yaml:"length"`
	Step   uint16 `yaml:"step"`
}

type applyDef struct {
	Kind     string `yaml:"kind"`
	Status   string `yaml:"status"`
	Duration uint16 `yaml:"duration"`
}

// Catalog is the ordered table of every spell. A spell's position in the
// table is its Index and is what the wire format stores.
type Catalog struct {
	spells []Spell
	byID   map[string]int
}

// NewCatalog builds a Catalog from spells already carrying dense indices.
//
// Precondition: spells[i].Index == i for every i, and IDs are unique.
// Postcondition: Returns an error on the first violated precondition.
func NewCatalog(spells []Spell) (*Catalog, error) {
	c := &Catalog{spells: make([]Spell, len(spells)), byID: make(map[string]int, len(spells))}
	for i, s := range spells {
		if s.Index != i {
			return nil, fmt.Errorf("spell %q: index %d, want %d", s.ID, s.Index, i)
		}
		if s.ID == "" {
			return nil, fmt.Errorf("spell at index %d: id must not be empty", i)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("spell %q: duplicate id", s.ID)
		}
		c.spells[i] = s
		c.byID[s.ID] = i
	}
	return c, nil
}

// Len returns the number of spells.
func (c *Catalog) Len() int { return len(c.spells) }

// Get returns a copy of the spell at index.
func (c *Catalog) Get(index int) (Spell, bool) {
	if index < 0 || index >= len(c.spells) {
		return Spell{}, false
	}
	return c.spells[index].WithStyle(c.spells[index].Style), true
}

// ByID returns a copy of the spell with the given catalog key.
func (c *Catalog) ByID(id string) (Spell, error) {
	i, ok := c.byID[id]
	if !ok {
		return Spell{}, fmt.Errorf("%w: %q", ErrUnknownSpell, id)
	}
	s, _ := c.Get(i)
	return s, nil
}

// Lookup returns the first spell whose display name is name.
func (c *Catalog) Lookup(name string) (Spell, error) {
	for i := range c.spells {
		if c.spells[i].Name == name {
			s, _ := c.Get(i)
			return s, nil
		}
	}
	return Spell{}, fmt.Errorf("%w: %q", ErrUnknownSpell, name)
}

// Name returns the display name stored at index.
func (c *Catalog) Name(index int) (string, bool) {
	if index < 0 || index >= len(c.spells) {
		return "", false
	}
	return c.spells[index].Name, true
}

// Names returns the ordered name table.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.spells))
	for i, s := range c.spells {
		out[i] = s.Name
	}
	return out
}

// ByStyle returns the learnable spells of style in index order.
func (c *Catalog) ByStyle(style magic.Style) []Spell {
	var out []Spell
	for i := range c.spells {
		if c.spells[i].Learnable && c.spells[i].Style == style {
			s, _ := c.Get(i)
			out = append(out, s)
		}
	}
	return out
}

// LoadCatalog reads every *.yaml file in dir and assembles the catalog ordered
// by each spell's declared index.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Catalog whose indices are dense from 0, or an error
// naming the first file or spell that fails to parse or validate.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading spell dir %q: %w", dir, err)
	}
	var spells []Spell
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		loaded, err := LoadSpellsFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		spells = append(spells, loaded...)
	}
	sort.SliceStable(spells, func(i, j int) bool { return spells[i].Index < spells[j].Index })
	return NewCatalog(spells)
}

// LoadSpellsFromBytes parses one catalog file.
//
// Postcondition: Returns the validated spells in file order, or an error.
func LoadSpellsFromBytes(data []byte) ([]Spell, error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing spell YAML: %w", err)
	}
	out := make([]Spell, 0, len(file.Spells))
	for _, def := range file.Spells {
		s, err := def.build()
		if err != nil {
			return nil, fmt.Errorf("spell %q: %w", def.ID, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (d spellDef) build() (Spell, error) {
	if d.ID == "" {
		return Spell{}, errors.New("id must not be empty")
	}
	if d.Name == "" {
		return Spell{}, errors.New("name must not be empty")
	}
	if d.Index < 0 {
		return Spell{}, fmt.Errorf("index must be >= 0, got %d", d.Index)
	}
	glyph, err := magic.ParseGlyph(d.Glyph)
	if err != nil {
		return Spell{}, err
	}
	style, err := magic.ParseStyle(d.Style)
	if err != nil {
		return Spell{}, err
	}
	priority, err := d.Priority.build()
	if err != nil {
		return Spell{}, err
	}
	target, err := d.Target.build()
	if err != nil {
		return Spell{}, err
	}
	if len(d.Effects) > MaxEffects {
		return Spell{}, fmt.Errorf("at most %d effects allowed, got %d", MaxEffects, len(d.Effects))
	}
	var effects []Effect
	for i, ed := range d.Effects {
		eff, err := ed.build()
		if err != nil {
			return Spell{}, fmt.Errorf("effect %d: %w", i+1, err)
		}
		effects = append(effects, eff)
	}
	return Spell{
		ID:         d.ID,
		Name:       d.Name,
		Index:      d.Index,
		Learnable:  d.Learnable,
		Glyph:      glyph,
		GlyphPower: d.GlyphPower,
		Style:      style,
		StylePower: d.StylePower,
		Ability:    Ability{Priority: priority, Target: target, Effects: effects},
	}, nil
}

func (d priorityDef) build() (Priorities, error) {
	parsed := make([]Priority, 0, len(d.Of))
	for _, text := range d.Of {
		p, err := ParsePriority(text)
		if err != nil {
			return Priorities{}, err
		}
		parsed = append(parsed, p)
	}
	switch d.Mode {
	case "", "single":
		if len(parsed) != 1 {
			return Priorities{}, fmt.Errorf("single priority needs 1 predicate, got %d", len(parsed))
		}
		return SinglePriority(parsed[0]), nil
	case "or", "and":
		if len(parsed) != 2 {
			return Priorities{}, fmt.Errorf("%s priority needs 2 predicates, got %d", d.Mode, len(parsed))
		}
		if d.Mode == "or" {
			return OrPriority(parsed[0], parsed[1]), nil
		}
		return AndPriority(parsed[0], parsed[1]), nil
	}
	return Priorities{}, fmt.Errorf("unknown priority mode %q", d.Mode)
}

func (d targetDef) build() (TargetType, error) {
	switch d.Kind {
	case "self":
		return Self(), nil
	case "ally":
		return Allies(d.Count), nil
	case "enemy":
		return Enemies(d.Count), nil
	}
	return TargetType{}, fmt.Errorf("unknown target kind %q", d.Kind)
}

func (d effectDef) build() (Effect, error) {
	var dur Duration
	switch d.Duration.Kind {
	case "", "instant":
		dur = InstantDuration()
	case "over_time":
		dur = OverTimeDuration(d.Duration.Length)
	case "after_x_time":
		dur = AfterXTimeDuration(d.Duration.Length)
	case "growth":
		dur = GrowthDuration(d.Duration.Length, d.Duration.Step)
	default:
		return Effect{}, fmt.Errorf("unknown duration kind %q", d.Duration.Kind)
	}
	var app Application
	switch d.Apply.Kind {
	case "damage":
		app = DamageApplication()
	case "heal":
		app = HealApplication()
	case "status", "remove_status":
		s, err := status.Parse(d.Apply.Status)
		if err != nil {
			return Effect{}, err
		}
		if d.Apply.Kind == "status" {
			app = StatusApplication(s, d.Apply.Duration)
		} else {
			app = RemoveStatusApplication(s)
		}
	default:
		return Effect{}, fmt.Errorf("unknown application kind %q", d.Apply.Kind)
	}
	return Effect{Magnitude: d.Magnitude, Duration: dur, Application: app}, nil
}
