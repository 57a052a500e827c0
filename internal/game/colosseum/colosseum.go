// Package colosseum provides the registry that owns every wizard, monster,
// battle and party, addressed by generational handles.
package colosseum

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/monster"
	"github.com/cory-johannsen/arcana/internal/game/slotmap"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/game/wizard"
)

var (
	// ErrStaleHandle is returned when a handle no longer addresses a live entry.
	ErrStaleHandle = errors.New("stale handle")
	// ErrBattleActive is returned when retiring a battle that has not concluded.
	ErrBattleActive = errors.New("battle has not concluded")
)

// Party is a named group of wizards.
type Party struct {
	ID      uuid.UUID
	Members []slotmap.Handle
}

// Colosseum is the registry of every combatant, battle and party.
// It is not safe for concurrent use.
type Colosseum struct {
	Wizards  *slotmap.Map[wizard.Wizard]
	Monsters *slotmap.Map[monster.Monster]
	Battles  *slotmap.Map[battle.Battle]
	Parties  *slotmap.Map[Party]

	bestiary *monster.Bestiary
}

// New returns an empty registry whose monsters draw their abilities from b.
// A nil bestiary leaves every monster without abilities.
func New(b *monster.Bestiary) *Colosseum {
	return &Colosseum{
		Wizards:  slotmap.New[wizard.Wizard](),
		Monsters: slotmap.New[monster.Monster](),
		Battles:  slotmap.New[battle.Battle](),
		Parties:  slotmap.New[Party](),
		bestiary: b,
	}
}

// Bestiary returns the innate ability table used for monsters.
func (c *Colosseum) Bestiary() *monster.Bestiary { return c.bestiary }

// AddWizard registers w.
func (c *Colosseum) AddWizard(w *wizard.Wizard) slotmap.Handle { return c.Wizards.Insert(w) }

// AddMonster registers m.
func (c *Colosseum) AddMonster(m *monster.Monster) slotmap.Handle { return c.Monsters.Insert(m) }

// AddBattle registers b as is.
func (c *Colosseum) AddBattle(b *battle.Battle) slotmap.Handle { return c.Battles.Insert(b) }

// Wizard returns the wizard addressed by h.
func (c *Colosseum) Wizard(h slotmap.Handle) (*wizard.Wizard, error) {
	w, ok := c.Wizards.Get(h)
	if !ok {
		return nil, fmt.Errorf("wizard %s: %w", h, ErrStaleHandle)
	}
	return w, nil
}

// Monster returns the monster addressed by h.
func (c *Colosseum) Monster(h slotmap.Handle) (*monster.Monster, error) {
	m, ok := c.Monsters.Get(h)
	if !ok {
		return nil, fmt.Errorf("monster %s: %w", h, ErrStaleHandle)
	}
	return m, nil
}

// Battle returns the battle addressed by h.
func (c *Colosseum) Battle(h slotmap.Handle) (*battle.Battle, error) {
	b, ok := c.Battles.Get(h)
	if !ok {
		return nil, fmt.Errorf("battle %s: %w", h, ErrStaleHandle)
	}
	return b, nil
}

// Party returns the party addressed by h.
func (c *Colosseum) Party(h slotmap.Handle) (*Party, error) {
	p, ok := c.Parties.Get(h)
	if !ok {
		return nil, fmt.Errorf("party %s: %w", h, ErrStaleHandle)
	}
	return p, nil
}

// Combatant implements battle.Registry. It panics on a stale handle.
func (c *Colosseum) Combatant(side battle.Side, h slotmap.Handle) battle.Combatant {
	if side == battle.Wizards {
		return c.Wizards.MustGet(h)
	}
	return c.Monsters.MustGet(h)
}

// Spells implements battle.Registry: a wizard's selected spellbook or a
// monster's innate abilities. It panics on a stale handle.
func (c *Colosseum) Spells(side battle.Side, h slotmap.Handle) []spell.Spell {
	if side == battle.Wizards {
		return c.Wizards.MustGet(h).Spells()
	}
	return c.Monsters.MustGet(h).Abilities(c.bestiary)
}

// StartBattle registers a new battle between the given rosters.
//
// Precondition: every handle addresses a registered combatant.
// Postcondition: Returns ErrStaleHandle without registering anything if any
// handle is stale.
func (c *Colosseum) StartBattle(wizards, monsters []slotmap.Handle) (slotmap.Handle, error) {
	for _, h := range wizards {
		if _, err := c.Wizard(h); err != nil {
			return slotmap.Handle{}, fmt.Errorf("starting battle: %w", err)
		}
	}
	for _, h := range monsters {
		if _, err := c.Monster(h); err != nil {
			return slotmap.Handle{}, fmt.Errorf("starting battle: %w", err)
		}
	}
	return c.Battles.Insert(battle.New(wizards, monsters)), nil
}

// NewParty registers a party of the given wizards under a fresh id.
func (c *Colosseum) NewParty(members ...slotmap.Handle) (slotmap.Handle, error) {
	return c.AddParty(uuid.New(), members...)
}

// AddParty registers a party with a known id.
//
// Postcondition: Returns ErrStaleHandle if any member is not a registered wizard.
func (c *Colosseum) AddParty(id uuid.UUID, members ...slotmap.Handle) (slotmap.Handle, error) {
	for _, h := range members {
		if _, err := c.Wizard(h); err != nil {
			return slotmap.Handle{}, fmt.Errorf("adding party %s: %w", id, err)
		}
	}
	return c.Parties.Insert(&Party{ID: id, Members: append([]slotmap.Handle(nil), members...)}), nil
}

// Retire archives a concluded battle into dead and removes it, together with
// the combatants that fell in it, from c. The archived battle references
// copies of all of its participants registered in dead; survivors stay in c.
//
// Precondition: dead must not be c.
// Postcondition: Returns the archived battle's handle in dead, ErrStaleHandle
// for an unknown battle, or ErrBattleActive if it has not concluded.
func (c *Colosseum) Retire(h slotmap.Handle, dead *Colosseum) (slotmap.Handle, error) {
	b, err := c.Battle(h)
	if err != nil {
		return slotmap.Handle{}, fmt.Errorf("retiring: %w", err)
	}
	if !b.Concluded() {
		return slotmap.Handle{}, fmt.Errorf("retiring battle %s: %w", h, ErrBattleActive)
	}

	archived := *b
	archived.Allies = make([]slotmap.Handle, len(b.Allies))
	for i, wh := range b.Allies {
		archived.Allies[i] = dead.AddWizard(c.Wizards.MustGet(wh).Clone())
	}
	archived.Enemies = make([]slotmap.Handle, len(b.Enemies))
	for i, mh := range b.Enemies {
		m := *c.Monsters.MustGet(mh)
		archived.Enemies[i] = dead.AddMonster(&m)
	}
	archivedHandle := dead.AddBattle(&archived)

	for _, pos := range b.Fallen(battle.Wizards) {
		c.Wizards.Remove(b.Allies[pos])
	}
	c.Parties.Each(func(_ slotmap.Handle, p *Party) {
		p.Members = slices.DeleteFunc(p.Members, func(m slotmap.Handle) bool {
			_, ok := c.Wizards.Get(m)
			return !ok
		})
	})
	for _, pos := range b.Fallen(battle.Monsters) {
		c.Monsters.Remove(b.Enemies[pos])
	}
	c.Battles.Remove(h)
	return archivedHandle, nil
}

// Membership places a combatant at a position inside a battle roster or party.
type Membership struct {
	Container slotmap.Handle
	Position  int
}

// Associations is the reverse index from combatants to the containers that
// hold them.
type Associations struct {
	WizardBattles  map[slotmap.Handle][]Membership
	WizardParties  map[slotmap.Handle][]Membership
	MonsterBattles map[slotmap.Handle][]Membership
}

// Associations rebuilds the reverse index, visiting containers in slot order.
func (c *Colosseum) Associations() Associations {
	a := Associations{
		WizardBattles:  make(map[slotmap.Handle][]Membership),
		WizardParties:  make(map[slotmap.Handle][]Membership),
		MonsterBattles: make(map[slotmap.Handle][]Membership),
	}
	c.Battles.Each(func(bh slotmap.Handle, b *battle.Battle) {
		for pos, wh := range b.Allies {
			a.WizardBattles[wh] = append(a.WizardBattles[wh], Membership{Container: bh, Position: pos})
		}
		for pos, mh := range b.Enemies {
			a.MonsterBattles[mh] = append(a.MonsterBattles[mh], Membership{Container: bh, Position: pos})
		}
	})
	c.Parties.Each(func(ph slotmap.Handle, p *Party) {
		for pos, wh := range p.Members {
			a.WizardParties[wh] = append(a.WizardParties[wh], Membership{Container: ph, Position: pos})
		}
	})
	return a
}
