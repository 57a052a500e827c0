package persistence

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/cory-johannsen/arcana/internal/codec"
	"github.com/cory-johannsen/arcana/internal/game/battle"
	"github.com/cory-johannsen/arcana/internal/game/colosseum"
	"github.com/cory-johannsen/arcana/internal/game/monster"
	"github.com/cory-johannsen/arcana/internal/game/slotmap"
	"github.com/cory-johannsen/arcana/internal/game/spell"
	"github.com/cory-johannsen/arcana/internal/game/wizard"
)

// Codec reads and writes roster files against one spell catalog and bestiary.
type Codec struct {
	catalog  *spell.Catalog
	bestiary *monster.Bestiary
}

// NewCodec creates a Codec. Decoded registries draw monster abilities from
// bestiary.
//
// Precondition: catalog must not be nil.
func NewCodec(catalog *spell.Catalog, bestiary *monster.Bestiary) *Codec {
	return &Codec{catalog: catalog, bestiary: bestiary}
}

// Catalog returns the spell catalog spells are resolved against.
func (c *Codec) Catalog() *spell.Catalog { return c.catalog }

// ordinals maps the live handles of a slot map to their position in slot order.
func ordinals(hs []slotmap.Handle) map[slotmap.Handle]int {
	out := make(map[slotmap.Handle]int, len(hs))
	for i, h := range hs {
		out[h] = i
	}
	return out
}

// Encode writes col as a roster file: battles, parties, wizards with their
// battle and party associations, then monsters with their battle associations.
// Containers are referenced by their ordinal in the file.
//
// Postcondition: Returns an error only for a monster name longer than 255 bytes.
func (c *Codec) Encode(col *colosseum.Colosseum) ([]byte, error) {
	w := codec.NewWriter(4096)
	assoc := col.Associations()
	battleHandles := col.Battles.Handles()
	partyHandles := col.Parties.Handles()
	battleOrd := ordinals(battleHandles)
	partyOrd := ordinals(partyHandles)

	w.Int(len(battleHandles))
	for _, h := range battleHandles {
		rec := codec.NewWriter(256)
		writeBattle(rec, col.Battles.MustGet(h))
		w.Block(rec.Bytes())
	}

	w.Int(len(partyHandles))
	for _, h := range partyHandles {
		id := col.Parties.MustGet(h).ID
		w.Block(id[:])
	}

	wizards := col.Wizards.Handles()
	w.Int(len(wizards))
	for _, h := range wizards {
		rec := codec.NewWriter(256)
		writeWizard(rec, col.Wizards.MustGet(h))
		w.Block(rec.Bytes())
		writeMemberships(w, assoc.WizardBattles[h], battleOrd)
		writeMemberships(w, assoc.WizardParties[h], partyOrd)
	}

	monsters := col.Monsters.Handles()
	w.Int(len(monsters))
	for _, h := range monsters {
		m := col.Monsters.MustGet(h)
		rec := codec.NewWriter(128)
		if err := writeMonster(rec, m); err != nil {
			return nil, fmt.Errorf("encoding monster %s: %w", h, err)
		}
		w.Block(rec.Bytes())
		writeMemberships(w, assoc.MonsterBattles[h], battleOrd)
	}
	return w.Bytes(), nil
}

func writeMemberships(w *codec.Writer, ms []colosseum.Membership, ord map[slotmap.Handle]int) {
	w.Int(len(ms))
	for _, m := range ms {
		w.Int(ord[m.Container])
		w.Int(m.Position)
	}
}

// Decode reads a roster file into a fresh registry. Roster and party
// membership is rebuilt from the association blocks.
//
// Postcondition: Returns an error matching codec.ErrInvalidData for any
// malformed field, dangling association or unfilled roster slot; nothing is
// returned on failure.
func (c *Codec) Decode(data []byte) (*colosseum.Colosseum, error) {
	col := colosseum.New(c.bestiary)
	r := codec.NewReader(data)

	nb, err := r.Count("battles", codec.WordSize)
	if err != nil {
		return nil, err
	}
	battles := make([]slotmap.Handle, nb)
	for i := range battles {
		block, err := r.Block("battle")
		if err != nil {
			return nil, err
		}
		b, err := c.readBattle(codec.NewReader(block))
		if err != nil {
			return nil, fmt.Errorf("battle %d: %w", i, err)
		}
		battles[i] = col.AddBattle(b)
	}

	np, err := r.Count("parties", codec.WordSize)
	if err != nil {
		return nil, err
	}
	parties := make([]slotmap.Handle, np)
	partySlots := make([][]slotmap.Handle, np)
	for i := range parties {
		block, err := r.Block("party")
		if err != nil {
			return nil, err
		}
		id, err := uuid.FromBytes(block)
		if err != nil {
			return nil, codec.Invalid("party", "%v", err)
		}
		parties[i], _ = col.AddParty(id)
	}

	nw, err := r.Count("wizards", codec.WordSize)
	if err != nil {
		return nil, err
	}
	for i := 0; i < nw; i++ {
		block, err := r.Block("wizard")
		if err != nil {
			return nil, err
		}
		wz, err := c.readWizard(codec.NewReader(block))
		if err != nil {
			return nil, fmt.Errorf("wizard %d: %w", i, err)
		}
		h := col.AddWizard(wz)
		err = readMemberships(r, "wizard.battles", len(battles), func(ord, pos int) error {
			return place(col.Battles.MustGet(battles[ord]).Allies, pos, h, "wizard.battles")
		})
		if err != nil {
			return nil, err
		}
		err = readMemberships(r, "wizard.parties", len(parties), func(ord, pos int) error {
			// A party holds at most every wizard in the file.
			if pos >= nw {
				return codec.Invalid("wizard.parties", "position %d outside a party of at most %d", pos, nw)
			}
			if pos >= len(partySlots[ord]) {
				partySlots[ord] = append(partySlots[ord], make([]slotmap.Handle, pos+1-len(partySlots[ord]))...)
			}
			return place(partySlots[ord], pos, h, "wizard.parties")
		})
		if err != nil {
			return nil, err
		}
	}

	nm, err := r.Count("monsters", codec.WordSize)
	if err != nil {
		return nil, err
	}
	for i := 0; i < nm; i++ {
		block, err := r.Block("monster")
		if err != nil {
			return nil, err
		}
		m, err := readMonster(codec.NewReader(block))
		if err != nil {
			return nil, fmt.Errorf("monster %d: %w", i, err)
		}
		h := col.AddMonster(m)
		err = readMemberships(r, "monster.battles", len(battles), func(ord, pos int) error {
			return place(col.Battles.MustGet(battles[ord]).Enemies, pos, h, "monster.battles")
		})
		if err != nil {
			return nil, err
		}
	}
	if err := r.Done("colosseum"); err != nil {
		return nil, err
	}

	for i, bh := range battles {
		b := col.Battles.MustGet(bh)
		if slices.Contains(b.Allies, slotmap.Handle{}) || slices.Contains(b.Enemies, slotmap.Handle{}) {
			return nil, codec.Invalid("battle", "battle %d has an unfilled roster slot", i)
		}
	}
	for i, ph := range parties {
		if slices.Contains(partySlots[i], slotmap.Handle{}) {
			return nil, codec.Invalid("party", "party %d has an unfilled member slot", i)
		}
		col.Parties.MustGet(ph).Members = partySlots[i]
	}
	return col, nil
}

func readMemberships(r *codec.Reader, field string, containers int, fn func(ord, pos int) error) error {
	n, err := r.Count(field, 2*codec.WordSize)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		ord, err := r.Int(field)
		if err != nil {
			return err
		}
		pos, err := r.Int(field)
		if err != nil {
			return err
		}
		if ord >= containers {
			return codec.Invalid(field, "container %d of %d", ord, containers)
		}
		if err := fn(ord, pos); err != nil {
			return err
		}
	}
	return nil
}

func place(slots []slotmap.Handle, pos int, h slotmap.Handle, field string) error {
	if pos >= len(slots) {
		return codec.Invalid(field, "position %d outside a roster of %d", pos, len(slots))
	}
	if !slots[pos].IsZero() {
		return codec.Invalid(field, "position %d claimed twice", pos)
	}
	slots[pos] = h
	return nil
}

func writeWizard(w *codec.Writer, wz *wizard.Wizard) {
	w.String(wz.Name)
	w.U32(wz.HP)
	w.U32(wz.MaxHP)
	WriteAcceptance(w, wz.Acceptance)
	WriteAffinity(w, wz.Affinity)
	WriteStatusSet(w, &wz.Status)
	w.Int(wz.Selected)
	w.Int(len(wz.Spellbooks))
	for _, b := range wz.Spellbooks {
		WriteAffinity(w, b.Affinity)
		WriteAcceptance(w, b.Acceptance)
		w.Int(len(b.Spells))
		for _, s := range b.Spells {
			WriteSpell(w, s)
		}
	}
}

func (c *Codec) readWizard(r *codec.Reader) (*wizard.Wizard, error) {
	name, err := r.String("wizard.name")
	if err != nil {
		return nil, err
	}
	wz := &wizard.Wizard{Name: name}
	if wz.HP, err = r.U32("wizard.hp"); err != nil {
		return nil, err
	}
	if wz.MaxHP, err = r.U32("wizard.max_hp"); err != nil {
		return nil, err
	}
	if wz.Acceptance, err = ReadAcceptance(r, "wizard.acceptance"); err != nil {
		return nil, err
	}
	if wz.Affinity, err = ReadAffinity(r, "wizard.affinity"); err != nil {
		return nil, err
	}
	if wz.Status, err = ReadStatusSet(r, "wizard.status"); err != nil {
		return nil, err
	}
	if wz.Selected, err = r.Int("wizard.selected_spellbook"); err != nil {
		return nil, err
	}
	nb, err := r.Count("wizard.spellbooks", 40)
	if err != nil {
		return nil, err
	}
	for i := 0; i < nb; i++ {
		b := wizard.NewSpellbook()
		if b.Affinity, err = ReadAffinity(r, "spellbook.affinity"); err != nil {
			return nil, err
		}
		if b.Acceptance, err = ReadAcceptance(r, "spellbook.acceptance"); err != nil {
			return nil, err
		}
		ns, err := r.Count("spellbook.spells", 1)
		if err != nil {
			return nil, err
		}
		for j := 0; j < ns; j++ {
			s, err := ReadSpell(r, c.catalog)
			if err != nil {
				return nil, err
			}
			b.Spells = append(b.Spells, s)
		}
		wz.Spellbooks = append(wz.Spellbooks, b)
	}
	if len(wz.Spellbooks) > 0 && wz.Selected >= len(wz.Spellbooks) {
		return nil, codec.Invalid("wizard.selected_spellbook", "%d of %d spellbooks", wz.Selected, len(wz.Spellbooks))
	}
	if err := r.Done("wizard"); err != nil {
		return nil, err
	}
	return wz, nil
}

func writeMonster(w *codec.Writer, m *monster.Monster) error {
	if err := w.ShortString(m.Name); err != nil {
		return err
	}
	w.U8(uint8(m.Kind))
	w.U32(m.HP)
	w.U32(m.MaxHP)
	WriteAffinity(w, m.Affinity)
	WriteAcceptance(w, m.Acceptance)
	WriteStatusSet(w, &m.Status)
	return nil
}

func readMonster(r *codec.Reader) (*monster.Monster, error) {
	name, err := r.ShortString("monster.name")
	if err != nil {
		return nil, err
	}
	m := &monster.Monster{Name: name}
	code, err := r.U8("monster.type")
	if err != nil {
		return nil, err
	}
	if m.Kind, err = monster.KindFromCode(code); err != nil {
		return nil, codec.Invalid("monster.type", "%v", err)
	}
	if m.HP, err = r.U32("monster.hp"); err != nil {
		return nil, err
	}
	if m.MaxHP, err = r.U32("monster.max_hp"); err != nil {
		return nil, err
	}
	if m.Affinity, err = ReadAffinity(r, "monster.affinity"); err != nil {
		return nil, err
	}
	if m.Acceptance, err = ReadAcceptance(r, "monster.acceptance"); err != nil {
		return nil, err
	}
	if m.Status, err = ReadStatusSet(r, "monster.status"); err != nil {
		return nil, err
	}
	if err := r.Done("monster"); err != nil {
		return nil, err
	}
	return m, nil
}

// writeBattle writes roster lengths, active positions, in-flight casts in
// position order, the tick history and the pending tick. Roster handles are
// not stored; the combatants' association blocks restore them.
func writeBattle(w *codec.Writer, b *battle.Battle) {
	w.Int(len(b.Allies))
	w.Int(len(b.Enemies))
	for _, side := range []battle.Side{battle.Wizards, battle.Monsters} {
		active := b.ActiveAllies
		if side == battle.Monsters {
			active = b.ActiveEnemies
		}
		w.Int(len(active))
		for _, pos := range active {
			w.Int(pos)
		}
	}
	for _, side := range []battle.Side{battle.Wizards, battle.Monsters} {
		casts := b.Casts(side)
		positions := make([]int, 0, len(casts))
		for pos := range casts {
			positions = append(positions, pos)
		}
		slices.Sort(positions)
		w.Int(len(positions))
		for _, pos := range positions {
			w.Int(pos)
			WriteSpell(w, casts[pos])
		}
	}
	w.Int(len(b.PastTicks))
	for _, tick := range b.PastTicks {
		WriteTick(w, tick)
	}
	WriteTick(w, b.Pending)
}

func (c *Codec) readBattle(r *codec.Reader) (*battle.Battle, error) {
	na, err := r.Count("battle.allies", 1)
	if err != nil {
		return nil, err
	}
	ne, err := r.Count("battle.enemies", 1)
	if err != nil {
		return nil, err
	}
	b := battle.New(make([]slotmap.Handle, na), make([]slotmap.Handle, ne))
	for _, side := range []battle.Side{battle.Wizards, battle.Monsters} {
		size := len(b.Roster(side))
		n, err := r.Count("battle.active", codec.WordSize)
		if err != nil {
			return nil, err
		}
		active := make([]int, 0, n)
		for i := 0; i < n; i++ {
			pos, err := r.Int("battle.active")
			if err != nil {
				return nil, err
			}
			if pos >= size || (i > 0 && pos <= active[i-1]) {
				return nil, codec.Invalid("battle.active", "position %d out of order or outside a roster of %d", pos, size)
			}
			active = append(active, pos)
		}
		if side == battle.Wizards {
			b.ActiveAllies = active
		} else {
			b.ActiveEnemies = active
		}
	}
	for _, side := range []battle.Side{battle.Wizards, battle.Monsters} {
		n, err := r.Count("battle.casts", codec.WordSize)
		if err != nil {
			return nil, err
		}
		casts := b.Casts(side)
		for i := 0; i < n; i++ {
			pos, err := r.Int("battle.casts")
			if err != nil {
				return nil, err
			}
			if pos >= len(b.Roster(side)) {
				return nil, codec.Invalid("battle.casts", "position %d outside a roster of %d", pos, len(b.Roster(side)))
			}
			s, err := ReadSpell(r, c.catalog)
			if err != nil {
				return nil, err
			}
			casts[pos] = s
		}
	}
	nt, err := r.Count("battle.past_ticks", codec.WordSize)
	if err != nil {
		return nil, err
	}
	for i := 0; i < nt; i++ {
		tick, err := ReadTick(r, c.catalog)
		if err != nil {
			return nil, err
		}
		b.PastTicks = append(b.PastTicks, tick)
	}
	if b.Pending, err = ReadTick(r, c.catalog); err != nil {
		return nil, err
	}
	if err := r.Done("battle"); err != nil {
		return nil, err
	}
	return b, nil
}
