package battle

import (
	"slices"

	"github.com/cory-johannsen/arcana/internal/game/spell"
)

// Matches reports whether t satisfies the predicate p.
func Matches(t Target, p spell.Priority) bool {
	switch p.Kind {
	case spell.Squishy:
		return t.Build == Squishy
	case spell.Tanky:
		return t.Build == Tanky
	case spell.LowHealth:
		return t.Health == LowHealth
	case spell.HighHealth:
		return t.Health == HighHealth || t.Health == FullHealth
	case spell.HasStatus:
		return t.Statuses.Has(p.Status)
	case spell.NoStatus:
		return !t.Statuses.Has(p.Status)
	}
	return false
}

func matchesAll(t Target, conj []spell.Priority) bool {
	for _, p := range conj {
		if !Matches(t, p) {
			return false
		}
	}
	return true
}

// byPriority orders targets matching p before targets that do not.
func byPriority(p spell.Priority) func(a, b Target) int {
	return func(a, b Target) int {
		ma, mb := Matches(a, p), Matches(b, p)
		switch {
		case ma == mb:
			return 0
		case ma:
			return -1
		}
		return 1
	}
}

// SortTargets stably orders pool by the preference ps.
//
// Single sorts by its predicate. Or places a before b when either predicate
// does, after b only when both do, and otherwise keeps them equal. And sorts by the first
// predicate and then by the second, so the second is the primary key.
//
// Postcondition: pool is permuted in place; equal targets keep their order.
func SortTargets(ps spell.Priorities, pool []Target) {
	first := byPriority(ps.First)
	switch ps.Combinator {
	case spell.Or:
		second := byPriority(ps.Second)
		slices.SortStableFunc(pool, func(a, b Target) int {
			o1, o2 := first(a, b), second(a, b)
			switch {
			case o1 < 0 || o2 < 0:
				return -1
			case o1 > 0 && o2 > 0:
				return 1
			}
			return 0
		})
	case spell.And:
		slices.SortStableFunc(pool, first)
		slices.SortStableFunc(pool, byPriority(ps.Second))
	default:
		slices.SortStableFunc(pool, first)
	}
}

// Score rates how well s's preference fits the current field: the fraction of
// its intended targets that match each disjunct, summed over disjuncts.
func Score(s spell.Spell, allies, enemies []Target) float64 {
	count := s.Ability.Target.Size()
	if count == 0 {
		return 0
	}
	pool := allies
	if s.Ability.Target.Kind == spell.Enemy {
		pool = enemies
	}
	var score float64
	for _, conj := range s.Priorities() {
		weight := 1 / float64(count*len(conj))
		matched := 0
		for _, t := range pool {
			if matched >= count {
				break
			}
			if matchesAll(t, conj) {
				score += weight
				matched++
			}
		}
	}
	return score
}

// PickSpell returns the highest scoring of spells; ties keep the earliest.
//
// Postcondition: Returns false iff spells is empty.
func PickSpell(spells []spell.Spell, allies, enemies []Target) (spell.Spell, bool) {
	if len(spells) == 0 {
		return spell.Spell{}, false
	}
	best, bestScore := spells[0], 0.0
	for _, s := range spells {
		if sc := Score(s, allies, enemies); sc > bestScore {
			best, bestScore = s, sc
		}
	}
	return best, true
}
