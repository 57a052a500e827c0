package spell

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/arcana/internal/game/status"
)

// PriorityKind is a targeting-preference predicate.
type PriorityKind uint8

const (
	Squishy PriorityKind = iota
	Tanky
	LowHealth
	HighHealth
	HasStatus
	NoStatus
)

// Priority is one targeting predicate. Status is only meaningful for
// HasStatus and NoStatus.
type Priority struct {
	Kind   PriorityKind
	Status status.Status
}

// Byte codes: the four simple kinds are 0..3, HasStatus is 4+code and
// NoStatus is 18+code.
const (
	hasStatusBase = 4
	noStatusBase  = hasStatusBase + status.Count
	priorityCodes = noStatusBase + status.Count
)

// Code returns the wire byte of p.
func (p Priority) Code() uint8 {
	switch p.Kind {
	case HasStatus:
		return hasStatusBase + p.Status.Code()
	case NoStatus:
		return noStatusBase + p.Status.Code()
	default:
		return uint8(p.Kind)
	}
}

// PriorityFromCode maps a wire byte back to its Priority.
func PriorityFromCode(code uint8) (Priority, error) {
	switch {
	case code < hasStatusBase:
		return Priority{Kind: PriorityKind(code)}, nil
	case code < noStatusBase:
		return Priority{Kind: HasStatus, Status: status.Status(code - hasStatusBase)}, nil
	case code < priorityCodes:
		return Priority{Kind: NoStatus, Status: status.Status(code - noStatusBase)}, nil
	}
	return Priority{}, fmt.Errorf("unknown priority code %d", code)
}

func (p Priority) String() string {
	switch p.Kind {
	case Squishy:
		return "squishy"
	case Tanky:
		return "tanky"
	case LowHealth:
		return "low_health"
	case HighHealth:
		return "high_health"
	case HasStatus:
		return "has_status:" + p.Status.String()
	case NoStatus:
		return "no_status:" + p.Status.String()
	}
	return fmt.Sprintf("priority(%d)", uint8(p.Kind))
}

// ParsePriority parses the String form of a Priority.
func ParsePriority(text string) (Priority, error) {
	switch text {
	case "squishy":
		return Priority{Kind: Squishy}, nil
	case "tanky":
		return Priority{Kind: Tanky}, nil
	case "low_health":
		return Priority{Kind: LowHealth}, nil
	case "high_health":
		return Priority{Kind: HighHealth}, nil
	}
	kind, name, ok := strings.Cut(text, ":")
	if !ok {
		return Priority{}, fmt.Errorf("unknown priority %q", text)
	}
	s, err := status.Parse(name)
	if err != nil {
		return Priority{}, fmt.Errorf("priority %q: %w", text, err)
	}
	switch kind {
	case "has_status":
		return Priority{Kind: HasStatus, Status: s}, nil
	case "no_status":
		return Priority{Kind: NoStatus, Status: s}, nil
	}
	return Priority{}, fmt.Errorf("unknown priority %q", text)
}

// Combinator joins up to two priorities.
type Combinator uint8

const (
	Single Combinator = iota
	Or
	And
)

// Priorities is the targeting preference of an ability. Second is ignored
// for Single.
type Priorities struct {
	Combinator Combinator
	First      Priority
	Second     Priority
}

// SinglePriority prefers targets matching p.
func SinglePriority(p Priority) Priorities {
	return Priorities{Combinator: Single, First: p}
}

// OrPriority prefers targets matching either p1 or p2.
func OrPriority(p1, p2 Priority) Priorities {
	return Priorities{Combinator: Or, First: p1, Second: p2}
}

// AndPriority prefers targets matching both p1 and p2.
func AndPriority(p1, p2 Priority) Priorities {
	return Priorities{Combinator: And, First: p1, Second: p2}
}

// Disjuncts returns the priorities in disjunctive form: Or yields two
// one-element disjuncts, And a single two-element disjunct.
func (p Priorities) Disjuncts() [][]Priority {
	switch p.Combinator {
	case Or:
		return [][]Priority{{p.First}, {p.Second}}
	case And:
		return [][]Priority{{p.First, p.Second}}
	default:
		return [][]Priority{{p.First}}
	}
}

// TargetKind selects which roster an ability addresses.
type TargetKind uint8

const (
	SelfOnly TargetKind = iota
	Ally
	Enemy
)

// TargetType is the roster and count an ability addresses.
type TargetType struct {
	Kind  TargetKind
	Count uint8
}

// Self targets the caster alone.
func Self() TargetType { return TargetType{Kind: SelfOnly, Count: 1} }

// Allies targets up to n members of the caster's roster.
func Allies(n uint8) TargetType { return TargetType{Kind: Ally, Count: n} }

// Enemies targets up to n members of the opposing roster.
func Enemies(n uint8) TargetType { return TargetType{Kind: Enemy, Count: n} }

// Size returns the number of intended targets; SelfOnly always counts one.
func (t TargetType) Size() int {
	if t.Kind == SelfOnly {
		return 1
	}
	return int(t.Count)
}

func (t TargetType) String() string {
	switch t.Kind {
	case SelfOnly:
		return "self"
	case Ally:
		return fmt.Sprintf("ally:%d", t.Count)
	case Enemy:
		return fmt.Sprintf("enemy:%d", t.Count)
	}
	return fmt.Sprintf("target(%d)", uint8(t.Kind))
}

// MaxEffects is the longest effect progression an ability may carry.
const MaxEffects = 3

// Ability is what a spell does: whom it prefers, whom it reaches, and the
// ordered effects it applies.
type Ability struct {
	Priority Priorities
	Target   TargetType
	Effects  []Effect
}

// Effect returns the effect at the 1-based index, or false if there is none.
func (a Ability) Effect(index uint8) (Effect, bool) {
	if index == 0 || int(index) > len(a.Effects) {
		return Effect{}, false
	}
	return a.Effects[index-1], true
}
