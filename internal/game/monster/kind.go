package monster

import "fmt"

// Kind is the closed set of monster types. Its numeric value is the wire code.
type Kind uint8

const (
	Troll Kind = iota
	Bear
	Bat
	Spider
	Snake
	Wolf
	DireWolf
	Hellcat
	Demon
	Dragon
	Ogre
	Goblin
	Orc
	UndeadGoblin
	UndeadHuman
	UndeadOrc
	UndeadTroll
	AncientConstruct
	Angel
	Archon
	Templar
	Elemental
	Guardian
	Rat
	Slime
	Voidling
	VoidWalker
	VoidSpawn
	VoidLord
	FallenAngel
	Human
	Construct
)

// KindCount is the number of monster types.
const KindCount = 32

type kindInfo struct {
	name       string
	baseHP     uint32
	difficulty uint8
}

var kinds = [KindCount]kindInfo{
	Troll:            {"Troll", 20, 4},
	Bear:             {"Bear", 25, 5},
	Bat:              {"Bat", 10, 1},
	Spider:           {"Spider", 10, 1},
	Snake:            {"Snake", 15, 2},
	Wolf:             {"Wolf", 15, 2},
	DireWolf:         {"DireWolf", 20, 3},
	Hellcat:          {"Hellcat", 20, 3},
	Demon:            {"Demon", 25, 5},
	Dragon:           {"Dragon", 30, 6},
	Ogre:             {"Ogre", 20, 4},
	Goblin:           {"Goblin", 10, 1},
	Orc:              {"Orc", 15, 2},
	UndeadGoblin:     {"UndeadGoblin", 10, 1},
	UndeadHuman:      {"UndeadHuman", 15, 2},
	UndeadOrc:        {"UndeadOrc", 15, 2},
	UndeadTroll:      {"UndeadTroll", 20, 3},
	AncientConstruct: {"AncientConstruct", 20, 4},
	Angel:            {"Angel", 25, 5},
	Archon:           {"Archon", 30, 6},
	Templar:          {"Templar", 25, 5},
	Elemental:        {"Elemental", 20, 4},
	Guardian:         {"Guardian", 25, 5},
	Rat:              {"Rat", 10, 1},
	Slime:            {"Slime", 10, 1},
	Voidling:         {"Voidling", 15, 2},
	VoidWalker:       {"VoidWalker", 20, 4},
	VoidSpawn:        {"VoidSpawn", 20, 3},
	VoidLord:         {"VoidLord", 30, 6},
	FallenAngel:      {"FallenAngel", 25, 5},
	Human:            {"Human", 15, 2},
	Construct:        {"Construct", 20, 3},
}

// Kinds returns every monster type in code order.
func Kinds() []Kind {
	out := make([]Kind, KindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k is a known monster type.
func (k Kind) Valid() bool { return k < KindCount }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("monster(%d)", uint8(k))
	}
	return kinds[k].name
}

// BaseHP returns the hit points per difficulty level.
func (k Kind) BaseHP() uint32 { return kinds[k].baseHP }

// Difficulty returns the suggested difficulty of k.
func (k Kind) Difficulty() uint8 { return kinds[k].difficulty }

// HP returns the hit point pool of a k at the given difficulty.
// A difficulty of 0 is treated as 1.
func (k Kind) HP(difficulty uint8) uint32 {
	if difficulty == 0 {
		difficulty = 1
	}
	return uint32(difficulty) * kinds[k].baseHP
}

// KindFromCode maps a wire byte to its Kind.
func KindFromCode(code uint8) (Kind, error) {
	if code >= KindCount {
		return 0, fmt.Errorf("unknown monster type code %d", code)
	}
	return Kind(code), nil
}

// ParseKind maps a type name such as "DireWolf" to its Kind.
func ParseKind(name string) (Kind, error) {
	for i, info := range kinds {
		if info.name == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown monster type %q", name)
}
