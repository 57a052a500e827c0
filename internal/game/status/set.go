package status

// Entry is the (magnitude, remaining duration) pair stored for one status.
// Duration 0 means the status is absent.
type Entry struct {
	Magnitude uint16
	Duration  uint16
}

func (e Entry) strength() uint32 {
	return uint32(e.Magnitude) * uint32(e.Duration)
}

// Set tracks every status currently applied to one combatant, one slot per
// status code. The zero value is an empty set. Set is a value type; copying it
// yields an independent snapshot.
type Set struct {
	slots [Count]Entry
}

// Insert applies an occurrence of s with the given magnitude and duration.
// Statuses do not stack: the stored entry is replaced only when the new
// magnitude × duration product is strictly greater than the existing one.
//
// Precondition: s must be valid.
// Postcondition: Entry(s) holds whichever of the old and new entries is stronger.
func (set *Set) Insert(s Status, magnitude, duration uint16) {
	next := Entry{Magnitude: magnitude, Duration: duration}
	if next.strength() > set.slots[s].strength() {
		set.slots[s] = next
	}
}

// Remove clears the slot for s. Removing an absent status is a no-op.
//
// Postcondition: Has(s) is false.
func (set *Set) Remove(s Status) {
	set.slots[s] = Entry{}
}

// Has reports whether s is active (remaining duration non-zero).
func (set *Set) Has(s Status) bool {
	return set.slots[s].Duration != 0
}

// Value returns the magnitude of s, or 0 if s is absent.
func (set *Set) Value(s Status) uint16 {
	if !set.Has(s) {
		return 0
	}
	return set.slots[s].Magnitude
}

// Entry returns the raw slot for s.
func (set *Set) Entry(s Status) Entry {
	return set.slots[s]
}

// Set stores e in the slot for s verbatim. It is used when restoring a saved set.
func (set *Set) Set(s Status, e Entry) {
	set.slots[s] = e
}

// TickAll decrements every non-zero duration by one.
//
// Postcondition: every slot whose duration reaches 0 is cleared; absent slots
// are unaffected.
func (set *Set) TickAll() {
	for i := range set.slots {
		if set.slots[i].Duration == 0 {
			continue
		}
		set.slots[i].Duration--
		if set.slots[i].Duration == 0 {
			set.slots[i] = Entry{}
		}
	}
}

// Active returns the active statuses in code order.
func (set *Set) Active() []Status {
	var out []Status
	for i, e := range set.slots {
		if e.Duration != 0 {
			out = append(out, Status(i))
		}
	}
	return out
}
