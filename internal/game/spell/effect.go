package spell

import (
	"fmt"

	"github.com/cory-johannsen/arcana/internal/game/status"
)

// DurationKind selects how many resolution cycles an Effect fires for.
type DurationKind uint8

const (
	OverTime DurationKind = iota
	Growth
	AfterXTime
	Instant
)

var durationKindNames = [...]string{"over_time", "growth", "after_x_time", "instant"}

func (k DurationKind) String() string {
	if int(k) >= len(durationKindNames) {
		return fmt.Sprintf("duration(%d)", uint8(k))
	}
	return durationKindNames[k]
}

// Duration is the shape of an Effect over time. Length is the cycle bound for
// OverTime, Growth and AfterXTime. Step is only meaningful for Growth.
type Duration struct {
	Kind   DurationKind
	Length uint16
	Step   uint16
}

// InstantDuration fires once.
func InstantDuration() Duration { return Duration{Kind: Instant} }

// OverTimeDuration fires for n cycles.
func OverTimeDuration(n uint16) Duration { return Duration{Kind: OverTime, Length: n} }

// AfterXTimeDuration fires for n cycles.
func AfterXTimeDuration(n uint16) Duration { return Duration{Kind: AfterXTime, Length: n} }

// GrowthDuration fires for n cycles and carries a growth step for consumers
// that scale magnitude.
func GrowthDuration(n, step uint16) Duration { return Duration{Kind: Growth, Length: n, Step: step} }

// Done reports whether an effect that has completed progress cycles is finished.
func (d Duration) Done(progress uint32) bool {
	if d.Kind == Instant {
		return progress >= 1
	}
	return progress >= uint32(d.Length)
}

// ApplicationKind selects what an Effect does to its target.
type ApplicationKind uint8

const (
	Damage ApplicationKind = iota
	Heal
	ApplyStatus
	RemoveStatus
)

var applicationKindNames = [...]string{"damage", "heal", "status", "remove_status"}

func (k ApplicationKind) String() string {
	if int(k) >= len(applicationKindNames) {
		return fmt.Sprintf("application(%d)", uint8(k))
	}
	return applicationKindNames[k]
}

// Application describes what an Effect does. Status is used by ApplyStatus and
// RemoveStatus; StatusDuration only by ApplyStatus.
type Application struct {
	Kind           ApplicationKind
	Status         status.Status
	StatusDuration uint16
}

// DamageApplication deals damage.
func DamageApplication() Application { return Application{Kind: Damage} }

// HealApplication restores hit points.
func HealApplication() Application { return Application{Kind: Heal} }

// StatusApplication inflicts s for duration ticks.
func StatusApplication(s status.Status, duration uint16) Application {
	return Application{Kind: ApplyStatus, Status: s, StatusDuration: duration}
}

// RemoveStatusApplication clears s.
func RemoveStatusApplication(s status.Status) Application {
	return Application{Kind: RemoveStatus, Status: s}
}

// Effect is one step of an ability.
type Effect struct {
	Magnitude   uint16
	Duration    Duration
	Application Application
}

// Done reports whether the effect is finished after progress cycles.
func (e Effect) Done(progress uint32) bool {
	return e.Duration.Done(progress)
}
