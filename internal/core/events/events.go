// Package events decodes report event pages into a compact model exposing
// timestamps and per-role actor positions.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/fightpath/fightpath/internal/core"
)

// Kind is the event type tag carried in the "type" field.
type Kind string

const (
	KindAbsorbed            Kind = "absorbed"
	KindApplyBuff           Kind = "applybuff"
	KindApplyBuffStack      Kind = "applybuffstack"
	KindApplyDebuff         Kind = "applydebuff"
	KindBeginCast           Kind = "begincast"
	KindCalculatedDamage    Kind = "calculateddamage"
	KindCalculatedHeal      Kind = "calculatedheal"
	KindCast                Kind = "cast"
	KindCombatantInfo       Kind = "combatantinfo"
	KindDamage              Kind = "damage"
	KindDeath               Kind = "death"
	KindEncounterEnd        Kind = "encounterend"
	KindGaugeUpdate         Kind = "gaugeupdate"
	KindHeadMarker          Kind = "headmarker"
	KindHeal                Kind = "heal"
	KindLimitBreakUpdate    Kind = "limitbreakupdate"
	KindRefreshBuff         Kind = "refreshbuff"
	KindRefreshDebuff       Kind = "refreshdebuff"
	KindRemoveBuff          Kind = "removebuff"
	KindRemoveBuffStack     Kind = "removebuffstack"
	KindRemoveDebuff        Kind = "removedebuff"
	KindTargetabilityUpdate Kind = "targetabilityupdate"
	KindTether              Kind = "tether"
)

// Role selects which actor of an event a position belongs to.
type Role uint8

const (
	RoleSource Role = 1 << iota
	RoleTarget
)

// positional lists, for every known kind, which roles may carry resources.
var positional = map[Kind]Role{
	KindAbsorbed:            RoleTarget,
	KindApplyBuff:           0,
	KindApplyBuffStack:      0,
	KindApplyDebuff:         0,
	KindBeginCast:           0,
	KindCalculatedDamage:    RoleSource | RoleTarget,
	KindCalculatedHeal:      RoleSource | RoleTarget,
	KindCast:                RoleSource | RoleTarget,
	KindCombatantInfo:       0,
	KindDamage:              RoleSource | RoleTarget,
	KindDeath:               RoleSource | RoleTarget,
	KindEncounterEnd:        0,
	KindGaugeUpdate:         0,
	KindHeadMarker:          RoleSource | RoleTarget,
	KindHeal:                RoleSource | RoleTarget,
	KindLimitBreakUpdate:    0,
	KindRefreshBuff:         0,
	KindRefreshDebuff:       0,
	KindRemoveBuff:          0,
	KindRemoveBuffStack:     0,
	KindRemoveDebuff:        0,
	KindTargetabilityUpdate: 0,
	KindTether:              0,
}

// Kinds returns every known event kind.
func Kinds() []Kind {
	return []Kind{
		KindAbsorbed, KindApplyBuff, KindApplyBuffStack, KindApplyDebuff,
		KindBeginCast, KindCalculatedDamage, KindCalculatedHeal, KindCast,
		KindCombatantInfo, KindDamage, KindDeath, KindEncounterEnd,
		KindGaugeUpdate, KindHeadMarker, KindHeal, KindLimitBreakUpdate,
		KindRefreshBuff, KindRefreshDebuff, KindRemoveBuff, KindRemoveBuffStack,
		KindRemoveDebuff, KindTargetabilityUpdate, KindTether,
	}
}

// Known reports whether k is a recognized event kind.
func (k Kind) Known() bool {
	_, ok := positional[k]
	return ok
}

// Unknown counts the events in evs whose kind is not recognized.
func Unknown(evs []Event) map[Kind]int {
	var out map[Kind]int
	for _, ev := range evs {
		if ev.Kind.Known() {
			continue
		}
		if out == nil {
			out = make(map[Kind]int)
		}
		out[ev.Kind]++
	}
	return out
}

// Carries reports whether events of kind k can carry a position for role.
func (k Kind) Carries(role Role) bool {
	return positional[k]&role != 0
}

// Resources is the actor state snapshot attached to some events.
// Coordinates are integer arena units.
type Resources struct {
	HitPoints    int64  `json:"hitPoints"`
	MaxHitPoints int64  `json:"maxHitPoints"`
	MP           int64  `json:"mp"`
	Absorb       *int64 `json:"absorb,omitempty"`
	Facing       int64  `json:"facing"`
	X            int64  `json:"x"`
	Y            int64  `json:"y"`
}

// Position returns the resource coordinates as an arena position.
func (r Resources) Position() core.Position {
	return core.Position{X: float64(r.X), Y: float64(r.Y)}
}

// Event is a single decoded report event.
type Event struct {
	Kind            Kind       `json:"type"`
	Time            int64      `json:"timestamp"`
	Fight           int64      `json:"fight,omitempty"`
	SourceID        *int64     `json:"sourceID,omitempty"`
	TargetID        *int64     `json:"targetID,omitempty"`
	AbilityGameID   *int64     `json:"abilityGameID,omitempty"`
	SourceResources *Resources `json:"sourceResources,omitempty"`
	TargetResources *Resources `json:"targetResources,omitempty"`
}

// Sample is a position observation for one entity.
type Sample struct {
	EntityID int64
	Position core.Position
}

// Timestamp returns the event time in report milliseconds.
func (e Event) Timestamp() int64 {
	return e.Time
}

// SourcePosition returns the source actor position when the event carries one.
func (e Event) SourcePosition() (Sample, bool) {
	return e.sample(RoleSource, e.SourceID, e.SourceResources)
}

// TargetPosition returns the target actor position when the event carries one.
func (e Event) TargetPosition() (Sample, bool) {
	return e.sample(RoleTarget, e.TargetID, e.TargetResources)
}

func (e Event) sample(role Role, id *int64, res *Resources) (Sample, bool) {
	if !e.Kind.Carries(role) || id == nil || res == nil {
		return Sample{}, false
	}
	return Sample{EntityID: *id, Position: res.Position()}, true
}

// Decode parses a JSON array of events.
func Decode(raw json.RawMessage) ([]Event, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out []Event
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	for i := range out {
		if out[i].Kind == "" {
			return nil, fmt.Errorf("decode events: event %d has no type", i)
		}
	}
	return out, nil
}
