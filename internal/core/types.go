package core

import "time"

// Position is a 2D arena coordinate.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Rect is an axis-aligned arena rectangle.
type Rect struct {
	Min Position `json:"min" yaml:"min"`
	Max Position `json:"max" yaml:"max"`
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Normalize maps a position into the unit square spanned by r.
// Degenerate axes map to 0.
func (r Rect) Normalize(p Position) Position {
	var out Position
	if w := r.Width(); w != 0 {
		out.X = (p.X - r.Min.X) / w
	}
	if h := r.Height(); h != 0 {
		out.Y = (p.Y - r.Min.Y) / h
	}
	return out
}

// ActorType classifies an actor in a report.
type ActorType string

const (
	ActorTypePlayer ActorType = "Player"
	ActorTypeNPC    ActorType = "NPC"
	ActorTypePet    ActorType = "Pet"
)

// Actor describes a report participant.
type Actor struct {
	ID      int64     `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	Type    ActorType `json:"type" yaml:"type"`
	Subtype string    `json:"subtype,omitempty" yaml:"subtype,omitempty"`
}

// Fight summarizes a single pull within a report.
type Fight struct {
	ID              int64         `json:"id" yaml:"id"`
	StartTime       float64       `json:"start_time" yaml:"start_time"`
	EndTime         float64       `json:"end_time" yaml:"end_time"`
	Kill            bool          `json:"kill" yaml:"kill"`
	FightPercentage *float64      `json:"fight_percentage,omitempty" yaml:"fight_percentage,omitempty"`
	EnemyIDs        []int64       `json:"-" yaml:"-"`
	Enemies         []string      `json:"enemies" yaml:"enemies"`
	BoundingBox     *Rect         `json:"bounding_box,omitempty" yaml:"bounding_box,omitempty"`
	Duration        time.Duration `json:"duration" yaml:"duration"`
}

// Outcome returns a short human description of the pull result.
func (f Fight) Outcome() string {
	if f.Kill {
		return "kill"
	}
	return "wipe"
}

// Report bundles the fights and actors of one report.
type Report struct {
	Code   string          `json:"code" yaml:"code"`
	Fights []Fight         `json:"fights" yaml:"fights"`
	Actors map[int64]Actor `json:"actors" yaml:"actors"`
}

// FightByID returns the fight with the given id.
func (r *Report) FightByID(id int64) (Fight, bool) {
	if r == nil {
		return Fight{}, false
	}
	for _, fight := range r.Fights {
		if fight.ID == id {
			return fight, true
		}
	}
	return Fight{}, false
}

// JobRole groups player jobs by party role.
type JobRole string

const (
	JobRoleTank    JobRole = "tank"
	JobRoleHealer  JobRole = "healer"
	JobRoleMelee   JobRole = "melee"
	JobRoleRanged  JobRole = "ranged"
	JobRoleCaster  JobRole = "caster"
	JobRoleUnknown JobRole = "unknown"
)

var jobRoles = map[string]JobRole{
	"Paladin":     JobRoleTank,
	"Warrior":     JobRoleTank,
	"DarkKnight":  JobRoleTank,
	"Gunbreaker":  JobRoleTank,
	"WhiteMage":   JobRoleHealer,
	"Scholar":     JobRoleHealer,
	"Astrologian": JobRoleHealer,
	"Sage":        JobRoleHealer,
	"Monk":        JobRoleMelee,
	"Dragoon":     JobRoleMelee,
	"Ninja":       JobRoleMelee,
	"Samurai":     JobRoleMelee,
	"Reaper":      JobRoleMelee,
	"Viper":       JobRoleMelee,
	"Bard":        JobRoleRanged,
	"Machinist":   JobRoleRanged,
	"Dancer":      JobRoleRanged,
	"BlackMage":   JobRoleCaster,
	"Summoner":    JobRoleCaster,
	"RedMage":     JobRoleCaster,
	"Pictomancer": JobRoleCaster,
}

// Role returns the party role of a player actor's job.
func (a Actor) Role() JobRole {
	if role, ok := jobRoles[a.Subtype]; ok {
		return role
	}
	return JobRoleUnknown
}
