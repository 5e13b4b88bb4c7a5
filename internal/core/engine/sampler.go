package engine

import (
	"math"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/trajectory"
)

// DefaultSampleRate is the number of frames sampled per second of fight.
const DefaultSampleRate = 4.0

// ActorPosition is one actor's place in a frame.
type ActorPosition struct {
	ActorID  int64         `json:"actor_id" yaml:"actor_id"`
	Name     string        `json:"name" yaml:"name"`
	Subtype  string        `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Role     core.JobRole  `json:"role" yaml:"role"`
	Position core.Position `json:"position" yaml:"position"`
}

// Frame is the set of player positions at one instant.
type Frame struct {
	Index  int             `json:"index" yaml:"index"`
	Time   float64         `json:"time" yaml:"time"`
	Actors []ActorPosition `json:"actors" yaml:"actors"`
}

// Sample evaluates every player trajectory at a fixed rate over [start, end).
// When bounds is non-nil, positions are normalized to the unit square it spans.
// Actors without keyframes are left out of each frame. A rate that is not a
// positive finite number falls back to DefaultSampleRate; a non-finite window
// yields no frames.
func Sample(set *trajectory.Set, actors map[int64]core.Actor, start, end float64, bounds *core.Rect, rate float64) []Frame {
	if !ValidRate(rate) {
		rate = DefaultSampleRate
	}
	if !finite(start) || !finite(end) {
		return nil
	}
	step := 1000.0 / rate

	players := PlayerIDs(actors)
	frames := make([]Frame, 0)
	for idx := 0; ; idx++ {
		ts := start + float64(idx)*step
		if ts >= end {
			break
		}
		frames = append(frames, Frame{Index: idx, Time: ts, Actors: positionsAt(set, actors, players, ts, bounds)})
	}
	return frames
}

// ValidRate reports whether rate is a usable frames-per-second value.
func ValidRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positionsAt(set *trajectory.Set, actors map[int64]core.Actor, players []int64, ts float64, bounds *core.Rect) []ActorPosition {
	out := make([]ActorPosition, 0, len(players))
	for _, id := range players {
		tr, ok := set.Get(id)
		if !ok {
			continue
		}
		pos, err := tr.At(ts)
		if err != nil {
			continue
		}
		if bounds != nil {
			pos = bounds.Normalize(pos)
		}
		actor := actors[id]
		out = append(out, ActorPosition{
			ActorID:  id,
			Name:     actor.Name,
			Subtype:  actor.Subtype,
			Role:     actor.Role(),
			Position: pos,
		})
	}
	return out
}
