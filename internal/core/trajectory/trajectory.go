// Package trajectory stores compacted per-entity position histories and
// answers point-in-time position queries by piecewise-linear interpolation.
package trajectory

import (
	"errors"
	"math"
	"sort"

	"github.com/fightpath/fightpath/internal/core"
)

var (
	// ErrEmptyTrajectory is returned when querying a trajectory with no keyframes.
	ErrEmptyTrajectory = errors.New("trajectory has no keyframes")

	// ErrInvalidTime is returned for NaN query times.
	ErrInvalidTime = errors.New("query time is not a number")
)

// Keyframe is a stored sample of an entity's position.
type Keyframe struct {
	Time     int64         `json:"t" yaml:"t"`
	Position core.Position `json:"p" yaml:"p"`
}

// Trajectory is an ordered keyframe set for a single entity.
//
// Keys are unique and strictly increasing. Runs of samples sharing one
// position are reduced to their first and last members as samples arrive, so
// the stored set is the minimal one reproducing the sampled path.
//
// A Trajectory is not safe for concurrent mutation; give each entity a single
// writer.
type Trajectory struct {
	frames     []Keyframe
	outOfOrder int
}

// New returns an empty trajectory.
func New() *Trajectory {
	return &Trajectory{}
}

// Insert records a position sample at timestamp t (milliseconds).
//
// A sample at an existing timestamp is ignored. Samples are expected in
// non-decreasing time order; an earlier sample is still applied but counted
// in OutOfOrder.
func (tr *Trajectory) Insert(t int64, p core.Position) {
	i, found := tr.search(t)
	if found {
		return
	}
	if i < len(tr.frames) {
		tr.outOfOrder++
	}

	hasPrev := i > 0
	hasNext := i < len(tr.frames)

	// Midpoint of a constant segment carries nothing new.
	if hasPrev && hasNext {
		prev, next := tr.frames[i-1], tr.frames[i]
		if prev.Position == next.Position && next.Position == p {
			return
		}
	}

	// prevprev, prev and the new sample share a position: prev becomes interior.
	if hasPrev && tr.frames[i-1].Position == p && i >= 2 && tr.frames[i-2].Position == p {
		tr.remove(i - 1)
		i--
	}

	// Symmetric case ahead of t.
	if i+1 < len(tr.frames) && tr.frames[i].Position == p && tr.frames[i+1].Position == p {
		tr.remove(i)
	}

	tr.frames = append(tr.frames, Keyframe{})
	copy(tr.frames[i+1:], tr.frames[i:])
	tr.frames[i] = Keyframe{Time: t, Position: p}
}

// At returns the position at time t (milliseconds, fractional allowed).
//
// Stored timestamps return their exact position. Between keyframes the
// position is interpolated linearly per axis; outside the recorded span it is
// clamped to the nearest end.
func (tr *Trajectory) At(t float64) (core.Position, error) {
	if tr == nil || len(tr.frames) == 0 {
		return core.Position{}, ErrEmptyTrajectory
	}
	if math.IsNaN(t) {
		return core.Position{}, ErrInvalidTime
	}

	// First keyframe at or after t.
	j := sort.Search(len(tr.frames), func(k int) bool {
		return float64(tr.frames[k].Time) >= t
	})
	if j < len(tr.frames) && float64(tr.frames[j].Time) == t {
		return tr.frames[j].Position, nil
	}

	prevIdx, nextIdx := j-1, j
	if prevIdx < 0 {
		prevIdx = 0
	}
	if nextIdx >= len(tr.frames) {
		nextIdx = len(tr.frames) - 1
	}
	if prevIdx == nextIdx {
		return tr.frames[prevIdx].Position, nil
	}

	prev, next := tr.frames[prevIdx], tr.frames[nextIdx]
	ratio := (t - float64(prev.Time)) / float64(next.Time-prev.Time)

	return core.Position{
		X: prev.Position.X + ratio*(next.Position.X-prev.Position.X),
		Y: prev.Position.Y + ratio*(next.Position.Y-prev.Position.Y),
	}, nil
}

// Len returns the number of stored keyframes.
func (tr *Trajectory) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.frames)
}

// IsEmpty reports whether the trajectory has no keyframes.
func (tr *Trajectory) IsEmpty() bool {
	return tr.Len() == 0
}

// OutOfOrder returns how many inserts arrived before the latest stored key.
func (tr *Trajectory) OutOfOrder() int {
	if tr == nil {
		return 0
	}
	return tr.outOfOrder
}

// Span returns the first and last stored timestamps.
func (tr *Trajectory) Span() (start, end int64, ok bool) {
	if tr.Len() == 0 {
		return 0, 0, false
	}
	return tr.frames[0].Time, tr.frames[len(tr.frames)-1].Time, true
}

// Keyframes returns a copy of the stored keyframes in time order.
func (tr *Trajectory) Keyframes() []Keyframe {
	if tr.Len() == 0 {
		return nil
	}
	out := make([]Keyframe, len(tr.frames))
	copy(out, tr.frames)
	return out
}

// search returns the index of the first keyframe with Time >= t and whether
// that keyframe is exactly t.
func (tr *Trajectory) search(t int64) (int, bool) {
	i := sort.Search(len(tr.frames), func(k int) bool {
		return tr.frames[k].Time >= t
	})
	return i, i < len(tr.frames) && tr.frames[i].Time == t
}

func (tr *Trajectory) remove(i int) {
	tr.frames = append(tr.frames[:i], tr.frames[i+1:]...)
}
