package trajectory

import (
	"sort"

	"github.com/fightpath/fightpath/internal/core"
)

// Set holds one trajectory per entity id. Entities share no state, so
// distinct trajectories may be written concurrently once they exist.
type Set struct {
	byID map[int64]*Trajectory
}

// NewSet returns an empty trajectory set.
func NewSet() *Set {
	return &Set{byID: make(map[int64]*Trajectory)}
}

// Ensure returns the trajectory for id, creating it when absent.
// Ensure mutates the set and must not race with other calls.
func (s *Set) Ensure(id int64) *Trajectory {
	if tr, ok := s.byID[id]; ok {
		return tr
	}
	tr := New()
	s.byID[id] = tr
	return tr
}

// Get returns the trajectory for id.
func (s *Set) Get(id int64) (*Trajectory, bool) {
	if s == nil {
		return nil, false
	}
	tr, ok := s.byID[id]
	return tr, ok
}

// Insert records a sample for entity id.
func (s *Set) Insert(id int64, t int64, p core.Position) {
	s.Ensure(id).Insert(t, p)
}

// IDs returns the tracked entity ids in ascending order.
func (s *Set) IDs() []int64 {
	if s == nil {
		return nil
	}
	ids := make([]int64, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of tracked entities.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.byID)
}

// Keyframes returns the total keyframe count across all entities.
func (s *Set) Keyframes() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, tr := range s.byID {
		total += tr.Len()
	}
	return total
}
