package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/fightpath/fightpath/internal/core"
)

// multipleEnemies is the placeholder actor name for grouped NPCs.
const multipleEnemies = "Multiple Enemies"

// ActorTable indexes actors by id.
func ActorTable(actors []core.Actor) map[int64]core.Actor {
	table := make(map[int64]core.Actor, len(actors))
	for _, actor := range actors {
		table[actor.ID] = actor
	}
	return table
}

// SummarizeFights resolves enemy names and durations for every fight of the
// report in place.
func SummarizeFights(report *core.Report) {
	if report == nil {
		return
	}
	for i := range report.Fights {
		fight := &report.Fights[i]
		fight.Enemies = EnemyNames(fight.EnemyIDs, report.Actors)
		fight.Duration = FightDuration(fight.StartTime, fight.EndTime)
	}
}

// EnemyNames returns the distinct, sorted names of the given NPC ids.
// Unknown ids and the grouped-enemies placeholder are skipped.
func EnemyNames(ids []int64, actors map[int64]core.Actor) []string {
	seen := make(map[string]struct{}, len(ids))
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		actor, ok := actors[id]
		if !ok || actor.Name == "" || actor.Name == multipleEnemies {
			continue
		}
		if _, dup := seen[actor.Name]; dup {
			continue
		}
		seen[actor.Name] = struct{}{}
		names = append(names, actor.Name)
	}
	sort.Strings(names)
	return names
}

// FightDuration converts a report-millisecond span into a duration.
func FightDuration(start, end float64) time.Duration {
	if end <= start {
		return 0
	}
	return time.Duration(end-start) * time.Millisecond
}

// DescribeOutcome renders a kill or wipe line such as
// "killed in 8m2s" or "wiped at 12.5% after 7m1s".
func DescribeOutcome(fight core.Fight) string {
	d := fight.Duration.Round(time.Second)
	if fight.Kill {
		return fmt.Sprintf("killed in %s", d)
	}
	if fight.FightPercentage != nil {
		return fmt.Sprintf("wiped at %g%% after %s", *fight.FightPercentage, d)
	}
	return fmt.Sprintf("wiped after %s", d)
}

// PlayerIDs returns the ids of player actors in ascending order.
func PlayerIDs(actors map[int64]core.Actor) []int64 {
	ids := make([]int64, 0, len(actors))
	for id, actor := range actors {
		if actor.Type == core.ActorTypePlayer {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
