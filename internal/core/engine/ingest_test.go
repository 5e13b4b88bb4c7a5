package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/events"
	"github.com/fightpath/fightpath/internal/core/trajectory"
)

func id(v int64) *int64 { return &v }

func moveEvent(kind events.Kind, ts int64, source, target int64, sx, sy, tx, ty int64) events.Event {
	return events.Event{
		Kind:            kind,
		Time:            ts,
		SourceID:        id(source),
		TargetID:        id(target),
		SourceResources: &events.Resources{X: sx, Y: sy},
		TargetResources: &events.Resources{X: tx, Y: ty},
	}
}

func keyframeTimes(tr *trajectory.Trajectory) []int64 {
	var out []int64
	for _, kf := range tr.Keyframes() {
		out = append(out, kf.Time)
	}
	return out
}

func TestIngestBuildsTrajectoriesPerEntity(t *testing.T) {
	evs := []events.Event{
		moveEvent(events.KindDamage, 0, 1, 100, 0, 0, 50, 50),
		moveEvent(events.KindDamage, 10, 1, 100, 0, 0, 50, 50),
		moveEvent(events.KindDamage, 20, 1, 100, 0, 0, 50, 50),
		moveEvent(events.KindCast, 30, 1, 100, 10, 10, 50, 50),
		moveEvent(events.KindHeal, 40, 2, 1, 5, 5, 20, 20),
	}

	set, err := Ingest(context.Background(), evs, 2)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 100}, set.IDs())

	player, ok := set.Get(1)
	require.True(t, ok)
	require.Equal(t, []int64{0, 20, 30, 40}, keyframeTimes(player))

	pos, err := player.At(35)
	require.NoError(t, err)
	require.InDelta(t, 15.0, pos.X, 1e-9)
	require.InDelta(t, 15.0, pos.Y, 1e-9)

	boss, ok := set.Get(100)
	require.True(t, ok)
	require.Equal(t, []int64{0, 30}, keyframeTimes(boss))

	healer, ok := set.Get(2)
	require.True(t, ok)
	require.Equal(t, 1, healer.Len())
}

func TestIngestSkipsNonPositionalKinds(t *testing.T) {
	evs := []events.Event{
		moveEvent(events.KindApplyBuff, 0, 1, 2, 0, 0, 1, 1),
		moveEvent(events.KindAbsorbed, 5, 3, 4, 7, 7, 9, 9),
	}

	set, err := Ingest(context.Background(), evs, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{4}, set.IDs())

	tr, _ := set.Get(4)
	pos, err := tr.At(5)
	require.NoError(t, err)
	require.Equal(t, core.Position{X: 9, Y: 9}, pos)
}

func TestIngestCountsOutOfOrderSamples(t *testing.T) {
	evs := []events.Event{
		moveEvent(events.KindDamage, 20, 1, 2, 0, 0, 0, 0),
		moveEvent(events.KindDamage, 10, 1, 2, 5, 5, 0, 0),
	}

	set, err := Ingest(context.Background(), evs, 8)
	require.NoError(t, err)

	tr, _ := set.Get(1)
	require.Equal(t, 1, tr.OutOfOrder())
	require.Equal(t, []int64{10, 20}, keyframeTimes(tr))
}

func TestIngestEmpty(t *testing.T) {
	set, err := Ingest(context.Background(), nil, 0)
	require.NoError(t, err)
	require.Equal(t, 0, set.Len())
}

func TestIngestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Ingest(ctx, []events.Event{moveEvent(events.KindDamage, 0, 1, 2, 0, 0, 0, 0)}, 1)
	require.ErrorIs(t, err, context.Canceled)
}
