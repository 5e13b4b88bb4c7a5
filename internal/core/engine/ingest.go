package engine

import (
	"context"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fightpath/fightpath/internal/core/events"
	"github.com/fightpath/fightpath/internal/core/trajectory"
	"github.com/fightpath/fightpath/internal/metrics"
)

// DefaultIngestWorkers is the shard count used when none is configured.
const DefaultIngestWorkers = 4

type timedSample struct {
	time   int64
	sample events.Sample
}

// Ingester reduces an event sequence into per-entity trajectories.
type Ingester struct {
	Workers int
	Logger  *logging.Logger
}

// Ingest builds a trajectory set with the given number of workers.
func Ingest(ctx context.Context, evs []events.Event, workers int) (*trajectory.Set, error) {
	return (&Ingester{Workers: workers}).Ingest(ctx, evs)
}

// Ingest groups position samples by entity in arrival order, source before
// target within an event, and inserts them. Entities are sharded across
// workers so every trajectory has exactly one writer.
func (in *Ingester) Ingest(ctx context.Context, evs []events.Event) (*trajectory.Set, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if log := in.logger(); log != nil {
		for kind, n := range events.Unknown(evs) {
			log.Debug("Unknown event kind carries no position",
				zap.String("kind", string(kind)),
				zap.Int("count", n))
		}
	}

	byEntity := make(map[int64][]timedSample)
	for _, ev := range evs {
		ts := ev.Timestamp()
		if s, ok := ev.SourcePosition(); ok {
			byEntity[s.EntityID] = append(byEntity[s.EntityID], timedSample{time: ts, sample: s})
		}
		if s, ok := ev.TargetPosition(); ok {
			byEntity[s.EntityID] = append(byEntity[s.EntityID], timedSample{time: ts, sample: s})
		}
	}

	set := trajectory.NewSet()
	for id := range byEntity {
		set.Ensure(id)
	}
	ids := set.IDs()

	workers := in.workers()
	if workers > len(ids) {
		workers = len(ids)
	}

	var g errgroup.Group
	for shard := 0; shard < workers; shard++ {
		g.Go(func() error {
			for i := shard; i < len(ids); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				tr, _ := set.Get(ids[i])
				for _, s := range byEntity[ids[i]] {
					tr.Insert(s.time, s.sample.Position)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		tr, _ := set.Get(id)
		if n := tr.OutOfOrder(); n > 0 && in.logger() != nil {
			in.logger().Warn("Out-of-order position samples",
				zap.Int64("entity", id),
				zap.Int("count", n))
		}
	}

	metrics.RecordKeyframes(set.Keyframes())

	return set, nil
}

func (in *Ingester) workers() int {
	if in == nil || in.Workers <= 0 {
		return DefaultIngestWorkers
	}
	return in.Workers
}

func (in *Ingester) logger() *logging.Logger {
	if in == nil {
		return nil
	}
	return in.Logger
}
