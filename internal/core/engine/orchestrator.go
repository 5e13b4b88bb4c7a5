package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/trajectory"
)

// ErrFightNotFound is returned when a report has no fight with the requested id.
var ErrFightNotFound = errors.New("fight not found")

// ReportSource loads the fight and actor metadata of a report.
type ReportSource interface {
	Report(ctx context.Context, code string) (*core.Report, error)
}

// Orchestrator runs the fetch and ingest pipeline for single fights.
type Orchestrator struct {
	Reports  ReportSource
	Fetcher  *EventFetcher
	Ingester *Ingester
	Logger   *logging.Logger
	Clock    func() time.Time
}

// FightData is the reconstructed movement of one fight.
type FightData struct {
	Report       *core.Report
	Fight        core.Fight
	Trajectories *trajectory.Set
}

// Report loads the metadata of a report.
func (o *Orchestrator) Report(ctx context.Context, code string) (*core.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("report code is required")
	}
	if o == nil || o.Reports == nil {
		return nil, errors.New("report source is not configured")
	}
	return o.Reports.Report(ctx, code)
}

// LoadFight fetches every event of a fight and reduces it into trajectories.
func (o *Orchestrator) LoadFight(ctx context.Context, code string, fightID int64) (*FightData, error) {
	report, err := o.Report(ctx, code)
	if err != nil {
		return nil, err
	}

	fight, ok := report.FightByID(fightID)
	if !ok {
		return nil, fmt.Errorf("%w: report %s has no fight %d", ErrFightNotFound, report.Code, fightID)
	}

	started := o.now()
	evs, err := o.Fetcher.FetchEvents(ctx, report.Code, fight.StartTime, fight.EndTime, fight.ID)
	if err != nil {
		return nil, err
	}

	set, err := o.Ingester.Ingest(ctx, evs)
	if err != nil {
		return nil, err
	}

	if o.Logger != nil {
		o.Logger.Info("Loaded fight",
			zap.String("report", report.Code),
			zap.Int64("fight", fight.ID),
			zap.Int("events", len(evs)),
			zap.Int("entities", set.Len()),
			zap.Int("keyframes", set.Keyframes()),
			zap.Duration("elapsed", o.now().Sub(started)))
	}

	return &FightData{Report: report, Fight: fight, Trajectories: set}, nil
}

func (o *Orchestrator) now() time.Time {
	if o != nil && o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

// Frames samples the player positions of the fight at rate frames per second.
func (d *FightData) Frames(rate float64, normalize bool) []Frame {
	return Sample(d.Trajectories, d.Report.Actors, d.Fight.StartTime, d.Fight.EndTime, d.bounds(normalize), rate)
}

// At returns the player positions at report time t (milliseconds).
func (d *FightData) At(t float64, normalize bool) (Frame, error) {
	if math.IsNaN(t) {
		return Frame{}, trajectory.ErrInvalidTime
	}
	players := PlayerIDs(d.Report.Actors)
	return Frame{Time: t, Actors: positionsAt(d.Trajectories, d.Report.Actors, players, t, d.bounds(normalize))}, nil
}

// Actor returns the position of one entity at report time t.
func (d *FightData) Actor(id int64, t float64) (core.Position, error) {
	tr, ok := d.Trajectories.Get(id)
	if !ok {
		return core.Position{}, trajectory.ErrEmptyTrajectory
	}
	return tr.At(t)
}

func (d *FightData) bounds(normalize bool) *core.Rect {
	if !normalize {
		return nil
	}
	return d.Fight.BoundingBox
}
