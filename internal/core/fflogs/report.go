package fflogs

import (
	"context"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
	"github.com/fightpath/fightpath/internal/core/events"
)

// EventsPage fetches the events of fightID in [start, end).
func (c *Client) EventsPage(ctx context.Context, code string, start, end float64, fightID int64) (*engine.Page, error) {
	q := ReportEventsQuery{}
	resp, err := Execute[ReportEventsResponse](ctx, c, q, ReportEventsVariables{
		Code:      code,
		StartTime: start,
		EndTime:   end,
		FightIDs:  []int64{fightID},
	})
	if err != nil {
		return nil, err
	}

	if resp.ReportData == nil || resp.ReportData.Report == nil || resp.ReportData.Report.Events == nil {
		return nil, violation(q.Name(), "report events missing")
	}
	page := resp.ReportData.Report.Events
	if len(page.Data) == 0 || string(page.Data) == "null" {
		return nil, violation(q.Name(), "event data missing")
	}

	evs, err := events.Decode(page.Data)
	if err != nil {
		return nil, violation(q.Name(), err.Error())
	}

	return &engine.Page{Events: evs, NextCursor: page.NextPageTimestamp}, nil
}

// Report fetches the fights and actors of a report.
func (c *Client) Report(ctx context.Context, code string) (*core.Report, error) {
	q := ReportFightsQuery{}
	resp, err := Execute[ReportFightsResponse](ctx, c, q, ReportVariables{Code: code})
	if err != nil {
		return nil, err
	}
	if resp.ReportData == nil || resp.ReportData.Report == nil {
		return nil, violation(q.Name(), "report missing")
	}
	data := resp.ReportData.Report
	if data.MasterData == nil {
		return nil, violation(q.Name(), "master data missing")
	}

	actors := make([]core.Actor, 0, len(data.MasterData.Actors))
	for _, rec := range data.MasterData.Actors {
		if rec == nil || rec.ID == nil {
			return nil, violation(q.Name(), "actor without id")
		}
		actors = append(actors, core.Actor{
			ID:      *rec.ID,
			Name:    deref(rec.Name),
			Type:    core.ActorType(deref(rec.Type)),
			Subtype: deref(rec.SubType),
		})
	}

	report := &core.Report{
		Code:   code,
		Actors: engine.ActorTable(actors),
		Fights: make([]core.Fight, 0, len(data.Fights)),
	}
	for _, rec := range data.Fights {
		if rec == nil {
			return nil, violation(q.Name(), "null fight")
		}
		fight := core.Fight{
			ID:              rec.ID,
			StartTime:       rec.StartTime,
			EndTime:         rec.EndTime,
			Kill:            rec.Kill != nil && *rec.Kill,
			FightPercentage: rec.FightPercentage,
		}
		for _, npc := range rec.EnemyNPCs {
			if npc != nil && npc.ID != nil {
				fight.EnemyIDs = append(fight.EnemyIDs, *npc.ID)
			}
		}
		if box := rec.BoundingBox; box != nil {
			fight.BoundingBox = &core.Rect{
				Min: core.Position{X: float64(box.MinX), Y: float64(box.MinY)},
				Max: core.Position{X: float64(box.MaxX), Y: float64(box.MaxY)},
			}
		}
		report.Fights = append(report.Fights, fight)
	}

	engine.SummarizeFights(report)
	return report, nil
}

// RateLimit reads the current point budget.
func (c *Client) RateLimit(ctx context.Context) (*core.QuotaSnapshot, error) {
	q := RateLimitQuery{}
	resp, err := Execute[RateLimitResponse](ctx, c, q, nil)
	if err != nil {
		return nil, err
	}
	if resp.RateLimitData == nil {
		return nil, violation(q.Name(), "rate limit data missing")
	}
	return resp.RateLimitData.Snapshot(), nil
}

// Summary fetches the descriptive header of a report.
func (c *Client) Summary(ctx context.Context, code string) (*ReportSummary, error) {
	q := ReportSummaryQuery{}
	resp, err := Execute[ReportSummaryResponse](ctx, c, q, ReportVariables{Code: code})
	if err != nil {
		return nil, err
	}
	if resp.ReportData == nil || resp.ReportData.Report == nil {
		return nil, violation(q.Name(), "report missing")
	}
	return resp.ReportData.Report, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
