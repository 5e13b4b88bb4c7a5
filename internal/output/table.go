package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatReport renders one row per fight.
func (f *TableFormatter) FormatReport(report *core.Report) (string, error) {
	if report == nil {
		return "", nil
	}

	t := newTable()
	t.SetTitle(fmt.Sprintf("Report %s", report.Code))
	t.AppendHeader(table.Row{"#", "Fight", "Enemies", "Outcome", "Duration"})
	for i, fight := range report.Fights {
		t.AppendRow(table.Row{i, fight.ID, enemiesLabel(fight), outcomeLabel(fight), durationLabel(fight)})
	}
	t.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("%d fights", len(report.Fights))})
	return t.Render(), nil
}

// FormatFrames renders one row per actor per frame.
func (f *TableFormatter) FormatFrames(frames []engine.Frame) (string, error) {
	t := newTable()
	t.AppendHeader(table.Row{"Frame", "Time (ms)", "Actor", "Role", "X", "Y"})
	for _, frame := range frames {
		for _, actor := range frame.Actors {
			t.AppendRow(table.Row{
				frame.Index,
				fmt.Sprintf("%.0f", frame.Time),
				actorLabel(actor.ActorID, actor.Name),
				string(actor.Role),
				fmt.Sprintf("%.3f", actor.Position.X),
				fmt.Sprintf("%.3f", actor.Position.Y),
			})
		}
	}
	return t.Render(), nil
}

// FormatTrajectories renders the keyframe count and span per actor.
func (f *TableFormatter) FormatTrajectories(dumps []TrajectoryDump) (string, error) {
	t := newTable()
	t.AppendHeader(table.Row{"Actor", "Keyframes", "First (ms)", "Last (ms)"})
	total := 0
	for _, dump := range dumps {
		first, last := "", ""
		if n := len(dump.Keyframes); n > 0 {
			first = fmt.Sprintf("%d", dump.Keyframes[0].Time)
			last = fmt.Sprintf("%d", dump.Keyframes[n-1].Time)
		}
		total += len(dump.Keyframes)
		t.AppendRow(table.Row{actorLabel(dump.ActorID, dump.Name), len(dump.Keyframes), first, last})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d actors", len(dumps)), total, "", ""})
	return t.Render(), nil
}

// FormatQuota renders the point budget.
func (f *TableFormatter) FormatQuota(snapshot *core.QuotaSnapshot) (string, error) {
	if snapshot == nil {
		return "", nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"Limit/hour", "Spent", "Remaining", "Resets in"})
	t.AppendRow(table.Row{
		snapshot.LimitPerHour,
		fmt.Sprintf("%.2f", snapshot.PointsSpentThisHour),
		fmt.Sprintf("%.2f", snapshot.Remaining()),
		snapshot.ResetIn().String(),
	})
	return t.Render(), nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func enemiesLabel(fight core.Fight) string {
	if len(fight.Enemies) == 0 {
		return "-"
	}
	return strings.Join(fight.Enemies, ", ")
}

func outcomeLabel(fight core.Fight) string {
	if fight.Kill {
		return "kill"
	}
	if fight.FightPercentage != nil {
		return fmt.Sprintf("wipe (%g%%)", *fight.FightPercentage)
	}
	return "wipe"
}

func durationLabel(fight core.Fight) string {
	return fight.Duration.Round(time.Second).String()
}

func actorLabel(id int64, name string) string {
	if name == "" {
		return fmt.Sprintf("#%d", id)
	}
	return fmt.Sprintf("%s (#%d)", name, id)
}
