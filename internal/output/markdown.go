package output

import (
	"fmt"
	"strings"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
)

// MarkdownFormatter renders results as markdown tables.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) FormatReport(report *core.Report) (string, error) {
	if report == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Report %s\n\n", escapeMarkdownCell(report.Code)))
	sb.WriteString("| # | Fight | Enemies | Outcome | Duration |\n")
	sb.WriteString("|---|-------|---------|---------|----------|\n")
	for i, fight := range report.Fights {
		sb.WriteString(fmt.Sprintf("| %d | %d | %s | %s | %s |\n",
			i,
			fight.ID,
			escapeMarkdownCell(enemiesLabel(fight)),
			escapeMarkdownCell(engine.DescribeOutcome(fight)),
			durationLabel(fight),
		))
	}
	return sb.String(), nil
}

func (f *MarkdownFormatter) FormatFrames(frames []engine.Frame) (string, error) {
	var sb strings.Builder
	sb.WriteString("| Frame | Time (ms) | Actor | Role | X | Y |\n")
	sb.WriteString("|-------|-----------|-------|------|---|---|\n")
	for _, frame := range frames {
		for _, actor := range frame.Actors {
			sb.WriteString(fmt.Sprintf("| %d | %.0f | %s | %s | %.3f | %.3f |\n",
				frame.Index,
				frame.Time,
				escapeMarkdownCell(actorLabel(actor.ActorID, actor.Name)),
				actor.Role,
				actor.Position.X,
				actor.Position.Y,
			))
		}
	}
	return sb.String(), nil
}

func (f *MarkdownFormatter) FormatTrajectories(dumps []TrajectoryDump) (string, error) {
	var sb strings.Builder
	for _, dump := range dumps {
		sb.WriteString(fmt.Sprintf("### %s\n\n", escapeMarkdownCell(actorLabel(dump.ActorID, dump.Name))))
		sb.WriteString("| Time (ms) | X | Y |\n")
		sb.WriteString("|-----------|---|---|\n")
		for _, kf := range dump.Keyframes {
			sb.WriteString(fmt.Sprintf("| %d | %g | %g |\n", kf.Time, kf.Position.X, kf.Position.Y))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (f *MarkdownFormatter) FormatQuota(snapshot *core.QuotaSnapshot) (string, error) {
	if snapshot == nil {
		return "", nil
	}
	return fmt.Sprintf("| Limit/hour | Spent | Remaining | Resets in |\n|---|---|---|---|\n| %d | %.2f | %.2f | %s |\n",
		snapshot.LimitPerHour,
		snapshot.PointsSpentThisHour,
		snapshot.Remaining(),
		snapshot.ResetIn(),
	), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
