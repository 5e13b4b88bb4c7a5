package output

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
	"github.com/fightpath/fightpath/internal/core/trajectory"
)

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("table")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	format, err = ParseFormat("yml")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)

	format, err = ParseFormat("msgpack")
	require.NoError(t, err)
	require.True(t, format.Binary())

	format, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	_, err = ParseFormat("csv")
	require.Error(t, err)
}

func sampleReport() *core.Report {
	pct := 37.2
	return &core.Report{
		Code: "aBcD1234",
		Fights: []core.Fight{
			{ID: 1, Kill: true, Enemies: []string{"Athena"}, Duration: 8*time.Minute + 2*time.Second},
			{ID: 2, FightPercentage: &pct, Enemies: []string{"Athena", "Themis"}, Duration: 7 * time.Minute},
		},
		Actors: map[int64]core.Actor{
			1: {ID: 1, Name: "Alpha", Type: core.ActorTypePlayer, Subtype: "Paladin"},
		},
	}
}

func sampleFrames() []engine.Frame {
	return []engine.Frame{
		{Index: 0, Time: 1000, Actors: []engine.ActorPosition{
			{ActorID: 1, Name: "Alpha", Role: core.JobRoleTank, Position: core.Position{X: 0.5, Y: 0.25}},
		}},
	}
}

func TestTableFormatter(t *testing.T) {
	f := NewFormatter(FormatTable)

	rendered, err := f.FormatReport(sampleReport())
	require.NoError(t, err)
	require.Contains(t, rendered, "Report aBcD1234")
	require.Contains(t, rendered, "Athena, Themis")
	require.Contains(t, rendered, "wipe (37.2%)")
	require.Contains(t, rendered, "8m2s")
	require.Contains(t, rendered, "2 FIGHTS")

	rendered, err = f.FormatFrames(sampleFrames())
	require.NoError(t, err)
	require.Contains(t, rendered, "Alpha (#1)")
	require.Contains(t, rendered, "0.500")
	require.Contains(t, rendered, "tank")

	rendered, err = f.FormatQuota(&core.QuotaSnapshot{LimitPerHour: 3600, PointsSpentThisHour: 100, PointsResetIn: 120})
	require.NoError(t, err)
	require.Contains(t, rendered, "3500.00")
	require.Contains(t, rendered, "2m0s")
}

func TestMarkdownFormatter(t *testing.T) {
	rendered, err := NewFormatter(FormatMarkdown).FormatReport(sampleReport())
	require.NoError(t, err)
	require.Contains(t, rendered, "## Report aBcD1234")
	require.Contains(t, rendered, "| 0 | 1 | Athena | killed in 8m2s | 8m2s |")
	require.Contains(t, rendered, "wiped at 37.2% after 7m0s")
}

func TestJSONFormatter(t *testing.T) {
	rendered, err := NewFormatter(FormatJSON).FormatFrames(sampleFrames())
	require.NoError(t, err)

	var decoded []engine.Frame
	require.NoError(t, json.Unmarshal([]byte(rendered), &decoded))
	require.Equal(t, sampleFrames(), decoded)

	rendered, err = NewFormatter(FormatJSON).FormatQuota(&core.QuotaSnapshot{LimitPerHour: 100, PointsSpentThisHour: 10, PointsResetIn: 60})
	require.NoError(t, err)
	require.Contains(t, rendered, "\"points_remaining\": 90")
	require.Contains(t, rendered, "\"limit_per_hour\": 100")
	require.Contains(t, rendered, "\"resets_in\": \"1m0s\"")
}

func TestYAMLFormatter(t *testing.T) {
	rendered, err := NewFormatter(FormatYAML).FormatReport(sampleReport())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(rendered), &decoded))
	require.Equal(t, "aBcD1234", decoded["code"])

	rendered, err = NewFormatter(FormatYAML).FormatQuota(&core.QuotaSnapshot{LimitPerHour: 100, PointsSpentThisHour: 10, PointsResetIn: 60})
	require.NoError(t, err)
	require.Contains(t, rendered, "limit_per_hour: 100")
	require.Contains(t, rendered, "points_remaining: 90")
}

func TestMsgpackTrajectories(t *testing.T) {
	set := trajectory.NewSet()
	set.Insert(1, 0, core.Position{X: 1, Y: 2})
	set.Insert(1, 250, core.Position{X: 3, Y: 4})
	set.Insert(7, 100, core.Position{X: 5, Y: 5})

	dumps := Dumps(set, sampleReport().Actors)
	require.Len(t, dumps, 2)
	require.Equal(t, "Alpha", dumps[0].Name)

	rendered, err := NewFormatter(FormatMsgpack).FormatTrajectories(dumps)
	require.NoError(t, err)

	var decoded []TrajectoryDump
	require.NoError(t, DecodeMsgpack([]byte(rendered), &decoded))
	require.Equal(t, dumps, decoded)
}

func TestTableTrajectories(t *testing.T) {
	set := trajectory.NewSet()
	set.Insert(3, 10, core.Position{X: 1, Y: 1})
	set.Insert(3, 90, core.Position{X: 2, Y: 1})

	rendered, err := NewFormatter(FormatTable).FormatTrajectories(Dumps(set, nil))
	require.NoError(t, err)
	require.Contains(t, rendered, "#3")
	require.Contains(t, rendered, "1 ACTORS")
}
