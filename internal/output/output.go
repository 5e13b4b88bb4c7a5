package output

import (
	"fmt"
	"strings"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
	"github.com/fightpath/fightpath/internal/core/trajectory"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
	FormatMsgpack  Format = "msgpack"
)

// Formatter renders command results.
type Formatter interface {
	FormatReport(report *core.Report) (string, error)
	FormatFrames(frames []engine.Frame) (string, error)
	FormatTrajectories(dumps []TrajectoryDump) (string, error)
	FormatQuota(snapshot *core.QuotaSnapshot) (string, error)
}

// TrajectoryDump is the compacted keyframe set of one actor.
type TrajectoryDump struct {
	ActorID   int64                 `json:"actor_id" yaml:"actor_id"`
	Name      string                `json:"name,omitempty" yaml:"name,omitempty"`
	Keyframes []trajectory.Keyframe `json:"keyframes" yaml:"keyframes"`
}

// Dumps collects the keyframes of every trajectory in set, naming actors
// from the table when known.
func Dumps(set *trajectory.Set, actors map[int64]core.Actor) []TrajectoryDump {
	ids := set.IDs()
	dumps := make([]TrajectoryDump, 0, len(ids))
	for _, id := range ids {
		tr, _ := set.Get(id)
		dumps = append(dumps, TrajectoryDump{
			ActorID:   id,
			Name:      actors[id].Name,
			Keyframes: tr.Keyframes(),
		})
	}
	return dumps
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	case string(FormatMsgpack):
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// Binary reports whether the format produces non-text output.
func (f Format) Binary() bool {
	return f == FormatMsgpack
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMsgpack:
		return &MsgpackFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}
