package output

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) FormatReport(report *core.Report) (string, error) {
	return f.encode(report)
}

func (f *JSONFormatter) FormatFrames(frames []engine.Frame) (string, error) {
	return f.encode(frames)
}

func (f *JSONFormatter) FormatTrajectories(dumps []TrajectoryDump) (string, error) {
	return f.encode(dumps)
}

func (f *JSONFormatter) FormatQuota(snapshot *core.QuotaSnapshot) (string, error) {
	if snapshot == nil {
		return f.encode(nil)
	}
	return f.encode(quotaView{
		QuotaSnapshot:    *snapshot,
		PointsRemaining:  snapshot.Remaining(),
		ResetsInDuration: snapshot.ResetIn().String(),
	})
}

func (f *JSONFormatter) encode(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// quotaView adds derived fields to a quota snapshot for structured output.
type quotaView struct {
	core.QuotaSnapshot `yaml:",inline"`
	PointsRemaining    float64 `json:"points_remaining" yaml:"points_remaining"`
	ResetsInDuration   string  `json:"resets_in" yaml:"resets_in"`
}

// YAMLFormatter renders results as YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatReport(report *core.Report) (string, error) {
	return encodeYAML(report)
}

func (f *YAMLFormatter) FormatFrames(frames []engine.Frame) (string, error) {
	return encodeYAML(frames)
}

func (f *YAMLFormatter) FormatTrajectories(dumps []TrajectoryDump) (string, error) {
	return encodeYAML(dumps)
}

func (f *YAMLFormatter) FormatQuota(snapshot *core.QuotaSnapshot) (string, error) {
	if snapshot == nil {
		return encodeYAML(nil)
	}
	return encodeYAML(quotaView{
		QuotaSnapshot:    *snapshot,
		PointsRemaining:  snapshot.Remaining(),
		ResetsInDuration: snapshot.ResetIn().String(),
	})
}

func encodeYAML(value any) (string, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
