package output

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
)

// MsgpackFormatter renders results as MessagePack using the JSON field names.
// The returned string holds raw bytes.
type MsgpackFormatter struct{}

func (f *MsgpackFormatter) FormatReport(report *core.Report) (string, error) {
	return encodeMsgpack(report)
}

func (f *MsgpackFormatter) FormatFrames(frames []engine.Frame) (string, error) {
	return encodeMsgpack(frames)
}

func (f *MsgpackFormatter) FormatTrajectories(dumps []TrajectoryDump) (string, error) {
	return encodeMsgpack(dumps)
}

func (f *MsgpackFormatter) FormatQuota(snapshot *core.QuotaSnapshot) (string, error) {
	return encodeMsgpack(snapshot)
}

func encodeMsgpack(value any) (string, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DecodeMsgpack reads a value written by MsgpackFormatter.
func DecodeMsgpack(data []byte, out any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(out)
}
