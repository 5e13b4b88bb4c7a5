package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fightpath/fightpath/internal/core/engine"
	"github.com/fightpath/fightpath/internal/core/fflogs"
	"github.com/fightpath/fightpath/internal/core/trajectory"
	errwrap "github.com/fightpath/fightpath/internal/errors"
	"github.com/fightpath/fightpath/internal/output"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want foundry.ExitCode
	}{
		{"nil", nil, foundry.ExitCode(0)},
		{"config", &configError{err: fmt.Errorf("api.url is required")}, foundry.ExitConfigInvalid},
		{"usage", usagef("bad %s", "flag"), exitUsage},
		{"nan time", fmt.Errorf("frame: %w", trajectory.ErrInvalidTime), exitUsage},
		{"protocol", &fflogs.ProtocolViolationError{Query: "Report", Reason: "missing report"}, exitProtocolViolation},
		{"api", &fflogs.APIError{Query: "Report", Messages: []string{"denied"}}, foundry.ExitExternalServiceUnavailable},
		{"transport", &fflogs.TransportError{Query: "Events", StatusCode: 502}, foundry.ExitExternalServiceUnavailable},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), foundry.ExitExternalServiceUnavailable},
		{"missing fight", fmt.Errorf("%w: report x has no fight 9", engine.ErrFightNotFound), foundry.ExitFileNotFound},
		{"empty trajectory", trajectory.ErrEmptyTrajectory, foundry.ExitFileNotFound},
		{"config envelope", errwrap.NewConfigInvalidError("no token"), foundry.ExitConfigInvalid},
		{"other", fmt.Errorf("boom"), foundry.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestSummaryLine(t *testing.T) {
	var full fflogs.ReportSummary
	require.NoError(t, json.Unmarshal([]byte(`{
		"code": "aBcD1234",
		"title": "Savage progression",
		"owner": {"name": "Themis"},
		"zone": {"name": "AAC Light-heavyweight"}
	}`), &full))
	assert.Equal(t, "Savage progression - AAC Light-heavyweight (uploaded by Themis)", summaryLine(&full))

	assert.Equal(t, "aBcD1234", summaryLine(&fflogs.ReportSummary{Code: "aBcD1234"}))
}

func newOutputCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addOutputFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestResolveOutputFormat(t *testing.T) {
	format, err := resolveOutputFormat(newOutputCommand(t))
	require.NoError(t, err)
	assert.Equal(t, output.FormatTable, format)

	format, err = resolveOutputFormat(newOutputCommand(t, "-f", "json"))
	require.NoError(t, err)
	assert.Equal(t, output.FormatJSON, format)

	_, err = resolveOutputFormat(newOutputCommand(t, "--output-format", "csv"))
	var usageErr *usageError
	require.ErrorAs(t, err, &usageErr)
	assert.Equal(t, exitUsage, exitCodeFor(err))
}

func TestWriteOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	cmd := newOutputCommand(t, "-f", "json", "-o", path)

	var got output.Formatter
	err := writeOutput(cmd, func(f output.Formatter) (string, error) {
		got = f
		return `{"ok":true}`, nil
	})
	require.NoError(t, err)
	assert.IsType(t, &output.JSONFormatter{}, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"ok\":true}\n", string(data))
}

func TestWriteOutputPropagatesRenderError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	cmd := newOutputCommand(t, "-o", path)

	err := writeOutput(cmd, func(output.Formatter) (string, error) {
		return "", fmt.Errorf("render failed")
	})
	require.EqualError(t, err, "render failed")
	assert.NoFileExists(t, path)
}

func TestPositionsRejectsNonFiniteRate(t *testing.T) {
	for _, rate := range []string{"NaN", "Inf", "-1", "0"} {
		cmd := &cobra.Command{Use: "positions"}
		addPositionsFlags(cmd)
		require.NoError(t, cmd.Flags().Parse([]string{"--rate", rate}))

		err := runPositions(cmd, []string{"aBcD1234", "7"})
		var usageErr *usageError
		require.ErrorAs(t, err, &usageErr, "rate %s", rate)
		assert.Equal(t, exitUsage, exitCodeFor(err))
	}
}
