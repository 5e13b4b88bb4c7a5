package observability_test

import (
	"testing"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fightpath/fightpath/internal/observability"
)

func TestInitCLILogger(t *testing.T) {
	observability.InitCLILogger("fightpath-test", true)
	require.NotNil(t, observability.CLILogger)

	observability.CLILogger.Debug("Fetched report events",
		zap.String("report", "abc"),
		zap.Int("pages", 2))
}

func TestInitServerLogger(t *testing.T) {
	for _, profile := range []string{"structured", "simple"} {
		t.Run(profile, func(t *testing.T) {
			observability.InitServerLogger("fightpath-test", "debug", profile)
			require.NotNil(t, observability.ServerLogger)
			require.Same(t, observability.ServerLogger, observability.Logger())

			observability.ServerLogger.Info("Serving positions",
				zap.String("report", "abc"),
				zap.Int64("fight", 3))
		})
	}
}

func TestCrucibleVersion(t *testing.T) {
	version := crucible.GetVersion()
	require.NotEmpty(t, version.Gofulmen)
	require.NotEmpty(t, version.Crucible)
}
