package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/fightpath/fightpath/internal/core/engine"
	"github.com/fightpath/fightpath/internal/core/fflogs"
	"github.com/fightpath/fightpath/internal/core/trajectory"
	errwrap "github.com/fightpath/fightpath/internal/errors"
)

// Exit codes outside the foundry catalog, following sysexits.h.
const (
	exitUsage             foundry.ExitCode = 64
	exitProtocolViolation foundry.ExitCode = 76
)

// configError marks failures to load or validate settings.
type configError struct {
	err error
}

func (e *configError) Error() string { return "invalid configuration: " + e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// usageError marks bad command arguments.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exitCodeFor maps a command error to its process exit code.
func exitCodeFor(err error) foundry.ExitCode {
	var (
		cfgErr   *configError
		usageErr *usageError
		protoErr *fflogs.ProtocolViolationError
		apiErr   *fflogs.APIError
		transErr *fflogs.TransportError
		envelope *errors.ErrorEnvelope
	)
	switch {
	case err == nil:
		return foundry.ExitCode(0)
	case stderrors.As(err, &cfgErr):
		return foundry.ExitConfigInvalid
	case stderrors.As(err, &usageErr), stderrors.Is(err, trajectory.ErrInvalidTime):
		return exitUsage
	case stderrors.As(err, &protoErr):
		return exitProtocolViolation
	case stderrors.As(err, &apiErr), stderrors.As(err, &transErr), stderrors.Is(err, context.DeadlineExceeded):
		return foundry.ExitExternalServiceUnavailable
	case stderrors.Is(err, engine.ErrFightNotFound), stderrors.Is(err, trajectory.ErrEmptyTrajectory):
		return foundry.ExitFileNotFound
	case stderrors.As(err, &envelope) && envelope.Code == errwrap.CodeConfigInvalid:
		return foundry.ExitConfigInvalid
	default:
		return foundry.ExitFailure
	}
}

// ExitForError exits with the code matching err.
func ExitForError(err error) {
	ExitWithCodeStderr(exitCodeFor(err), "Command failed", err)
}

// ExitWithCode logs err with the exit code metadata and exits. A nil logger
// falls back to stderr.
func ExitWithCode(logger *logging.Logger, exitCode foundry.ExitCode, msg string, err error) {
	if logger == nil {
		ExitWithCodeStderr(exitCode, msg, err)
		return
	}

	info, ok := foundry.GetExitCodeInfo(exitCode)
	fields := []zap.Field{zap.Int("exit_code", int(exitCode))}
	if ok {
		fields = append(fields,
			zap.String("exit_name", info.Name),
			zap.String("exit_category", info.Category))
	}

	var envelope *errors.ErrorEnvelope
	if stderrors.As(err, &envelope) {
		fields = append(fields,
			zap.String("error_code", envelope.Code),
			zap.String("correlation_id", envelope.CorrelationID))
		if envelope.Context != nil {
			fields = append(fields, zap.Any("error_context", envelope.Context))
		}
		if original, ok := envelope.Original.(error); ok {
			err = original
		}
	}

	fields = append(fields, zap.Error(err))
	logger.Error(msg, fields...)
	os.Exit(int(exitCode))
}

// ExitWithCodeStderr writes the failure to stderr and exits. Use it before
// the logger exists and for command errors, which the user reads directly.
func ExitWithCodeStderr(exitCode foundry.ExitCode, msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	if info, ok := foundry.GetExitCodeInfo(exitCode); ok {
		fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)
	}
	os.Exit(int(exitCode))
}
