package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fightpath/fightpath/internal/core/engine"
	"github.com/fightpath/fightpath/internal/core/fflogs"
	"github.com/fightpath/fightpath/internal/core/trajectory"
)

func TestFromErrorClassifiesDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"transport", &fflogs.TransportError{Query: "ReportEvents", StatusCode: 503}, CodeExternalService, http.StatusBadGateway},
		{"api", &fflogs.APIError{Query: "ReportFights", Messages: []string{"bad code"}}, CodeExternalService, http.StatusBadGateway},
		{"protocol", &fflogs.ProtocolViolationError{Query: "ReportEvents", Reason: "no data"}, CodeProtocolViolation, http.StatusBadGateway},
		{"wrapped protocol", fmt.Errorf("fetch: %w", &fflogs.ProtocolViolationError{Query: "ReportEvents"}), CodeProtocolViolation, http.StatusBadGateway},
		{"empty trajectory", trajectory.ErrEmptyTrajectory, CodeDataProcessing, http.StatusUnprocessableEntity},
		{"missing fight", fmt.Errorf("%w: 9", engine.ErrFightNotFound), CodeNotFound, http.StatusNotFound},
		{"invalid time", trajectory.ErrInvalidTime, CodeInvalidInput, http.StatusBadRequest},
		{"deadline", context.DeadlineExceeded, CodeTimeout, http.StatusGatewayTimeout},
		{"other", fmt.Errorf("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := FromError(context.Background(), tt.err)
			require.Equal(t, tt.code, env.Code)
			require.Equal(t, tt.status, HTTPStatusFromEnvelope(env))
			require.NotEmpty(t, env.CorrelationID)
		})
	}
}

func TestFromErrorKeepsEnvelope(t *testing.T) {
	env := NewNotFoundError("fight 9 not found")
	require.Same(t, env, FromError(context.Background(), env))
}

func TestFromErrorNil(t *testing.T) {
	env := FromError(context.Background(), nil)
	require.Equal(t, CodeInternal, env.Code)
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/reports/abc/fights", nil)
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, &fflogs.APIError{Query: "ReportFights", Messages: []string{"Unknown report"}})

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, CodeExternalService, body.Error.Code)
	require.Equal(t, "ReportFights", body.Error.Details["query"])
	require.NotEmpty(t, body.Error.RequestID)
}
