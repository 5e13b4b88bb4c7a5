package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
	"github.com/fightpath/fightpath/internal/core/trajectory"
	"github.com/fightpath/fightpath/internal/output"
)

type stubLoader struct {
	report *core.Report
	data   *engine.FightData
}

func (s *stubLoader) Report(ctx context.Context, code string) (*core.Report, error) {
	return s.report, nil
}

func (s *stubLoader) LoadFight(ctx context.Context, code string, fightID int64) (*engine.FightData, error) {
	if _, ok := s.report.FightByID(fightID); !ok {
		return nil, fmt.Errorf("%w: %d", engine.ErrFightNotFound, fightID)
	}
	return s.data, nil
}

func newFightsRouter() http.Handler {
	report := &core.Report{
		Code: "abc",
		Fights: []core.Fight{{
			ID:          2,
			StartTime:   0,
			EndTime:     1000,
			Kill:        true,
			Enemies:     []string{"Boss"},
			BoundingBox: &core.Rect{Max: core.Position{X: 200, Y: 100}},
		}},
		Actors: map[int64]core.Actor{
			1: {ID: 1, Name: "Alpha", Type: core.ActorTypePlayer, Subtype: "Sage"},
		},
	}
	set := trajectory.NewSet()
	set.Insert(1, 0, core.Position{X: 0, Y: 0})
	set.Insert(1, 1000, core.Position{X: 200, Y: 100})

	h := &Fights{
		Loader:     &stubLoader{report: report, data: &engine.FightData{Report: report, Fight: report.Fights[0], Trajectories: set}},
		SampleRate: 2,
	}
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func get(t *testing.T, handler http.Handler, target string, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListFights(t *testing.T) {
	rec := get(t, newFightsRouter(), "/v1/reports/abc/fights", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report core.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	require.Equal(t, "abc", report.Code)
	require.Len(t, report.Fights, 1)
	require.Equal(t, []string{"Boss"}, report.Fights[0].Enemies)
}

func TestPositionsAt(t *testing.T) {
	router := newFightsRouter()

	rec := get(t, router, "/v1/reports/abc/fights/2/positions?at=500", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var frame engine.Frame
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&frame))
	require.Len(t, frame.Actors, 1)
	require.Equal(t, core.Position{X: 100, Y: 50}, frame.Actors[0].Position)
	require.Equal(t, core.JobRoleHealer, frame.Actors[0].Role)

	rec = get(t, router, "/v1/reports/abc/fights/2/positions?at=500&normalize=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&frame))
	require.Equal(t, core.Position{X: 0.5, Y: 0.5}, frame.Actors[0].Position)

	rec = get(t, router, "/v1/reports/abc/fights/2/positions?at=250&actor=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var actor ActorPositionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&actor))
	require.Equal(t, core.Position{X: 50, Y: 25}, actor.Position)
}

func TestPositionsErrors(t *testing.T) {
	router := newFightsRouter()

	require.Equal(t, http.StatusBadRequest, get(t, router, "/v1/reports/abc/fights/2/positions", "").Code)
	require.Equal(t, http.StatusBadRequest, get(t, router, "/v1/reports/abc/fights/2/positions?at=NaN", "").Code)
	require.Equal(t, http.StatusBadRequest, get(t, router, "/v1/reports/abc/fights/x/positions?at=1", "").Code)
	require.Equal(t, http.StatusNotFound, get(t, router, "/v1/reports/abc/fights/9/positions?at=1", "").Code)
	require.Equal(t, http.StatusUnprocessableEntity, get(t, router, "/v1/reports/abc/fights/2/positions?at=1&actor=77", "").Code)
}

func TestFramesUsesRate(t *testing.T) {
	router := newFightsRouter()

	rec := get(t, router, "/v1/reports/abc/fights/2/frames", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var frames []engine.Frame
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&frames))
	require.Len(t, frames, 2)

	rec = get(t, router, "/v1/reports/abc/fights/2/frames?rate=10", "")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&frames))
	require.Len(t, frames, 10)

	for _, rate := range []string{"0", "61", "NaN", "Inf", "-Inf"} {
		require.Equal(t, http.StatusBadRequest, get(t, router, "/v1/reports/abc/fights/2/frames?rate="+rate, "").Code, "rate %s", rate)
	}
}

func TestTrajectoriesNegotiatesMsgpack(t *testing.T) {
	rec := get(t, newFightsRouter(), "/v1/reports/abc/fights/2/trajectories", MsgpackContentType)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, MsgpackContentType, rec.Header().Get("Content-Type"))

	var dumps []output.TrajectoryDump
	require.NoError(t, output.DecodeMsgpack(rec.Body.Bytes(), &dumps))
	require.Len(t, dumps, 1)
	require.Equal(t, "Alpha", dumps[0].Name)
	require.Len(t, dumps[0].Keyframes, 2)
}
