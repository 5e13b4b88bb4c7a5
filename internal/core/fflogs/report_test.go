package fflogs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
)

const fightsBody = `{"data":{
  "rateLimitData":{"limitPerHour":3600,"pointsSpentThisHour":12,"pointsResetIn":900},
  "reportData":{"report":{
    "fights":[
      {"id":3,"startTime":1000,"endTime":61000,"kill":false,"fightPercentage":42.5,
       "enemyNPCs":[{"id":10},{"id":11},{"id":10}],
       "boundingBox":{"minX":8000,"maxX":12000,"minY":8000,"maxY":12000}},
      {"id":4,"startTime":70000,"endTime":130000,"kill":true,"fightPercentage":0,
       "enemyNPCs":[{"id":10}],"boundingBox":null}
    ],
    "masterData":{"actors":[
      {"id":1,"name":"Alpha","type":"Player","subType":"Paladin"},
      {"id":10,"name":"Hesperos","type":"NPC","subType":"Boss"},
      {"id":11,"name":"Multiple Enemies","type":"NPC","subType":"NPC"}
    ]}
  }}
}}`

func TestReportBuildsFights(t *testing.T) {
	client, waits := newTestClient(t, respond(fightsBody))

	report, err := client.Report(context.Background(), "abc")
	require.NoError(t, err)
	require.Empty(t, *waits)
	require.Equal(t, "abc", report.Code)
	require.Len(t, report.Actors, 3)
	require.Equal(t, core.ActorTypePlayer, report.Actors[1].Type)

	require.Len(t, report.Fights, 2)
	wipe := report.Fights[0]
	require.False(t, wipe.Kill)
	require.Equal(t, []string{"Hesperos"}, wipe.Enemies)
	require.Equal(t, time.Minute, wipe.Duration)
	require.NotNil(t, wipe.BoundingBox)
	require.Equal(t, core.Position{X: 8000, Y: 8000}, wipe.BoundingBox.Min)
	require.InDelta(t, 42.5, *wipe.FightPercentage, 1e-9)

	kill, ok := report.FightByID(4)
	require.True(t, ok)
	require.True(t, kill.Kill)
	require.Nil(t, kill.BoundingBox)
}

func TestReportMissingMasterData(t *testing.T) {
	client, _ := newTestClient(t, respond(`{"data":{"reportData":{"report":{"fights":[]}}}}`))

	_, err := client.Report(context.Background(), "abc")
	var protoErr *ProtocolViolationError
	require.ErrorAs(t, err, &protoErr)
}

func TestEventsPageDecodesEvents(t *testing.T) {
	client, _ := newTestClient(t, respond(`{"data":{
	  "rateLimitData":{"limitPerHour":3600,"pointsSpentThisHour":1,"pointsResetIn":10},
	  "reportData":{"report":{"events":{
	    "data":[{"type":"damage","timestamp":1200,"fight":3,"sourceID":1,"targetID":10,
	             "sourceResources":{"hitPoints":1,"maxHitPoints":1,"mp":0,"facing":0,"x":9000,"y":9100},
	             "targetResources":{"hitPoints":1,"maxHitPoints":1,"mp":0,"facing":0,"x":10000,"y":10000}}],
	    "nextPageTimestamp":5000}}}}}`))

	page, err := client.EventsPage(context.Background(), "abc", 1000, 61000, 3)
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	require.NotNil(t, page.NextCursor)
	require.InDelta(t, 5000.0, *page.NextCursor, 1e-9)

	sample, ok := page.Events[0].SourcePosition()
	require.True(t, ok)
	require.Equal(t, int64(1), sample.EntityID)
	require.Equal(t, core.Position{X: 9000, Y: 9100}, sample.Position)
}

func TestEventsPageMissingDataIsProtocolViolation(t *testing.T) {
	client, _ := newTestClient(t, respond(`{"data":{"reportData":{"report":{"events":{"data":null}}}}}`))

	_, err := client.EventsPage(context.Background(), "abc", 0, 10, 1)
	var protoErr *ProtocolViolationError
	require.ErrorAs(t, err, &protoErr)
}

func TestFetchEventsThroughClient(t *testing.T) {
	var starts []float64
	client, waits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body struct {
			Variables ReportEventsVariables `json:"variables"`
		}
		_ = json.Unmarshal(raw, &body)
		starts = append(starts, body.Variables.StartTime)

		w.Header().Set("Content-Type", "application/json")
		if body.Variables.StartTime == 0 {
			_, _ = w.Write([]byte(`{"data":{"rateLimitData":{"limitPerHour":100,"pointsSpentThisHour":10,"pointsResetIn":60},"reportData":{"report":{"events":{"data":[{"type":"cast","timestamp":10},{"type":"cast","timestamp":20}],"nextPageTimestamp":100}}}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"rateLimitData":{"limitPerHour":1000,"pointsSpentThisHour":10,"pointsResetIn":60},"reportData":{"report":{"events":{"data":[{"type":"cast","timestamp":150}],"nextPageTimestamp":null}}}}}`))
	})

	fetcher := &engine.EventFetcher{Source: client}
	evs, err := fetcher.FetchEvents(context.Background(), "abc", 0, 200, 1)
	require.NoError(t, err)
	require.Len(t, evs, 3)
	require.Equal(t, []float64{0, 100}, starts)
	require.Equal(t, []time.Duration{60 * time.Second}, *waits)
}
