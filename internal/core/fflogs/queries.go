package fflogs

import (
	"encoding/json"

	"github.com/fightpath/fightpath/internal/core"
)

// Query is one GraphQL operation whose response decodes into T.
type Query[T any] interface {
	// Name is the operation name used in logs and metrics.
	Name() string
	// Document is the GraphQL query text.
	Document() string
	// Quota extracts the point budget from a response, or nil when the
	// operation does not report one.
	Quota(response *T) *core.QuotaSnapshot
}

const rateLimitSelection = `
  rateLimitData {
    limitPerHour
    pointsSpentThisHour
    pointsResetIn
  }`

// RateLimitData is the point budget block returned alongside a query.
type RateLimitData struct {
	LimitPerHour        int64   `json:"limitPerHour"`
	PointsSpentThisHour float64 `json:"pointsSpentThisHour"`
	PointsResetIn       int64   `json:"pointsResetIn"`
}

// Snapshot converts the block into a quota snapshot.
func (r *RateLimitData) Snapshot() *core.QuotaSnapshot {
	if r == nil {
		return nil
	}
	return &core.QuotaSnapshot{
		LimitPerHour:        r.LimitPerHour,
		PointsSpentThisHour: r.PointsSpentThisHour,
		PointsResetIn:       r.PointsResetIn,
	}
}

// ReportEventsQuery fetches one page of report events with actor resources.
type ReportEventsQuery struct{}

// ReportEventsVariables scopes an events page.
type ReportEventsVariables struct {
	Code      string  `json:"code"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	FightIDs  []int64 `json:"fightIDs"`
}

type ReportEventsResponse struct {
	RateLimitData *RateLimitData `json:"rateLimitData"`
	ReportData    *struct {
		Report *struct {
			Events *EventPage `json:"events"`
		} `json:"report"`
	} `json:"reportData"`
}

// EventPage is the raw events connection of a report.
type EventPage struct {
	Data              json.RawMessage `json:"data"`
	NextPageTimestamp *float64        `json:"nextPageTimestamp"`
}

func (ReportEventsQuery) Name() string { return "ReportEvents" }

func (ReportEventsQuery) Document() string {
	return `query ReportEvents($code: String!, $startTime: Float!, $endTime: Float!, $fightIDs: [Int]!) {` +
		rateLimitSelection + `
  reportData {
    report(code: $code) {
      events(startTime: $startTime, endTime: $endTime, fightIDs: $fightIDs, includeResources: true) {
        data
        nextPageTimestamp
      }
    }
  }
}`
}

func (ReportEventsQuery) Quota(response *ReportEventsResponse) *core.QuotaSnapshot {
	if response == nil {
		return nil
	}
	return response.RateLimitData.Snapshot()
}

// ReportFightsQuery fetches the fights and actors of a report.
type ReportFightsQuery struct{}

// ReportVariables selects a report by code.
type ReportVariables struct {
	Code string `json:"code"`
}

type ReportFightsResponse struct {
	RateLimitData *RateLimitData `json:"rateLimitData"`
	ReportData    *struct {
		Report *FightsReport `json:"report"`
	} `json:"reportData"`
}

// FightsReport is the fights and master data section of a report.
type FightsReport struct {
	Fights     []*FightRecord `json:"fights"`
	MasterData *struct {
		Actors []*ActorRecord `json:"actors"`
	} `json:"masterData"`
}

// FightRecord is one fight as returned by the API.
type FightRecord struct {
	ID              int64    `json:"id"`
	StartTime       float64  `json:"startTime"`
	EndTime         float64  `json:"endTime"`
	Kill            *bool    `json:"kill"`
	FightPercentage *float64 `json:"fightPercentage"`
	EnemyNPCs       []*struct {
		ID *int64 `json:"id"`
	} `json:"enemyNPCs"`
	BoundingBox *struct {
		MinX int64 `json:"minX"`
		MaxX int64 `json:"maxX"`
		MinY int64 `json:"minY"`
		MaxY int64 `json:"maxY"`
	} `json:"boundingBox"`
}

// ActorRecord is one master data actor.
type ActorRecord struct {
	ID      *int64  `json:"id"`
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	SubType *string `json:"subType"`
}

func (ReportFightsQuery) Name() string { return "ReportFights" }

func (ReportFightsQuery) Document() string {
	return `query ReportFights($code: String!) {` + rateLimitSelection + `
  reportData {
    report(code: $code) {
      fights {
        id
        startTime
        endTime
        kill
        fightPercentage
        enemyNPCs {
          id
        }
        boundingBox {
          minX
          maxX
          minY
          maxY
        }
      }
      masterData {
        actors {
          id
          name
          type
          subType
        }
      }
    }
  }
}`
}

func (ReportFightsQuery) Quota(response *ReportFightsResponse) *core.QuotaSnapshot {
	if response == nil {
		return nil
	}
	return response.RateLimitData.Snapshot()
}

// RateLimitQuery reads the current point budget. It reports no quota to the
// gate so inspecting the budget never blocks on it.
type RateLimitQuery struct{}

type RateLimitResponse struct {
	RateLimitData *RateLimitData `json:"rateLimitData"`
}

func (RateLimitQuery) Name() string { return "RateLimit" }

func (RateLimitQuery) Document() string {
	return `query RateLimit {` + rateLimitSelection + `
}`
}

func (RateLimitQuery) Quota(*RateLimitResponse) *core.QuotaSnapshot { return nil }

// ReportSummaryQuery fetches report metadata without the point budget.
type ReportSummaryQuery struct{}

type ReportSummaryResponse struct {
	ReportData *struct {
		Report *ReportSummary `json:"report"`
	} `json:"reportData"`
}

// ReportSummary is the descriptive header of a report.
type ReportSummary struct {
	Code      string  `json:"code" yaml:"code"`
	Title     string  `json:"title" yaml:"title"`
	StartTime float64 `json:"startTime" yaml:"start_time"`
	EndTime   float64 `json:"endTime" yaml:"end_time"`
	Owner     *struct {
		Name string `json:"name" yaml:"name"`
	} `json:"owner,omitempty" yaml:"owner,omitempty"`
	Zone *struct {
		Name string `json:"name" yaml:"name"`
	} `json:"zone,omitempty" yaml:"zone,omitempty"`
}

func (ReportSummaryQuery) Name() string { return "ReportSummary" }

func (ReportSummaryQuery) Document() string {
	return `query ReportSummary($code: String!) {
  reportData {
    report(code: $code) {
      code
      title
      startTime
      endTime
      owner {
        name
      }
      zone {
        name
      }
    }
  }
}`
}

func (ReportSummaryQuery) Quota(*ReportSummaryResponse) *core.QuotaSnapshot { return nil }
