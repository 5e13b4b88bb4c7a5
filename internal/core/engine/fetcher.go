package engine

import (
	"context"
	"errors"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/fightpath/fightpath/internal/core/events"
	"github.com/fightpath/fightpath/internal/metrics"
)

// Page is one bounded batch of report events.
type Page struct {
	Events []events.Event
	// NextCursor is the timestamp to resume from; nil means no more pages.
	NextCursor *float64
}

// PageSource fetches a single page of events for [start, end) of one fight.
type PageSource interface {
	EventsPage(ctx context.Context, code string, start, end float64, fightID int64) (*Page, error)
}

// EventFetcher assembles the complete event sequence of a fight window.
type EventFetcher struct {
	Source PageSource
	Logger *logging.Logger
}

// FetchEvents walks the pages of [windowStart, windowEnd) for fightID and
// returns their events in the order received. Any page error aborts the fetch
// and is returned unchanged.
func (f *EventFetcher) FetchEvents(ctx context.Context, code string, windowStart, windowEnd float64, fightID int64) ([]events.Event, error) {
	if f == nil || f.Source == nil {
		return nil, errors.New("event fetcher is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var out []events.Event
	pages := 0
	cursor := windowStart
	for cursor < windowEnd {
		page, err := f.Source.EventsPage(ctx, code, cursor, windowEnd, fightID)
		if err != nil {
			return nil, err
		}
		pages++
		if page == nil {
			break
		}
		metrics.RecordEventPage(len(page.Events))
		out = append(out, page.Events...)

		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}

	if f.Logger != nil {
		f.Logger.Debug("Fetched report events",
			zap.String("report", code),
			zap.Int64("fight", fightID),
			zap.Int("pages", pages),
			zap.Int("events", len(out)))
	}

	return out, nil
}
