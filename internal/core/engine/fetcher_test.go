package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fightpath/fightpath/internal/core/events"
)

type pageCall struct {
	start, end float64
	fightID    int64
}

type stubPageSource struct {
	pages []*Page
	errAt int
	err   error
	calls []pageCall
}

func (s *stubPageSource) EventsPage(ctx context.Context, code string, start, end float64, fightID int64) (*Page, error) {
	s.calls = append(s.calls, pageCall{start: start, end: end, fightID: fightID})
	idx := len(s.calls) - 1
	if s.err != nil && idx == s.errAt {
		return nil, s.err
	}
	if idx >= len(s.pages) {
		return &Page{}, nil
	}
	return s.pages[idx], nil
}

func cursor(v float64) *float64 { return &v }

func damageAt(ts int64) events.Event {
	return events.Event{Kind: events.KindDamage, Time: ts}
}

func TestFetchEventsConcatenatesPages(t *testing.T) {
	source := &stubPageSource{pages: []*Page{
		{Events: []events.Event{damageAt(0), damageAt(50)}, NextCursor: cursor(100)},
		{Events: []events.Event{damageAt(100), damageAt(150)}},
	}}
	fetcher := &EventFetcher{Source: source}

	got, err := fetcher.FetchEvents(context.Background(), "abc", 0, 200, 7)
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, []int64{0, 50, 100, 150}, []int64{got[0].Time, got[1].Time, got[2].Time, got[3].Time})

	require.Equal(t, []pageCall{
		{start: 0, end: 200, fightID: 7},
		{start: 100, end: 200, fightID: 7},
	}, source.calls)
}

func TestFetchEventsStopsAtWindowEnd(t *testing.T) {
	source := &stubPageSource{pages: []*Page{
		{Events: []events.Event{damageAt(0)}, NextCursor: cursor(200)},
		{Events: []events.Event{damageAt(250)}},
	}}
	fetcher := &EventFetcher{Source: source}

	got, err := fetcher.FetchEvents(context.Background(), "abc", 0, 200, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, source.calls, 1)
}

func TestFetchEventsEmptyWindow(t *testing.T) {
	source := &stubPageSource{}
	fetcher := &EventFetcher{Source: source}

	got, err := fetcher.FetchEvents(context.Background(), "abc", 100, 100, 1)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Empty(t, source.calls)
}

func TestFetchEventsPropagatesPageError(t *testing.T) {
	pageErr := errors.New("boom")
	source := &stubPageSource{
		pages: []*Page{
			{Events: []events.Event{damageAt(0)}, NextCursor: cursor(100)},
		},
		errAt: 1,
		err:   pageErr,
	}
	fetcher := &EventFetcher{Source: source}

	got, err := fetcher.FetchEvents(context.Background(), "abc", 0, 200, 1)
	require.ErrorIs(t, err, pageErr)
	require.Nil(t, got)
}

func TestFetchEventsRequiresSource(t *testing.T) {
	var fetcher *EventFetcher
	_, err := fetcher.FetchEvents(context.Background(), "abc", 0, 1, 1)
	require.Error(t, err)
}
